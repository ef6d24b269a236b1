package server

import (
	"context"
	"testing"
	"time"

	"github.com/Collaboration95/SleepingBarber.git/api"
	"github.com/Collaboration95/SleepingBarber.git/api/apitest"
	"github.com/Collaboration95/SleepingBarber.git/common"
)

func startBarber(t *testing.T, r *WaitingRoom, unit time.Duration) (*apitest.Recorder, context.CancelFunc, <-chan error) {
	t.Helper()
	rec := &apitest.Recorder{}
	b := NewBarber(r, unit, rec, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errC := make(chan error, 1)
	go func() { errC <- b.Run(ctx) }()
	return rec, cancel, errC
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func checkStopped(t *testing.T, errC <-chan error) {
	t.Helper()
	select {
	case err := <-errC:
		if err != nil {
			t.Fatalf("barber returned %v on cancellation", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("barber did not stop after cancellation")
	}
}

func TestBarberServesQueueThenSleeps(t *testing.T) {
	r := NewWaitingRoom(3, nil)
	rec, cancel, errC := startBarber(t, r, time.Millisecond)
	defer cancel()

	waitFor(t, "barber to fall asleep", func() bool { return rec.Count(api.BarberSleeping) == 1 })

	r.TryAdmit(common.Client{ID: 1, Visit: 1, CutTime: 20})
	r.TryAdmit(common.Client{ID: 2, Visit: 1, CutTime: 1})
	r.TryAdmit(common.Client{ID: 3, Visit: 1, CutTime: 1})

	waitFor(t, "all haircuts", func() bool { return rec.Count(api.ServiceStarted) == 3 })
	waitFor(t, "barber to sleep again", func() bool { return rec.Count(api.BarberSleeping) == 2 })

	var (
		order     []int
		occupancy []int
	)
	for _, e := range rec.Events() {
		switch e.Kind {
		case api.ServiceStarted:
			order = append(order, e.Client.ID)
			occupancy = append(occupancy, e.Occupancy)
		case api.BarberSleeping:
			if e.Occupancy != 0 {
				t.Fatalf("barber fell asleep with occupancy %d", e.Occupancy)
			}
		}
	}
	for i, id := range []int{1, 2, 3} {
		if order[i] != id {
			t.Fatalf("expected service order [1 2 3], got %v", order)
		}
	}
	// clients 2 and 3 were seated before the first haircut ended
	if occupancy[1] != 1 || occupancy[2] != 0 {
		t.Fatalf("expected occupancy 1 then 0 for the queued clients, got %v", occupancy[1:])
	}
	checkStatus(t, r, common.Sleeping, 0)

	cancel()
	checkStopped(t, errC)
}

// The haircut happens outside the lock: clients can be admitted while the
// barber is busy.
func TestBarberDoesNotHoldLockWhileCutting(t *testing.T) {
	r := NewWaitingRoom(1, nil)
	rec, cancel, errC := startBarber(t, r, time.Hour)
	defer cancel()

	r.TryAdmit(common.Client{ID: 1, Visit: 1, CutTime: 1})
	waitFor(t, "haircut to start", func() bool { return rec.Count(api.ServiceStarted) == 1 })

	done := make(chan common.Outcome, 1)
	go func() {
		o, _ := r.TryAdmit(common.Client{ID: 2, Visit: 1, CutTime: 1})
		done <- o
	}()
	select {
	case o := <-done:
		checkOutcome(t, o, common.Queued)
	case <-time.After(time.Second):
		t.Fatalf("admission blocked by a haircut in progress")
	}

	cancel()
	checkStopped(t, errC)
}

func TestBarberCancelledWhileSleeping(t *testing.T) {
	r := NewWaitingRoom(1, nil)
	rec, cancel, errC := startBarber(t, r, time.Millisecond)

	waitFor(t, "barber to fall asleep", func() bool { return rec.Count(api.BarberSleeping) == 1 })
	cancel()
	checkStopped(t, errC)
}

func TestBarberStopsWhenRoomCloses(t *testing.T) {
	r := NewWaitingRoom(1, nil)
	rec, cancel, errC := startBarber(t, r, time.Millisecond)
	defer cancel()

	waitFor(t, "barber to fall asleep", func() bool { return rec.Count(api.BarberSleeping) == 1 })
	r.Close()
	checkStopped(t, errC)
}

// A sleeping barber is woken by each new arrival without outside help.
func TestBarberLiveness(t *testing.T) {
	r := NewWaitingRoom(2, nil)
	rec, cancel, errC := startBarber(t, r, time.Millisecond)
	defer cancel()

	for round := 1; round <= 5; round++ {
		waitFor(t, "barber to sleep", func() bool { return r.Status().State == common.Sleeping })
		checkAdmit(t, r, common.Client{ID: round, Visit: 1, CutTime: 1}, common.ServedImmediately)
		r.TryAdmit(common.Client{ID: 100 + round, Visit: 1, CutTime: 1})
		waitFor(t, "both haircuts", func() bool { return rec.Count(api.ServiceStarted) == 2*round })
	}

	cancel()
	checkStopped(t, errC)
}
