// waiting room shared by the barber and every client

package server

import (
	"context"
	"errors"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/Collaboration95/SleepingBarber.git/common"
)

var ErrRoomClosed = errors.New("waiting room is closed")

// WaitingRoom is the only state shared between the barber and the
// clients. Every field is guarded by mu.
type WaitingRoom struct {
	mu sync.Mutex

	// signalled when the barber has someone to serve or the room closes
	wake *sync.Cond

	capacity int

	// clients waiting in the chairs, oldest first
	queue []common.Client

	// number of clients in the chairs, excludes the one in the barber chair
	occupancy int

	state common.BarberState

	// valid only while state == Serving
	current common.Client

	closed bool

	logger hclog.Logger
}

// Status is a consistent copy of the room's state.
type Status struct {
	State     common.BarberState
	Current   common.Client
	Occupancy int
	Capacity  int
	Waiting   []int // client ids, oldest first
}

func NewWaitingRoom(capacity int, logger hclog.Logger) *WaitingRoom {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	r := &WaitingRoom{
		capacity: capacity,
		queue:    make([]common.Client, 0, capacity),
		state:    common.Sleeping,
		logger:   logger,
	}
	r.wake = sync.NewCond(&r.mu)
	return r
}

// TryAdmit seats a client. A sleeping barber is woken and serves the client
// right away; otherwise the client takes a free chair or is turned away.
// A Rejected outcome leaves the room untouched. The occupancy returned is
// the one left by this admission, read under the same lock.
func (r *WaitingRoom) TryAdmit(c common.Client) (common.Outcome, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return common.Rejected, r.occupancy
	}

	if r.state == common.Sleeping {
		r.state = common.Serving
		r.current = c
		r.wake.Signal()
		r.logger.Trace("barber woken", "client", c.ID, "visit", c.Visit)
		return common.ServedImmediately, r.occupancy
	}

	if r.occupancy < r.capacity {
		r.queue = append(r.queue, c)
		r.occupancy++
		r.logger.Trace("client seated", "client", c.ID, "visit", c.Visit, "occupancy", r.occupancy)
		return common.Queued, r.occupancy
	}

	return common.Rejected, r.occupancy
}

// FinishAndAdvance is called by the barber once a haircut is over. It
// hands the barber the longest waiting client, or puts the barber to sleep when
// the chairs are empty. The occupancy left behind is returned with it.
func (r *WaitingRoom) FinishAndAdvance() (common.Client, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.queue) == 0 {
		r.state = common.Sleeping
		r.current = common.Client{}
		return common.Client{}, r.occupancy, false
	}

	next := r.queue[0]
	r.queue[0] = common.Client{}
	r.queue = r.queue[1:]
	r.occupancy--

	r.current = next
	r.state = common.Serving
	r.logger.Trace("next client", "client", next.ID, "visit", next.Visit, "occupancy", r.occupancy)
	return next, r.occupancy, true
}

// WaitForClient blocks while the barber is asleep. It returns the client
// the barber must serve together with the occupancy at that moment, or an
// error once ctx is done or the room closes.
func (r *WaitingRoom) WaitForClient(ctx context.Context) (common.Client, int, error) {
	done := make(chan struct{})
	defer close(done)
	go r.watchContext(ctx, done)

	r.mu.Lock()
	defer r.mu.Unlock()

	for r.state == common.Sleeping && !r.closed {
		if err := ctx.Err(); err != nil {
			return common.Client{}, r.occupancy, err
		}
		r.wake.Wait()
	}
	if r.closed {
		return common.Client{}, r.occupancy, ErrRoomClosed
	}
	return r.current, r.occupancy, nil
}

// watchContext wakes WaitForClient when ctx is done. Broadcasting under mu
// means the wakeup cannot slip in between the ctx check and Wait.
func (r *WaitingRoom) watchContext(ctx context.Context, done <-chan struct{}) {
	select {
	case <-ctx.Done():
		r.mu.Lock()
		r.wake.Broadcast()
		r.mu.Unlock()
	case <-done:
	}
}

// Close drops every waiting client and wakes the barber. Later admissions
// are rejected.
func (r *WaitingRoom) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.logger.Debug("closing waiting room", "abandoned", r.occupancy)
	r.queue = nil
	r.occupancy = 0
	r.state = common.Sleeping
	r.current = common.Client{}
	r.wake.Broadcast()
}

func (r *WaitingRoom) Occupancy() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.occupancy
}

func (r *WaitingRoom) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	waiting := make([]int, len(r.queue))
	for i, c := range r.queue {
		waiting[i] = c.ID
	}
	return Status{
		State:     r.state,
		Current:   r.current,
		Occupancy: r.occupancy,
		Capacity:  r.capacity,
		Waiting:   waiting,
	}
}
