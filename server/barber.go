package server

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/Collaboration95/SleepingBarber.git/api"
	"github.com/Collaboration95/SleepingBarber.git/common"
)

// Barber serves the clients of one waiting room, one at a time.
type Barber struct {
	room     *WaitingRoom
	unit     time.Duration
	notifier api.Notifier
	logger   hclog.Logger
}

func NewBarber(room *WaitingRoom, unit time.Duration, notifier api.Notifier, logger hclog.Logger) *Barber {
	if notifier == nil {
		notifier = api.Notifiers{}
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Barber{room: room, unit: unit, notifier: notifier, logger: logger}
}

// Run sleeps until a client shows up, cuts hair until the chairs are empty
// and goes back to sleep. It returns nil once ctx is done or the room is
// closed; a haircut in progress is abandoned.
func (b *Barber) Run(ctx context.Context) error {
	b.logger.Debug("barber started")
	b.notifier.Notify(api.Event{Kind: api.BarberSleeping})

	for {
		c, occupancy, err := b.room.WaitForClient(ctx)
		if err != nil {
			if errors.Is(err, ErrRoomClosed) || ctx.Err() != nil {
				b.logger.Debug("barber stopped", "reason", err)
				return nil
			}
			return err
		}

		ok := true
		for ok {
			if err := b.cut(ctx, c, occupancy); err != nil {
				b.logger.Debug("barber stopped during haircut", "client", c.ID, "reason", err)
				return nil
			}
			c, occupancy, ok = b.room.FinishAndAdvance()
		}

		// the barber only sleeps once the chairs are empty
		b.logger.Debug("barber going to sleep")
		b.notifier.Notify(api.Event{Kind: api.BarberSleeping, Occupancy: occupancy})
	}
}

// cut holds the client in the barber chair for its haircut. The room lock
// is not held, so clients keep arriving meanwhile. occupancy is the count
// the room reported when it handed c over.
func (b *Barber) cut(ctx context.Context, c common.Client, occupancy int) error {
	b.logger.Debug("cutting hair", "client", c.ID, "visit", c.Visit, "units", c.CutTime)
	b.notifier.Notify(api.Event{Kind: api.ServiceStarted, Client: c, Occupancy: occupancy})
	return common.Sleep(ctx, time.Duration(c.CutTime)*b.unit)
}
