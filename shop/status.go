package shop

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/Collaboration95/SleepingBarber.git/api"
	"github.com/Collaboration95/SleepingBarber.git/server"
)

// ShopStatus is a point in time view of the shop, logged periodically.
type ShopStatus struct {
	Room              server.Status
	ServicesStarted   int
	ServedImmediately int
	Queued            int
	Departed          int
}

func (a *App) GetStatus() ShopStatus {
	return ShopStatus{
		Room:              a.room.Status(),
		ServicesStarted:   a.tally.Count(api.ServiceStarted),
		ServedImmediately: a.tally.Count(api.ServedImmediately),
		Queued:            a.tally.Count(api.ClientQueued),
		Departed:          a.tally.Count(api.ClientDeparted),
	}
}

// LogStatus logs a snapshot of the shop every interval until ctx is done.
func (a *App) LogStatus(ctx context.Context, interval time.Duration, logger hclog.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s := a.GetStatus()
			logger.Info("shop status",
				"barber", s.Room.State,
				"chair", s.Room.Current.ID,
				"occupancy", s.Room.Occupancy,
				"capacity", s.Room.Capacity,
				"waiting", s.Room.Waiting,
				"haircuts", s.ServicesStarted,
				"departed", s.Departed)
		}
	}
}
