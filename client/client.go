package client

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/Collaboration95/SleepingBarber.git/api"
	"github.com/Collaboration95/SleepingBarber.git/common"
)

// Admitter is the part of the waiting room a client talks to. TryAdmit
// reports the outcome and the occupancy it left, both taken atomically.
type Admitter interface {
	TryAdmit(common.Client) (common.Outcome, int)
}

// Client is one person who keeps coming back to the shop.
type Client struct {
	ID int

	room     Admitter
	delays   *common.Delays
	unit     time.Duration
	notifier api.Notifier
	logger   hclog.Logger

	// visits started so far
	visits int
}

func NewClient(id int, room Admitter, delays *common.Delays, unit time.Duration, notifier api.Notifier, logger hclog.Logger) *Client {
	if notifier == nil {
		notifier = api.Notifiers{}
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Client{
		ID:       id,
		room:     room,
		delays:   delays,
		unit:     unit,
		notifier: notifier,
		logger:   logger.With("client", id),
	}
}

// Run repeats visits until ctx is done. Cancellation abandons the visit in
// progress and is not reported as an error.
func (c *Client) Run(ctx context.Context) error {
	c.logger.Debug("client started")
	for {
		if _, err := c.Visit(ctx); err != nil {
			c.logger.Debug("client stopped", "visits", c.visits, "reason", err)
			return nil
		}
	}
}

// Visit waits a random time, then tries to get into the shop once. Once
// seated the client needs to do nothing more; the barber will call.
func (c *Client) Visit(ctx context.Context) (common.Outcome, error) {
	c.visits++
	visit := common.Client{
		ID:      c.ID,
		Visit:   c.visits,
		CutTime: c.delays.RandomInRange(),
	}
	arrival := c.delays.RandomInRange()

	c.logger.Trace("heading to the shop", "visit", visit.Visit, "arrival", arrival, "cut", visit.CutTime)
	if err := common.Sleep(ctx, time.Duration(arrival)*c.unit); err != nil {
		return common.Rejected, err
	}

	outcome, occupancy := c.room.TryAdmit(visit)
	c.logger.Debug("arrived", "visit", visit.Visit, "outcome", outcome, "occupancy", occupancy)
	c.notifier.Notify(api.OutcomeEvent(visit, outcome, occupancy))
	return outcome, nil
}

// Visits reports how many visits the client has started.
func (c *Client) Visits() int {
	return c.visits
}
