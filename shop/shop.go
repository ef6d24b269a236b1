package shop

import (
	"context"
	"io"
	"time"

	"github.com/armon/go-metrics"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/Collaboration95/SleepingBarber.git/api"
	"github.com/Collaboration95/SleepingBarber.git/client"
	"github.com/Collaboration95/SleepingBarber.git/common"
	"github.com/Collaboration95/SleepingBarber.git/config"
	"github.com/Collaboration95/SleepingBarber.git/server"
)

// Options are the collaborators of a run. Every field is optional.
type Options struct {
	// Narration goes here, nil disables it
	Out io.Writer

	Logger hclog.Logger

	// Events are also counted here when set
	Metrics *metrics.Metrics

	// Extra sink for every event
	Notifier api.Notifier
}

// Summary is what happened during a run.
type Summary struct {
	Elapsed           time.Duration
	ServicesStarted   int
	ServedImmediately int
	Queued            int
	Departed          int

	// clients still in the chairs when the shop closed
	Abandoned int
}

type App struct {
	conf   *config.Config
	logger hclog.Logger

	room    *server.WaitingRoom
	barber  *server.Barber
	clients []*client.Client

	tally    *Tally
	narrator *Narrator
}

// New builds the shop: one waiting room, one barber and conf.Clients
// clients, all sharing the room.
func New(conf *config.Config, opts Options) (*App, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	app := &App{
		conf:   conf,
		logger: logger,
		room:   server.NewWaitingRoom(conf.Chairs, logger.Named("room")),
		tally:  NewTally(),
	}

	notifiers := api.Notifiers{app.tally}
	if opts.Out != nil {
		app.narrator = NewNarrator(opts.Out, conf.Unit, conf.NoColor)
		notifiers = append(notifiers, app.narrator)
	}
	if opts.Metrics != nil {
		notifiers = append(notifiers, NewMetricsNotifier(opts.Metrics, conf.Unit))
	}
	if opts.Notifier != nil {
		notifiers = append(notifiers, opts.Notifier)
	}

	app.barber = server.NewBarber(app.room, conf.Unit, notifiers, logger.Named("barber"))

	seed := conf.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	clientLogger := logger.Named("client")
	for id := 1; id <= conf.Clients; id++ {
		delays, err := common.NewDelays(conf.Min, conf.Max, seed+uint64(id))
		if err != nil {
			return nil, err
		}
		app.clients = append(app.clients, client.NewClient(id, app.room, delays, conf.Unit, notifiers, clientLogger))
	}

	return app, nil
}

// Run opens the shop for the configured duration, or until ctx is done,
// then stops every worker and closes the room. Running out of time is the
// normal way for a run to end and is not an error.
func (a *App) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	a.logger.Info("shop opening",
		"clients", a.conf.Clients,
		"chairs", a.conf.Chairs,
		"duration", a.conf.Duration(),
		"min", a.conf.Min,
		"max", a.conf.Max)

	ctx, cancel := context.WithTimeout(ctx, a.conf.Duration())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.barber.Run(gctx) })
	for _, c := range a.clients {
		c := c
		g.Go(func() error { return c.Run(gctx) })
	}
	if a.conf.StatusInterval > 0 {
		g.Go(func() error { return a.LogStatus(gctx, a.conf.StatusInterval, a.logger.Named("status")) })
	}

	err := g.Wait()

	abandoned := a.room.Occupancy()
	a.room.Close()

	summary := Summary{
		Elapsed:           time.Since(start),
		ServicesStarted:   a.tally.Count(api.ServiceStarted),
		ServedImmediately: a.tally.Count(api.ServedImmediately),
		Queued:            a.tally.Count(api.ClientQueued),
		Departed:          a.tally.Count(api.ClientDeparted),
		Abandoned:         abandoned,
	}
	if a.narrator != nil {
		a.narrator.Summary(summary)
	}
	a.logger.Info("shop closed",
		"elapsed", summary.Elapsed,
		"haircuts", summary.ServicesStarted,
		"departed", summary.Departed,
		"abandoned", summary.Abandoned)

	return summary, err
}

// Run builds a shop from conf and runs it.
func Run(ctx context.Context, conf *config.Config, opts Options) (Summary, error) {
	app, err := New(conf, opts)
	if err != nil {
		return Summary{}, err
	}
	return app.Run(ctx)
}
