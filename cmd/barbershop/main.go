// command line arguments:
//
//	-n       number of clients
//	-stop    how long the shop stays open
//	-min     smallest random delay
//	-max     largest random delay
//	-chairs  number of chairs in the waiting room
//
// all five are required and measured in time units (-unit, one second by
// default). Send SIGUSR1 to dump the collected metrics to stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/armon/go-metrics"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/Collaboration95/SleepingBarber.git/config"
	"github.com/Collaboration95/SleepingBarber.git/shop"
)

func main() {
	if err := run(os.Args[0], os.Args[1:], os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run owns every deferred cleanup so that main only exits once they have
// happened. Errors are reported to stderr before they are returned.
func run(name string, args []string, stderr io.Writer) error {
	conf, err := config.Parse(name, args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return err
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "barbershop",
		Level:  hclog.LevelFromString(conf.LogLevel),
		Output: stderr,
		Color:  colorOption(conf.NoColor),
	}).With("run", uuid.NewString())

	m, sink, err := shop.NewMetrics()
	if err != nil {
		logger.Error("could not set up metrics", "error", err)
		return err
	}
	inmemSignal := metrics.DefaultInmemSignal(sink)
	defer inmemSignal.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	_, err = shop.Run(ctx, conf, shop.Options{
		Out:     color.Output,
		Logger:  logger,
		Metrics: m,
	})
	if err != nil {
		logger.Error("simulation failed", "error", err)
		return err
	}
	return nil
}

func colorOption(noColor bool) hclog.ColorOption {
	if noColor {
		return hclog.ColorOff
	}
	return hclog.AutoColor
}
