package shop

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/Collaboration95/SleepingBarber.git/api"
)

// Narrator prints one human readable line per event.
type Narrator struct {
	mu   sync.Mutex
	out  io.Writer
	unit time.Duration

	sleeping, straight, waiting, left, cutting *color.Color
}

func NewNarrator(out io.Writer, unit time.Duration, noColor bool) *Narrator {
	n := &Narrator{
		out:      out,
		unit:     unit,
		sleeping: color.New(color.FgBlue),
		straight: color.New(color.FgGreen),
		waiting:  color.New(color.FgYellow),
		left:     color.New(color.FgRed),
		cutting:  color.New(color.FgCyan, color.Bold),
	}
	if noColor {
		for _, c := range []*color.Color{n.sleeping, n.straight, n.waiting, n.left, n.cutting} {
			c.DisableColor()
		}
	}
	return n
}

func (n *Narrator) Notify(e api.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch e.Kind {
	case api.BarberSleeping:
		n.sleeping.Fprintln(n.out, "The barber is sleeping.")
	case api.ServedImmediately:
		n.straight.Fprintf(n.out, "client %d went straight to the barber\n", e.Client.ID)
	case api.ClientQueued:
		n.waiting.Fprintf(n.out, "client %d is waiting. (%d in the waiting room)\n", e.Client.ID, e.Occupancy)
	case api.ClientDeparted:
		n.left.Fprintf(n.out, "client %d left.\n", e.Client.ID)
	case api.ServiceStarted:
		n.cutting.Fprintf(n.out, "client %d is getting their hair cut for %s.\n", e.Client.ID, n.length(e.Client.CutTime))
	}
}

func (n *Narrator) length(units int) string {
	if n.unit == time.Second {
		if units == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", units)
	}
	return (time.Duration(units) * n.unit).String()
}

// Summary prints the end of day totals.
func (n *Narrator) Summary(s Summary) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "Shop closed after %s: %d haircuts started, %d clients went straight in, %d waited, %d left without a haircut, %d abandoned in the waiting room.\n",
		s.Elapsed.Round(time.Millisecond), s.ServicesStarted, s.ServedImmediately, s.Queued, s.Departed, s.Abandoned)
}
