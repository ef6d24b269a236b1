// events published by the barber and the clients

package api

import (
	"github.com/Collaboration95/SleepingBarber.git/common"
)

// kind of a status event
type EventKind int

const (
	BarberSleeping EventKind = iota
	ServedImmediately
	ClientQueued
	ClientDeparted
	ServiceStarted
)

func (k EventKind) String() string {
	switch k {
	case BarberSleeping:
		return "barber-sleeping"
	case ServedImmediately:
		return "served-immediately"
	case ClientQueued:
		return "queued"
	case ClientDeparted:
		return "departed"
	case ServiceStarted:
		return "service-started"
	}
	return "unknown"
}

/*
* Event
 */

type Event struct {
	Kind   EventKind
	Client common.Client // zero for BarberSleeping

	// occupancy of the waiting room right after the event
	Occupancy int
}

// OutcomeEvent maps an admission outcome to the event a client publishes.
func OutcomeEvent(c common.Client, o common.Outcome, occupancy int) Event {
	kind := ClientDeparted
	switch o {
	case common.ServedImmediately:
		kind = ServedImmediately
	case common.Queued:
		kind = ClientQueued
	}
	return Event{Kind: kind, Client: c, Occupancy: occupancy}
}

// Notifier consumes status events. Implementations must be safe for
// concurrent use; Notify is never called with the room lock held.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) { f(e) }

// Notifiers fans an event out to every notifier in order.
type Notifiers []Notifier

func (ns Notifiers) Notify(e Event) {
	for _, n := range ns {
		n.Notify(e)
	}
}
