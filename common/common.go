// common/common.go
package common

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"
)

var ErrInvalidRange = errors.New("invalid delay range")

// Client is one visit of a client to the shop.
type Client struct {
	ID      int // stable per person, assigned once
	Visit   int // 1 for the first visit, incremented on every return
	CutTime int // service duration in time units, drawn once per visit
}

func (c Client) String() string {
	return fmt.Sprintf("client %d (visit %d)", c.ID, c.Visit)
}

// Outcome of an admission attempt
type Outcome int

const (
	ServedImmediately Outcome = iota
	Queued
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case ServedImmediately:
		return "served-immediately"
	case Queued:
		return "queued"
	case Rejected:
		return "rejected"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// BarberState is either Sleeping or Serving
type BarberState int

const (
	Sleeping BarberState = iota
	Serving
)

func (s BarberState) String() string {
	if s == Serving {
		return "serving"
	}
	return "sleeping"
}

// Delays draws uniformly distributed integers from the inclusive range
// [Min, Max]. A Delays value is not safe for concurrent use; give every
// worker its own.
type Delays struct {
	Min, Max int
	rng      *rand.Rand
}

// NewDelays returns a generator over [min, max] seeded with seed.
func NewDelays(min, max int, seed uint64) (*Delays, error) {
	if min > max {
		return nil, fmt.Errorf("%w: min %d > max %d", ErrInvalidRange, min, max)
	}
	return &Delays{Min: min, Max: max, rng: rand.New(rand.NewSource(seed))}, nil
}

// RandomInRange returns an integer in [d.Min, d.Max]. The span is computed
// in uint64 so ranges reaching math.MaxInt do not overflow.
func (d *Delays) RandomInRange() int {
	span := uint64(d.Max) - uint64(d.Min)
	if span == math.MaxUint64 {
		return int(d.rng.Uint64())
	}
	return int(uint64(d.Min) + d.rng.Uint64n(span+1))
}

// Sleep blocks for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
