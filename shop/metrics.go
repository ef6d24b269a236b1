package shop

import (
	"sync"
	"time"

	"github.com/armon/go-metrics"

	"github.com/Collaboration95/SleepingBarber.git/api"
)

const ServiceName = "barbershop"

// NewMetrics returns a metrics registry backed by an in-memory sink. The
// sink keeps one minute of 10 second intervals.
func NewMetrics() (*metrics.Metrics, *metrics.InmemSink, error) {
	sink := metrics.NewInmemSink(10*time.Second, time.Minute)

	conf := metrics.DefaultConfig(ServiceName)
	conf.EnableHostname = false
	conf.EnableHostnameLabel = false
	conf.EnableRuntimeMetrics = false

	m, err := metrics.New(conf, sink)
	if err != nil {
		return nil, nil, err
	}
	return m, sink, nil
}

// MetricsNotifier turns events into counters, gauges and samples.
type MetricsNotifier struct {
	m    *metrics.Metrics
	unit time.Duration
}

func NewMetricsNotifier(m *metrics.Metrics, unit time.Duration) *MetricsNotifier {
	return &MetricsNotifier{m: m, unit: unit}
}

func (mn *MetricsNotifier) Notify(e api.Event) {
	switch e.Kind {
	case api.BarberSleeping:
		mn.m.IncrCounter([]string{"barber", "sleeping"}, 1)
	case api.ServedImmediately:
		mn.m.IncrCounter([]string{"client", "served_immediately"}, 1)
	case api.ClientQueued:
		mn.m.IncrCounter([]string{"client", "queued"}, 1)
	case api.ClientDeparted:
		mn.m.IncrCounter([]string{"client", "departed"}, 1)
	case api.ServiceStarted:
		mn.m.IncrCounter([]string{"barber", "service_started"}, 1)
		mn.m.AddSample([]string{"barber", "service_time"}, float32(time.Duration(e.Client.CutTime)*mn.unit/time.Millisecond))
	}
	mn.m.SetGauge([]string{"room", "occupancy"}, float32(e.Occupancy))
}

// Tally keeps exact totals for the end of run summary.
type Tally struct {
	mu     sync.Mutex
	counts map[api.EventKind]int
}

func NewTally() *Tally {
	return &Tally{counts: make(map[api.EventKind]int)}
}

func (t *Tally) Notify(e api.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[e.Kind]++
}

func (t *Tally) Count(k api.EventKind) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[k]
}
