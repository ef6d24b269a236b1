package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// ErrConfiguration is wrapped by every error Parse and Validate return.
var ErrConfiguration = errors.New("configuration error")

// Config holds the simulation parameters. It is read once at startup and
// never mutated afterwards.
type Config struct {
	// Number of clients
	Clients int

	// How long the simulation runs, in time units
	Stop int

	// Bounds for random arrival delays and haircut durations, in time units
	Min, Max int

	// Waiting room capacity
	Chairs int

	// Length of one time unit
	Unit time.Duration

	// Random seed, 0 picks one from the clock
	Seed uint64

	LogLevel       string
	NoColor        bool
	StatusInterval time.Duration
}

var required = []string{"n", "stop", "min", "max", "chairs"}

// Duration is the wall-clock length of the simulation.
func (c *Config) Duration() time.Duration {
	return time.Duration(c.Stop) * c.Unit
}

// Parse reads the command line (without the program name).
func Parse(name string, args []string, output io.Writer) (*Config, error) {
	conf := &Config{}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.IntVar(&conf.Clients, "n", 0, "number of clients")
	fs.IntVar(&conf.Stop, "stop", 0, "how long to run, in time units")
	fs.IntVar(&conf.Min, "min", 0, "minimum random delay, in time units")
	fs.IntVar(&conf.Max, "max", 0, "maximum random delay, in time units")
	fs.IntVar(&conf.Chairs, "chairs", 0, "number of chairs in the waiting room")
	fs.DurationVar(&conf.Unit, "unit", time.Second, "length of one time unit")
	fs.Uint64Var(&conf.Seed, "seed", 0, "random seed (0 uses the clock)")
	fs.StringVar(&conf.LogLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	fs.BoolVar(&conf.NoColor, "no-color", false, "disable coloured output")
	fs.DurationVar(&conf.StatusInterval, "status-interval", 0, "log a status snapshot this often (0 disables)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %q", ErrConfiguration, fs.Args())
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var missing []string
	for _, name := range required {
		if !set[name] {
			missing = append(missing, "-"+name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: missing %s", ErrConfiguration, strings.Join(missing, ", "))
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate checks the numeric constraints between fields.
func (c *Config) Validate() error {
	var problems []string

	if c.Clients <= 0 {
		problems = append(problems, fmt.Sprintf("number of clients must be positive, got %d", c.Clients))
	}
	if c.Stop < 0 {
		problems = append(problems, fmt.Sprintf("stop must not be negative, got %d", c.Stop))
	}
	if c.Min < 0 {
		problems = append(problems, fmt.Sprintf("min must not be negative, got %d", c.Min))
	}
	if c.Min > c.Max {
		problems = append(problems, fmt.Sprintf("min (%d) is greater than max (%d)", c.Min, c.Max))
	}
	if c.Chairs < 0 {
		problems = append(problems, fmt.Sprintf("chairs must not be negative, got %d", c.Chairs))
	}
	if c.Unit <= 0 {
		problems = append(problems, fmt.Sprintf("unit must be positive, got %s", c.Unit))
	} else {
		// every delay is converted with time.Duration(n) * Unit
		limit := math.MaxInt64 / int64(c.Unit)
		if int64(c.Stop) > limit {
			problems = append(problems, fmt.Sprintf("stop (%d) is too large for unit %s", c.Stop, c.Unit))
		}
		if int64(c.Max) > limit {
			problems = append(problems, fmt.Sprintf("max (%d) is too large for unit %s", c.Max, c.Unit))
		}
	}
	if c.LogLevel != "" && hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		problems = append(problems, fmt.Sprintf("unknown log level %q", c.LogLevel))
	}
	if c.StatusInterval < 0 {
		problems = append(problems, fmt.Sprintf("status interval must not be negative, got %s", c.StatusInterval))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(problems, "; "))
	}
	return nil
}
