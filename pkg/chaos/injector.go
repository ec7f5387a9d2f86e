package chaos

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/getmockd/talentflow/pkg/logging"
)

// Injector is the randomized Policy.
type Injector struct {
	config   Config
	minDelay time.Duration
	maxDelay time.Duration
	rng      *rand.Rand
	mu       sync.Mutex
	stats    Stats
	log      *slog.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

// Option configures an Injector.
type Option func(*Injector)

// WithSeed makes the injector's draws reproducible.
func WithSeed(seed uint64) Option {
	return func(i *Injector) {
		i.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithLogger sets the logger for injected faults.
func WithLogger(l *slog.Logger) Option {
	return func(i *Injector) {
		i.log = logging.Component(l, "chaos")
	}
}

// NewInjector creates an injector from configuration.
func NewInjector(config Config, opts ...Option) (*Injector, error) {
	// Clamp probability values to [0.0, 1.0]
	config.Clamp()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chaos config: %w", err)
	}

	i := &Injector{
		config: config,
		rng:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		log:    logging.Nop(),
		sleep:  sleep,
	}
	if config.Enabled && config.Latency != nil {
		var err error
		if i.minDelay, i.maxDelay, err = config.Latency.bounds(); err != nil {
			return nil, err
		}
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// IsEnabled returns whether injection is enabled.
func (i *Injector) IsEnabled() bool {
	return i.config.Enabled
}

// Config returns the injector's configuration.
func (i *Injector) Config() Config {
	return i.config
}

// exempt reports whether path matches one of the exempt globs.
func (i *Injector) exempt(path string) bool {
	for _, pattern := range i.config.ExemptPaths {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// Delay waits a uniform random duration in [Min, Max], inclusive.
func (i *Injector) Delay(ctx context.Context, req Request) error {
	i.mu.Lock()
	i.stats.TotalRequests++
	if !i.IsEnabled() || i.config.Latency == nil || i.exempt(req.Path) {
		i.mu.Unlock()
		return ctx.Err()
	}
	delay := i.minDelay
	if span := i.maxDelay - i.minDelay; span > 0 {
		delay += time.Duration(i.rng.Int64N(int64(span) + 1))
	}
	i.stats.LatencyInjected++
	i.stats.TotalDelay += delay
	i.mu.Unlock()

	return i.sleep(ctx, delay)
}

// Fault fails write requests with the configured probability.
func (i *Injector) Fault(req Request) *InjectedFault {
	if !i.IsEnabled() || i.config.ErrorRate == nil || !req.IsWrite() || i.exempt(req.Path) {
		return nil
	}

	i.mu.Lock()
	roll := i.rng.Float64()
	fire := roll < i.config.ErrorRate.Probability
	if fire {
		i.stats.ErrorsInjected++
	}
	i.mu.Unlock()

	if !fire {
		return nil
	}
	fault := defaultFault()
	if sc := i.config.ErrorRate.StatusCode; sc != 0 {
		fault.Status = sc
	}
	if msg := i.config.ErrorRate.Message; msg != "" {
		fault.Message = msg
	}
	i.log.Debug("fault injected", "method", req.Method, "path", req.Path, "status", fault.Status)
	return fault
}

// Stats returns a copy of the current statistics.
func (i *Injector) Stats() Stats {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.stats
}

var _ Policy = (*Injector)(nil)
