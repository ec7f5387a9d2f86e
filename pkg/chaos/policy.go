package chaos

import (
	"context"
	"time"
)

// Policy decides latency and failures for simulated requests.
// The dispatcher consults it once per request: Delay first, then Fault
// for writes.
type Policy interface {
	// Delay blocks for the simulated latency. It returns ctx.Err() if the
	// context ends first.
	Delay(ctx context.Context, req Request) error

	// Fault returns the failure to report instead of running the handler,
	// or nil to let the request through.
	Fault(req Request) *InjectedFault
}

// Fixed is a deterministic Policy: every request waits Latency, and when
// Fail is set every write fails with the default 500 fault.
type Fixed struct {
	Latency time.Duration
	Fail    bool
}

// None neither delays nor fails.
var None Policy = Fixed{}

// Delay implements Policy.
func (f Fixed) Delay(ctx context.Context, _ Request) error {
	return sleep(ctx, f.Latency)
}

// Fault implements Policy.
func (f Fixed) Fault(req Request) *InjectedFault {
	if f.Fail && req.IsWrite() {
		return defaultFault()
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
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
