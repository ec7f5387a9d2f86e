package talentflowtest

import (
	"time"

	"github.com/getmockd/talentflow/pkg/chaos"
	"github.com/getmockd/talentflow/pkg/dispatch"
	"github.com/getmockd/talentflow/pkg/seed"
)

// DefaultFixtureSeed makes the seeded data identical across runs.
const DefaultFixtureSeed uint64 = 20240517

type options struct {
	seed         bool
	fixtureSeed  uint64
	counts       seed.Counts
	policy       chaos.Policy
	timelineMode string
	now          func() time.Time
}

func defaultOptions() options {
	return options{
		seed:         true,
		fixtureSeed:  DefaultFixtureSeed,
		counts:       seed.DefaultCounts(),
		policy:       chaos.None,
		timelineMode: dispatch.TimelineDemo,
	}
}

// Option configures a Server.
type Option func(*options)

// WithoutSeed starts from an empty store.
func WithoutSeed() Option {
	return func(o *options) { o.seed = false }
}

// WithFixtureSeed changes the seed of the generated data.
func WithFixtureSeed(s uint64) Option {
	return func(o *options) { o.fixtureSeed = s }
}

// WithCounts changes how much data is seeded.
func WithCounts(c seed.Counts) Option {
	return func(o *options) { o.counts = c }
}

// WithPolicy injects latency and faults. The default is chaos.None.
func WithPolicy(p chaos.Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithRecordedTimeline serves recorded stage changes instead of the demo
// timeline.
func WithRecordedTimeline() Option {
	return func(o *options) { o.timelineMode = dispatch.TimelineRecorded }
}

// WithClock fixes the clock stamped on notes and recorded stage changes.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}
