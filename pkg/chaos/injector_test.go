package chaos

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func TestNewInjector(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "default", config: DefaultConfig()},
		{name: "disabled zero config", config: Config{}},
		{
			name:    "bad duration",
			config:  Config{Enabled: true, Latency: &LatencyFault{Min: "fast", Max: "1s"}},
			wantErr: true,
		},
		{
			name:    "negative duration",
			config:  Config{Enabled: true, Latency: &LatencyFault{Min: "-1s", Max: "1s"}},
			wantErr: true,
		},
		{
			name:    "bad status",
			config:  Config{Enabled: true, ErrorRate: &ErrorRateFault{Probability: 0.5, StatusCode: 200}},
			wantErr: true,
		},
		{
			name:    "bad glob",
			config:  Config{Enabled: true, ExemptPaths: []string{"/jobs/["}},
			wantErr: true,
		},
		{
			name:   "probability clamped",
			config: Config{Enabled: true, ErrorRate: &ErrorRateFault{Probability: 7}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInjector(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequest_IsWrite(t *testing.T) {
	for method, want := range map[string]bool{
		http.MethodGet:     false,
		http.MethodHead:    false,
		http.MethodOptions: false,
		http.MethodPost:    true,
		http.MethodPut:     true,
		http.MethodPatch:   true,
		http.MethodDelete:  true,
	} {
		assert.Equal(t, want, Request{Method: method}.IsWrite(), method)
	}
}

func TestInjector_DelayWithinBounds(t *testing.T) {
	inj, err := NewInjector(DefaultConfig(), WithSeed(1))
	require.NoError(t, err)

	var delays []time.Duration
	inj.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	for range 500 {
		require.NoError(t, inj.Delay(context.Background(), Request{Method: http.MethodGet, Path: "/jobs"}))
	}
	require.Len(t, delays, 500)
	for _, d := range delays {
		assert.GreaterOrEqual(t, d, 200*time.Millisecond)
		assert.LessOrEqual(t, d, 1200*time.Millisecond)
	}

	stats := inj.Stats()
	assert.Equal(t, int64(500), stats.TotalRequests)
	assert.Equal(t, int64(500), stats.LatencyInjected)
	assert.Positive(t, stats.TotalDelay)
}

func TestInjector_DelayFixedWindow(t *testing.T) {
	cfg := Config{Enabled: true, Latency: &LatencyFault{Min: "5ms", Max: "5ms"}}
	inj, err := NewInjector(cfg)
	require.NoError(t, err)

	var got time.Duration
	inj.sleep = func(_ context.Context, d time.Duration) error {
		got = d
		return nil
	}
	require.NoError(t, inj.Delay(context.Background(), Request{Method: http.MethodGet}))
	assert.Equal(t, 5*time.Millisecond, got)
}

func TestInjector_DelayHonoursCancellation(t *testing.T) {
	cfg := Config{Enabled: true, Latency: &LatencyFault{Min: "10s", Max: "10s"}}
	inj, err := NewInjector(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err = inj.Delay(ctx, Request{Method: http.MethodGet, Path: "/jobs"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestInjector_FaultRateWithinBand(t *testing.T) {
	inj, err := NewInjector(DefaultConfig(), WithSeed(42))
	require.NoError(t, err)

	const n = 10000
	failures := 0
	for range n {
		if f := inj.Fault(Request{Method: http.MethodPost, Path: "/jobs"}); f != nil {
			failures++
			assert.Equal(t, http.StatusInternalServerError, f.StatusCode())
			assert.Equal(t, "Simulated server error", f.Error())
		}
	}
	// 10% with a generous band: mean 1000, sd 30.
	assert.InDelta(t, 1000, failures, 150)
	assert.Equal(t, int64(failures), inj.Stats().ErrorsInjected)
}

func TestInjector_ReadsNeverFail(t *testing.T) {
	cfg := Config{Enabled: true, ErrorRate: &ErrorRateFault{Probability: 1}}
	inj, err := NewInjector(cfg)
	require.NoError(t, err)

	for range 100 {
		assert.Nil(t, inj.Fault(Request{Method: http.MethodGet, Path: "/jobs"}))
	}
	assert.NotNil(t, inj.Fault(Request{Method: http.MethodPatch, Path: "/jobs/1"}))
}

func TestInjector_ExemptPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ErrorRate.Probability = 1
	cfg.ExemptPaths = []string{"/assessments/**"}
	inj, err := NewInjector(cfg)
	require.NoError(t, err)
	inj.sleep = func(context.Context, time.Duration) error {
		t.Fatal("exempt request was delayed")
		return nil
	}

	req := Request{Method: http.MethodPost, Path: "/assessments/j1/submit"}
	require.NoError(t, inj.Delay(context.Background(), req))
	assert.Nil(t, inj.Fault(req))
	assert.NotNil(t, inj.Fault(Request{Method: http.MethodPost, Path: "/jobs"}))
}

func TestInjector_Disabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	cfg.ErrorRate.Probability = 1
	inj, err := NewInjector(cfg)
	require.NoError(t, err)
	inj.sleep = noSleep

	assert.False(t, inj.IsEnabled())
	assert.NoError(t, inj.Delay(context.Background(), Request{Method: http.MethodPost}))
	assert.Nil(t, inj.Fault(Request{Method: http.MethodPost}))
	assert.Zero(t, inj.Stats().LatencyInjected)
}

func TestInjector_CustomFault(t *testing.T) {
	cfg := Config{Enabled: true, ErrorRate: &ErrorRateFault{Probability: 1, StatusCode: 503, Message: "down"}}
	inj, err := NewInjector(cfg)
	require.NoError(t, err)

	f := inj.Fault(Request{Method: http.MethodPut, Path: "/assessments/1"})
	require.NotNil(t, f)
	assert.Equal(t, 503, f.StatusCode())
	assert.Equal(t, "down", f.Error())
	assert.NotEmpty(t, f.Hint())
}

func TestFixed(t *testing.T) {
	fail := Fixed{Fail: true}
	assert.NotNil(t, fail.Fault(Request{Method: http.MethodPost}))
	assert.Nil(t, fail.Fault(Request{Method: http.MethodGet}))
	assert.NoError(t, fail.Delay(context.Background(), Request{}))

	assert.Nil(t, None.Fault(Request{Method: http.MethodPost}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Fixed{Latency: time.Hour}.Delay(ctx, Request{}), context.Canceled)
}

func TestProfiles(t *testing.T) {
	assert.Equal(t, []string{"demo", "flaky", "off", "offline", "slow"}, ProfileNames())

	profiles := ListProfiles()
	require.Len(t, profiles, 5)
	for _, p := range profiles {
		assert.NotEmpty(t, p.Description, p.Name)
		cfg, ok := ApplyProfile(p.Name)
		require.True(t, ok)
		_, err := NewInjector(cfg)
		assert.NoError(t, err, p.Name)
	}

	cfg, ok := ApplyProfile("demo")
	require.True(t, ok)
	cfg.ErrorRate.Probability = 1
	again, _ := ApplyProfile("demo")
	assert.Equal(t, DefaultErrorRate, again.ErrorRate.Probability)

	_, ok = ApplyProfile("nope")
	assert.False(t, ok)
}
