package chaos

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Default fault settings.
const (
	DefaultLatencyMin   = "200ms"
	DefaultLatencyMax   = "1200ms"
	DefaultErrorRate    = 0.1
	DefaultErrorStatus  = http.StatusInternalServerError
	DefaultErrorMessage = "Simulated server error"
)

// Config configures the Injector.
type Config struct {
	Enabled     bool            `json:"enabled" yaml:"enabled" toml:"enabled"`
	Latency     *LatencyFault   `json:"latency,omitempty" yaml:"latency,omitempty" toml:"latency,omitempty"`
	ErrorRate   *ErrorRateFault `json:"errorRate,omitempty" yaml:"errorRate,omitempty" toml:"errorRate,omitempty"`
	ExemptPaths []string        `json:"exemptPaths,omitempty" yaml:"exemptPaths,omitempty" toml:"exemptPaths,omitempty"`
}

// LatencyFault delays every request by a uniform duration in [Min, Max].
type LatencyFault struct {
	Min string `json:"min" yaml:"min" toml:"min"` // e.g., "200ms"
	Max string `json:"max" yaml:"max" toml:"max"` // e.g., "1200ms"
}

// ErrorRateFault fails write requests randomly.
type ErrorRateFault struct {
	Probability float64 `json:"probability" yaml:"probability" toml:"probability"` // 0.0-1.0
	StatusCode  int     `json:"statusCode,omitempty" yaml:"statusCode,omitempty" toml:"statusCode,omitempty"`
	Message     string  `json:"message,omitempty" yaml:"message,omitempty" toml:"message,omitempty"`
}

// DefaultConfig returns the stock network simulation.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Latency: &LatencyFault{Min: DefaultLatencyMin, Max: DefaultLatencyMax},
		ErrorRate: &ErrorRateFault{
			Probability: DefaultErrorRate,
			StatusCode:  DefaultErrorStatus,
			Message:     DefaultErrorMessage,
		},
	}
}

// Clamp clamps the error probability to [0.0, 1.0].
func (c *Config) Clamp() {
	if c.ErrorRate == nil {
		return
	}
	if c.ErrorRate.Probability < 0 {
		c.ErrorRate.Probability = 0
	}
	if c.ErrorRate.Probability > 1 {
		c.ErrorRate.Probability = 1
	}
}

// Validate checks if the Config is valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Latency != nil {
		if _, _, err := c.Latency.bounds(); err != nil {
			return fmt.Errorf("latency: %w", err)
		}
	}
	if c.ErrorRate != nil {
		if err := validateProbability(c.ErrorRate.Probability, "errorRate.probability"); err != nil {
			return err
		}
		if sc := c.ErrorRate.StatusCode; sc != 0 && (sc < 400 || sc > 599) {
			return fmt.Errorf("errorRate.statusCode must be a 4xx or 5xx code, got %d", sc)
		}
	}
	for i, p := range c.ExemptPaths {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("exemptPaths[%d]: invalid pattern %q", i, p)
		}
	}
	return nil
}

// bounds parses Min and Max, swapping them when reversed.
func (l *LatencyFault) bounds() (time.Duration, time.Duration, error) {
	minDur, err := time.ParseDuration(l.Min)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid min duration %q: %w", l.Min, err)
	}
	maxDur, err := time.ParseDuration(l.Max)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid max duration %q: %w", l.Max, err)
	}
	if minDur < 0 || maxDur < 0 {
		return 0, 0, fmt.Errorf("durations must not be negative")
	}
	if minDur > maxDur {
		minDur, maxDur = maxDur, minDur
	}
	return minDur, maxDur, nil
}

// validateProbability checks that a probability value is in the valid range [0.0, 1.0].
func validateProbability(value float64, fieldName string) error {
	if value < 0.0 || value > 1.0 {
		return fmt.Errorf("%s must be between 0.0 and 1.0, got %v", fieldName, value)
	}
	return nil
}

// Stats tracks injection statistics.
type Stats struct {
	TotalRequests   int64         `json:"totalRequests"`
	LatencyInjected int64         `json:"latencyInjected"`
	ErrorsInjected  int64         `json:"errorsInjected"`
	TotalDelay      time.Duration `json:"totalDelay"`
}

// Request is what a policy sees of a simulated request.
type Request struct {
	Method string
	Path   string
}

// IsWrite reports whether the request may change state.
func (r Request) IsWrite() bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

// InjectedFault is the error returned in place of a handler's result.
type InjectedFault struct {
	Status  int
	Message string
}

func (f *InjectedFault) Error() string {
	return f.Message
}

// StatusCode returns the HTTP status code for this error.
func (f *InjectedFault) StatusCode() int {
	return f.Status
}

// Hint returns a user-friendly suggestion for resolving this error.
func (f *InjectedFault) Hint() string {
	return "This failure was injected to simulate an unreliable network. Retry the request."
}

func defaultFault() *InjectedFault {
	return &InjectedFault{Status: DefaultErrorStatus, Message: DefaultErrorMessage}
}
