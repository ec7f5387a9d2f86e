package chaos

import (
	"net/http"
	"slices"
	"sort"
)

// Profile is a pre-built configuration that users can apply by name
// instead of setting individual fault parameters.
type Profile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Config      Config `json:"config"`
}

var builtinProfiles = map[string]Profile{
	"demo": {
		Name:        "demo",
		Description: "Stock simulation: 200-1200ms latency, 10% write failures",
		Config:      DefaultConfig(),
	},
	"off": {
		Name:        "off",
		Description: "No latency, no failures",
		Config:      Config{Enabled: false},
	},
	"slow": {
		Name:        "slow",
		Description: "Slow backend without failures",
		Config: Config{
			Enabled: true,
			Latency: &LatencyFault{Min: "1s", Max: "3s"},
		},
	},
	"flaky": {
		Name:        "flaky",
		Description: "Fast but unreliable writes",
		Config: Config{
			Enabled: true,
			Latency: &LatencyFault{Min: "0ms", Max: "100ms"},
			ErrorRate: &ErrorRateFault{
				Probability: 0.3,
				StatusCode:  http.StatusInternalServerError,
				Message:     DefaultErrorMessage,
			},
		},
	},
	"offline": {
		Name:        "offline",
		Description: "Every write fails",
		Config: Config{
			Enabled: true,
			ErrorRate: &ErrorRateFault{
				Probability: 1.0,
				StatusCode:  http.StatusServiceUnavailable,
				Message:     "Service unavailable",
			},
		},
	},
}

// ListProfiles returns all built-in profiles sorted by name.
func ListProfiles() []Profile {
	profiles := make([]Profile, 0, len(builtinProfiles))
	for _, p := range builtinProfiles {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})
	return profiles
}

// ApplyProfile returns a copy of the named profile's configuration.
func ApplyProfile(name string) (Config, bool) {
	p, ok := builtinProfiles[name]
	if !ok {
		return Config{}, false
	}
	return deepCopyConfig(p.Config), true
}

// ProfileNames returns the names of all built-in profiles sorted alphabetically.
func ProfileNames() []string {
	names := make([]string, 0, len(builtinProfiles))
	for name := range builtinProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func deepCopyConfig(src Config) Config {
	dst := Config{Enabled: src.Enabled, ExemptPaths: slices.Clone(src.ExemptPaths)}
	if src.Latency != nil {
		l := *src.Latency
		dst.Latency = &l
	}
	if src.ErrorRate != nil {
		e := *src.ErrorRate
		dst.ErrorRate = &e
	}
	return dst
}
