package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/getmockd/talentflow/pkg/chaos"
	"github.com/getmockd/talentflow/pkg/dispatch"
	"github.com/getmockd/talentflow/pkg/query"
	"github.com/getmockd/talentflow/pkg/responselog"
	"github.com/getmockd/talentflow/pkg/seed"
	"github.com/getmockd/talentflow/pkg/store"
)

// Config sources, from lowest to highest precedence.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// DefaultAddr is the listen address of `talentflow serve`.
const DefaultAddr = "127.0.0.1:4280"

// Config is the complete runtime configuration.
type Config struct {
	Server      ServerConfig      `json:"server" yaml:"server" toml:"server"`
	Storage     StorageConfig     `json:"storage" yaml:"storage" toml:"storage"`
	Chaos       ChaosConfig       `json:"chaos" yaml:"chaos" toml:"chaos"`
	Query       QueryConfig       `json:"query" yaml:"query" toml:"query"`
	Seed        SeedConfig        `json:"seed" yaml:"seed" toml:"seed"`
	Timeline    TimelineConfig    `json:"timeline" yaml:"timeline" toml:"timeline"`
	ResponseLog ResponseLogConfig `json:"responseLog" yaml:"responseLog" toml:"responseLog"`
	Log         LogConfig         `json:"log" yaml:"log" toml:"log"`

	// Sources maps dotted keys (e.g. "storage.path") to the layer that last
	// set them. Keys never set keep SourceDefault.
	Sources map[string]string `json:"-" yaml:"-" toml:"-"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr         string `json:"addr" yaml:"addr" toml:"addr" validate:"required,hostname_port"`
	MaxBodyBytes int64  `json:"maxBodyBytes" yaml:"maxBodyBytes" toml:"maxBodyBytes" validate:"gt=0"`
}

// StorageConfig locates the entity store.
type StorageConfig struct {
	Path        string `json:"path" yaml:"path" toml:"path" validate:"required"`
	BusyTimeout string `json:"busyTimeout" yaml:"busyTimeout" toml:"busyTimeout" validate:"duration"`
}

// ChaosConfig selects latency and fault injection. A non-empty Profile
// replaces the inline settings.
type ChaosConfig struct {
	Profile      string `json:"profile,omitempty" yaml:"profile,omitempty" toml:"profile,omitempty" validate:"omitempty,chaosprofile"`
	chaos.Config `yaml:",inline"`
}

// QueryConfig sets list endpoint paging.
type QueryConfig struct {
	JobsPageSize       int `json:"jobsPageSize" yaml:"jobsPageSize" toml:"jobsPageSize" validate:"gt=0"`
	CandidatesPageSize int `json:"candidatesPageSize" yaml:"candidatesPageSize" toml:"candidatesPageSize" validate:"gt=0"`
	MaxPageSize        int `json:"maxPageSize" yaml:"maxPageSize" toml:"maxPageSize" validate:"gt=0"`
}

// SeedConfig controls first-run data generation.
type SeedConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled" toml:"enabled"`
	// FixtureSeed makes generated data reproducible. Zero picks a random seed.
	FixtureSeed uint64 `json:"fixtureSeed,omitempty" yaml:"fixtureSeed,omitempty" toml:"fixtureSeed,omitempty"`
	seed.Counts `yaml:",inline"`
}

// TimelineConfig selects what GET /candidates/:id/timeline serves.
type TimelineConfig struct {
	Mode string `json:"mode" yaml:"mode" toml:"mode" validate:"oneof=demo recorded"`
}

// ResponseLogConfig locates the assessment submission log.
type ResponseLogConfig struct {
	// Path defaults to responses.db next to the entity store.
	Path      string `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
	MaxPerJob int    `json:"maxPerJob" yaml:"maxPerJob" toml:"maxPerJob" validate:"gt=0"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" toml:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" toml:"format" validate:"oneof=text json"`
	// File writes logs to a file instead of stderr.
	File string `json:"file,omitempty" yaml:"file,omitempty" toml:"file,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         DefaultAddr,
			MaxBodyBytes: dispatch.DefaultMaxBodyBytes,
		},
		Storage: StorageConfig{
			Path:        store.DefaultPath(),
			BusyTimeout: "5s",
		},
		Chaos: ChaosConfig{Config: chaos.DefaultConfig()},
		Query: QueryConfig{
			JobsPageSize:       10,
			CandidatesPageSize: 20,
			MaxPageSize:        query.DefaultMaxPageSize,
		},
		Seed: SeedConfig{
			Enabled: true,
			Counts:  seed.DefaultCounts(),
		},
		Timeline:    TimelineConfig{Mode: dispatch.TimelineDemo},
		ResponseLog: ResponseLogConfig{MaxPerJob: responselog.DefaultMaxPerJob},
		Log:         LogConfig{Level: "info", Format: "text"},
		Sources:     map[string]string{},
	}
}

// Source returns the layer that set key.
func (c *Config) Source(key string) string {
	if s, ok := c.Sources[key]; ok {
		return s
	}
	return SourceDefault
}

// Set records that key was set by source.
func (c *Config) Set(key, source string) {
	if c.Sources == nil {
		c.Sources = make(map[string]string)
	}
	c.Sources[key] = source
}

// BusyTimeout returns the parsed storage busy timeout.
func (c *Config) BusyTimeout() time.Duration {
	d, err := time.ParseDuration(c.Storage.BusyTimeout)
	if err != nil {
		return 0
	}
	return d
}

// ResponseLogPath returns the response log file, defaulting to
// responses.db beside the entity store.
func (c *Config) ResponseLogPath() string {
	if c.ResponseLog.Path != "" {
		return c.ResponseLog.Path
	}
	if c.Storage.Path == ":memory:" {
		return ":memory:"
	}
	return filepath.Join(filepath.Dir(c.Storage.Path), "responses.db")
}

// ChaosPolicy resolves the profile (if any) and returns the injector
// configuration.
func (c *Config) ChaosPolicy() (chaos.Config, error) {
	if c.Chaos.Profile == "" {
		return c.Chaos.Config, nil
	}
	cfg, ok := chaos.ApplyProfile(c.Chaos.Profile)
	if !ok {
		return chaos.Config{}, fmt.Errorf("unknown chaos profile %q", c.Chaos.Profile)
	}
	return cfg, nil
}

// DispatchQuery converts the paging settings for the dispatcher.
func (c *Config) DispatchQuery() dispatch.QueryConfig {
	return dispatch.QueryConfig{
		JobsPageSize:       c.Query.JobsPageSize,
		CandidatesPageSize: c.Query.CandidatesPageSize,
		MaxPageSize:        c.Query.MaxPageSize,
	}
}
