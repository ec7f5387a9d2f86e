package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvConfig       = "TALENTFLOW_CONFIG"
	EnvAddr         = "TALENTFLOW_ADDR"
	EnvDB           = "TALENTFLOW_DB"
	EnvBusyTimeout  = "TALENTFLOW_BUSY_TIMEOUT"
	EnvChaosProfile = "TALENTFLOW_CHAOS_PROFILE"
	EnvChaosEnabled = "TALENTFLOW_CHAOS_ENABLED"
	EnvTimelineMode = "TALENTFLOW_TIMELINE_MODE"
	EnvSeed         = "TALENTFLOW_SEED"
	EnvFixtureSeed  = "TALENTFLOW_FIXTURE_SEED"
	EnvResponseLog  = "TALENTFLOW_RESPONSE_LOG"
	EnvMaxPageSize  = "TALENTFLOW_MAX_PAGE_SIZE"
	EnvLogLevel     = "TALENTFLOW_LOG_LEVEL"
	EnvLogFormat    = "TALENTFLOW_LOG_FORMAT"
	EnvLogFile      = "TALENTFLOW_LOG_FILE"
)

type envVar struct {
	name  string
	key   string
	apply func(cfg *Config, v string) error
}

var envVars = []envVar{
	{EnvAddr, "server.addr", func(c *Config, v string) error { c.Server.Addr = v; return nil }},
	{EnvDB, "storage.path", func(c *Config, v string) error { c.Storage.Path = v; return nil }},
	{EnvBusyTimeout, "storage.busyTimeout", func(c *Config, v string) error { c.Storage.BusyTimeout = v; return nil }},
	{EnvChaosProfile, "chaos.profile", func(c *Config, v string) error { c.Chaos.Profile = v; return nil }},
	{EnvChaosEnabled, "chaos.enabled", func(c *Config, v string) error {
		b, err := parseBool(v)
		c.Chaos.Enabled = b
		return err
	}},
	{EnvTimelineMode, "timeline.mode", func(c *Config, v string) error { c.Timeline.Mode = v; return nil }},
	{EnvSeed, "seed.enabled", func(c *Config, v string) error {
		b, err := parseBool(v)
		c.Seed.Enabled = b
		return err
	}},
	{EnvFixtureSeed, "seed.fixtureSeed", func(c *Config, v string) error {
		n, err := strconv.ParseUint(v, 10, 64)
		c.Seed.FixtureSeed = n
		return err
	}},
	{EnvResponseLog, "responseLog.path", func(c *Config, v string) error { c.ResponseLog.Path = v; return nil }},
	{EnvMaxPageSize, "query.maxPageSize", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		c.Query.MaxPageSize = n
		return err
	}},
	{EnvLogLevel, "log.level", func(c *Config, v string) error { c.Log.Level = strings.ToLower(v); return nil }},
	{EnvLogFormat, "log.format", func(c *Config, v string) error { c.Log.Format = strings.ToLower(v); return nil }},
	{EnvLogFile, "log.file", func(c *Config, v string) error { c.Log.File = v; return nil }},
}

// ApplyEnv overrides cfg with every TALENTFLOW_* variable that is set and
// non-empty.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	for _, ev := range envVars {
		v, ok := lookup(ev.name)
		if !ok || v == "" {
			continue
		}
		if err := ev.apply(cfg, v); err != nil {
			return fmt.Errorf("%s=%q: %w", ev.name, v, err)
		}
		cfg.Set(ev.key, SourceEnv)
	}
	return nil
}

// LoadDotEnv loads .env files into the process environment. Variables
// already set are kept and missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean")
}
