package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/talentflow/pkg/chaos"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, 25, cfg.Seed.Jobs)
	assert.Equal(t, 1000, cfg.Seed.Candidates)
	assert.Equal(t, "demo", cfg.Timeline.Mode)
	assert.Equal(t, SourceDefault, cfg.Source("storage.path"))
}

func TestLoadFile_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "talentflow.yaml",
			content: `
storage:
  path: /tmp/tf.db
chaos:
  enabled: false
seed:
  candidates: 50
timeline:
  mode: recorded
`,
		},
		{
			name: "toml",
			file: "talentflow.toml",
			content: `
[storage]
path = "/tmp/tf.db"

[chaos]
enabled = false

[seed]
candidates = 50

[timeline]
mode = "recorded"
`,
		},
		{
			name:    "json",
			file:    "talentflow.json",
			content: `{"storage":{"path":"/tmp/tf.db"},"chaos":{"enabled":false},"seed":{"candidates":50},"timeline":{"mode":"recorded"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			require.NoError(t, LoadFile(writeFile(t, tt.file, tt.content), cfg))

			assert.Equal(t, "/tmp/tf.db", cfg.Storage.Path)
			assert.False(t, cfg.Chaos.Enabled)
			assert.Equal(t, 50, cfg.Seed.Candidates)
			assert.Equal(t, 25, cfg.Seed.Jobs, "keys absent from the file keep defaults")
			assert.Equal(t, "recorded", cfg.Timeline.Mode)
			assert.Equal(t, "5s", cfg.Storage.BusyTimeout)

			assert.Equal(t, SourceFile, cfg.Source("storage.path"))
			assert.Equal(t, SourceFile, cfg.Source("seed.candidates"))
			assert.Equal(t, SourceDefault, cfg.Source("seed.jobs"))
			require.NoError(t, cfg.Validate())
		})
	}
}

func TestLoadFile_Errors(t *testing.T) {
	cfg := Default()

	err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), cfg)
	assert.ErrorIs(t, err, ErrFileNotFound)

	err = LoadFile(writeFile(t, "empty.json", "  \n"), cfg)
	assert.ErrorIs(t, err, ErrEmptyFile)

	err = LoadFile(writeFile(t, "cfg.ini", "a=b"), cfg)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	err = LoadFile(writeFile(t, "bad.json", "{\n  \"server\": {,}\n}"), cfg)
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 2, cerr.Line)

	err = LoadFile(writeFile(t, "bad.toml", "[storage\npath = 1"), cfg)
	require.ErrorAs(t, err, &cerr)
	assert.Positive(t, cerr.Line)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := ApplyEnv(cfg, envMap(map[string]string{
		EnvDB:           "/data/tf.db",
		EnvChaosProfile: "flaky",
		EnvSeed:         "false",
		EnvFixtureSeed:  "42",
		EnvLogLevel:     "DEBUG",
		EnvAddr:         "",
	}))
	require.NoError(t, err)

	assert.Equal(t, "/data/tf.db", cfg.Storage.Path)
	assert.Equal(t, "flaky", cfg.Chaos.Profile)
	assert.False(t, cfg.Seed.Enabled)
	assert.Equal(t, uint64(42), cfg.Seed.FixtureSeed)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr, "empty variables are ignored")
	assert.Equal(t, SourceEnv, cfg.Source("storage.path"))

	err = ApplyEnv(Default(), envMap(map[string]string{EnvSeed: "maybe"}))
	assert.ErrorContains(t, err, EnvSeed)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeFile(t, "talentflow.yaml", "storage:\n  path: /from/file.db\nlog:\n  level: warn\n")

	cfg, err := Load(Options{
		Path:      path,
		LookupEnv: envMap(map[string]string{EnvDB: "/from/env.db"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "/from/env.db", cfg.Storage.Path)
	assert.Equal(t, SourceEnv, cfg.Source("storage.path"))
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, SourceFile, cfg.Source("log.level"))
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	path := writeFile(t, "talentflow.json", `{"timeline":{"mode":"recorded"}}`)
	cfg, err := Load(Options{LookupEnv: envMap(map[string]string{EnvConfig: path})})
	require.NoError(t, err)
	assert.Equal(t, "recorded", cfg.Timeline.Mode)
}

func TestLoadDotEnv(t *testing.T) {
	const key = "TALENTFLOW_TEST_DOTENV_ONLY"
	path := writeFile(t, ".env", key+"=from-dotenv\n")
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env"), path))
	assert.Equal(t, "from-dotenv", os.Getenv(key))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad timeline mode", func(c *Config) { c.Timeline.Mode = "live" }, "timeline.mode must be one of"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad busy timeout", func(c *Config) { c.Storage.BusyTimeout = "soon" }, "storage.busyTimeout"},
		{"empty storage path", func(c *Config) { c.Storage.Path = "" }, "storage.path is required"},
		{"bad addr", func(c *Config) { c.Server.Addr = "localhost" }, "server.addr"},
		{"unknown profile", func(c *Config) { c.Chaos.Profile = "chaotic" }, "unknown profile"},
		{"zero page size", func(c *Config) { c.Query.JobsPageSize = 0 }, "query.jobsPageSize"},
		{"bad chaos probability", func(c *Config) { c.Chaos.ErrorRate.Probability = 2 }, "chaos"},
		{"negative seed", func(c *Config) { c.Seed.Jobs = -1 }, "seed counts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestChaosPolicy(t *testing.T) {
	cfg := Default()
	got, err := cfg.ChaosPolicy()
	require.NoError(t, err)
	assert.Equal(t, chaos.DefaultConfig(), got)

	cfg.Chaos.Profile = "off"
	got, err = cfg.ChaosPolicy()
	require.NoError(t, err)
	assert.False(t, got.Enabled)
}

func TestResponseLogPath(t *testing.T) {
	cfg := Default()
	cfg.Storage.Path = filepath.Join("data", "talentflow.db")
	assert.Equal(t, filepath.Join("data", "responses.db"), cfg.ResponseLogPath())

	cfg.ResponseLog.Path = "/elsewhere.db"
	assert.Equal(t, "/elsewhere.db", cfg.ResponseLogPath())
}

func TestMarshal_RoundTrip(t *testing.T) {
	for _, format := range []string{"yaml", "toml", "json"} {
		t.Run(format, func(t *testing.T) {
			cfg := Default()
			cfg.Timeline.Mode = "recorded"
			data, err := Marshal(cfg, format)
			require.NoError(t, err)

			back := Default()
			require.NoError(t, LoadFile(writeFile(t, "cfg."+format, string(data)), back))
			assert.Equal(t, "recorded", back.Timeline.Mode)
			assert.Equal(t, cfg.Chaos.Config, back.Chaos.Config)
		})
	}

	_, err := Marshal(Default(), "xml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
