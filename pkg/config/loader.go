package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound      = errors.New("configuration file not found")
	ErrEmptyFile         = errors.New("configuration file is empty")
	ErrUnsupportedFormat = errors.New("unsupported configuration format")
)

// ConfigError is a configuration file error with location info.
type ConfigError struct {
	Path    string
	Line    int
	Column  int
	Message string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d, column %d): %s", e.Path, e.Line, e.Column, e.Message)
	}
	return e.Path + ": " + e.Message
}

// Options controls Load.
type Options struct {
	// Path is the config file. Empty skips the file layer.
	Path string
	// DotEnv lists .env files to load. Missing files are ignored.
	DotEnv []string
	// LookupEnv reads the environment. Nil uses os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load builds a Config from defaults, the config file and the environment,
// then validates it. Flags are applied by the caller, which should call
// Validate again afterwards.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	if err := LoadDotEnv(opts.DotEnv...); err != nil {
		return nil, err
	}
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	path := opts.Path
	if path == "" {
		path, _ = lookup(EnvConfig)
	}
	if path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := ApplyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile decodes the file at path over cfg. Keys absent from the file keep
// their current value. The format is chosen by extension; unknown
// extensions are read as JSON.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	var keys map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return &ConfigError{Path: path, Message: err.Error()}
		}
		_ = yaml.Unmarshal(data, &keys)
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			var perr toml.ParseError
			if errors.As(err, &perr) {
				return &ConfigError{Path: path, Line: perr.Position.Line, Column: perr.Position.Col, Message: perr.Message}
			}
			return &ConfigError{Path: path, Message: err.Error()}
		}
		_, _ = toml.Decode(string(data), &keys)
	case ".json", "":
		if err := json.Unmarshal(data, cfg); err != nil {
			var serr *json.SyntaxError
			if errors.As(err, &serr) {
				line, col := FindLineColumn(data, serr.Offset)
				return &ConfigError{Path: path, Line: line, Column: col, Message: serr.Error()}
			}
			return &ConfigError{Path: path, Message: err.Error()}
		}
		_ = json.Unmarshal(data, &keys)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	markSources(cfg, "", keys)
	return nil
}

// markSources records every leaf key of a decoded file as SourceFile.
func markSources(cfg *Config, prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			markSources(cfg, key, sub)
			continue
		}
		cfg.Set(key, SourceFile)
	}
}

// FindLineColumn finds the line and column number for a byte offset.
func FindLineColumn(data []byte, offset int64) (line, col int) {
	line = 1
	col = 1
	for i := int64(0); i < offset && int(i) < len(data); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// SourceKeys returns the keys with a recorded source, sorted.
func (c *Config) SourceKeys() []string {
	keys := make([]string, 0, len(c.Sources))
	for k := range c.Sources {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Marshal encodes cfg in the format named by ext (yaml, toml or json).
func Marshal(cfg *Config, format string) ([]byte, error) {
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "yaml", "yml":
		return yaml.Marshal(cfg)
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "json", "":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
