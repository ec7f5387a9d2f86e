// Package parse provides string parsing utilities for CLI commands.
package parse

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// KeyValue parses a "key:value" or "key=value" string.
// If delimiters are provided, uses the first one found; otherwise defaults to '='.
// Returns the key, value, and a boolean indicating success.
func KeyValue(s string, delimiters ...rune) (key, value string, ok bool) {
	if len(delimiters) == 0 {
		delimiters = []rune{'='}
	}

	for i, c := range s {
		for _, d := range delimiters {
			if c == d {
				return s[:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}

// Query builds url.Values from "key=value" pairs. Repeated keys accumulate.
func Query(pairs []string) (url.Values, error) {
	q := url.Values{}
	for _, p := range pairs {
		key, value, ok := KeyValue(p, '=')
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid query parameter %q: want key=value", p)
		}
		q.Add(strings.TrimSpace(key), value)
	}
	return q, nil
}

// Body returns request body bytes. A value starting with '@' names a file
// to read; "@-" is not supported.
func Body(data string) ([]byte, error) {
	if path, ok := strings.CutPrefix(data, "@"); ok {
		if path == "" || path == "-" {
			return nil, fmt.Errorf("invalid body file %q", data)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read body file: %w", err)
		}
		return b, nil
	}
	return []byte(data), nil
}

// SplitPathQuery splits "/jobs?status=active" into its path and query.
func SplitPathQuery(raw string) (string, url.Values, error) {
	path, rawQuery, _ := strings.Cut(raw, "?")
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", nil, fmt.Errorf("invalid query string %q: %w", rawQuery, err)
	}
	return path, q, nil
}
