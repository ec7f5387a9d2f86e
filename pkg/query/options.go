package query

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultMaxPageSize caps pageSize when a Spec sets no limit.
	DefaultMaxPageSize = 1000

	paramSearch   = "search"
	paramPage     = "page"
	paramPageSize = "pageSize"
)

// Spec describes how a list endpoint reads its query string.
type Spec struct {
	// EnumParams are the query parameters matched exactly against the
	// document field of the same name (status for jobs, stage for candidates).
	EnumParams []string
	// DefaultPageSize applies when pageSize is missing or unusable.
	DefaultPageSize int
	// MaxPageSize caps pageSize. Zero means DefaultMaxPageSize.
	MaxPageSize int
}

// Options is a parsed list request.
type Options struct {
	Search   string
	Filter   map[string]string
	Page     int
	PageSize int
}

// ParseOptions reads search, enum filters and paging from values.
// A missing, non-numeric or non-positive page becomes 1; pageSize falls
// back to Spec.DefaultPageSize the same way and is capped at MaxPageSize.
// Empty parameters are treated as absent.
func ParseOptions(values url.Values, spec Spec) Options {
	opts := Options{
		Search:   values.Get(paramSearch),
		Filter:   make(map[string]string),
		Page:     positiveInt(values.Get(paramPage), 1),
		PageSize: positiveInt(values.Get(paramPageSize), spec.DefaultPageSize),
	}
	for _, param := range spec.EnumParams {
		if v := values.Get(param); v != "" {
			opts.Filter[param] = v
		}
	}

	maxSize := spec.MaxPageSize
	if maxSize <= 0 {
		maxSize = DefaultMaxPageSize
	}
	if opts.PageSize > maxSize {
		opts.PageSize = maxSize
	}
	if opts.PageSize < 1 {
		opts.PageSize = 1
	}
	return opts
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
