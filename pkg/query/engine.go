package query

import (
	"fmt"
	"strings"

	"github.com/ohler55/ojg/jp"
	"golang.org/x/text/cases"

	"github.com/getmockd/talentflow/pkg/entity"
)

// Page is one slice of a filtered collection.
type Page struct {
	// Data is never nil so it encodes as [] when the page is empty.
	Data []entity.Document `json:"data"`
	// Total counts every match before pagination.
	Total int `json:"total"`
}

// Engine runs list queries for one collection.
type Engine struct {
	searchFields []string
	paths        []jp.Expr
}

// NewEngine builds an engine whose free-text search looks at the given
// JSONPath expressions, e.g. "$.title" or "$.name".
func NewEngine(searchFields ...string) (*Engine, error) {
	e := &Engine{searchFields: searchFields}
	for _, field := range searchFields {
		expr, err := jp.ParseString(field)
		if err != nil {
			return nil, fmt.Errorf("invalid search field %q: %w", field, err)
		}
		e.paths = append(e.paths, expr)
	}
	return e, nil
}

// MustEngine is NewEngine for static field lists; it panics on a bad path.
func MustEngine(searchFields ...string) *Engine {
	e, err := NewEngine(searchFields...)
	if err != nil {
		panic(err)
	}
	return e
}

// SearchFields returns the configured search expressions.
func (e *Engine) SearchFields() []string { return e.searchFields }

// Run filters docs by opts and returns the requested page.
func (e *Engine) Run(docs []entity.Document, opts Options) Page {
	matched := e.Filter(docs, opts)
	data, total := Paginate(matched, opts.Page, opts.PageSize)
	return Page{Data: data, Total: total}
}

// Filter keeps documents matching the search term (case-insensitive
// substring over any search field) and every exact enum filter.
func (e *Engine) Filter(docs []entity.Document, opts Options) []entity.Document {
	// A Caser is stateful, so each call gets its own.
	fold := cases.Fold()
	needle := fold.String(opts.Search)

	result := make([]entity.Document, 0, len(docs))
	for _, doc := range docs {
		if !matchesFilter(doc, opts.Filter) {
			continue
		}
		if needle != "" && !e.matchesSearch(doc, needle, fold) {
			continue
		}
		result = append(result, doc)
	}
	return result
}

func (e *Engine) matchesSearch(doc entity.Document, needle string, fold cases.Caser) bool {
	data := map[string]any(doc)
	for _, path := range e.paths {
		for _, v := range path.Get(data) {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if strings.Contains(fold.String(s), needle) {
				return true
			}
		}
	}
	return false
}

func matchesFilter(doc entity.Document, filter map[string]string) bool {
	for field, want := range filter {
		got, ok := doc.String(field)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// Paginate returns the 1-based page of items and the item count.
// Pages past the end are empty, never nil.
func Paginate(items []entity.Document, page, pageSize int) ([]entity.Document, int) {
	total := len(items)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	start := (page - 1) * pageSize
	if start > total || start < 0 {
		start = total
	}
	end := start + pageSize
	if end > total || end < start {
		end = total
	}

	out := make([]entity.Document, end-start)
	copy(out, items[start:end])
	return out, total
}
