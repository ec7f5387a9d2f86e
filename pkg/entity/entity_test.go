package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
	}{
		{"object", `{"title":"Engineer"}`, true},
		{"empty object", `{}`, true},
		{"array", `[1,2]`, false},
		{"string", `"job"`, false},
		{"null", `null`, false},
		{"invalid", `{title`, false},
		{"empty", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseDocument([]byte(tt.input))
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestDocument_String(t *testing.T) {
	doc := Document{"id": "abc", "n": float64(7), "f": 1.5, "nil": nil, "obj": map[string]any{}}

	s, ok := doc.String("id")
	assert.True(t, ok)
	assert.Equal(t, "abc", s)

	s, ok = doc.String("n")
	assert.True(t, ok)
	assert.Equal(t, "7", s)

	s, ok = doc.String("f")
	assert.True(t, ok)
	assert.Equal(t, "1.5", s)

	_, ok = doc.String("nil")
	assert.False(t, ok)
	_, ok = doc.String("obj")
	assert.False(t, ok)
	_, ok = doc.String("missing")
	assert.False(t, ok)
}

func TestDocument_Int(t *testing.T) {
	doc := Document{"order": float64(3), "frac": 2.5, "str": "3"}

	n, ok := doc.Int("order")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = doc.Int("frac")
	assert.False(t, ok)
	_, ok = doc.Int("str")
	assert.False(t, ok)
}

func TestDocument_MergeIsShallowAndPure(t *testing.T) {
	orig := Document{"id": "j1", "title": "Engineer", "status": "active", "tags": []any{"backend"}}
	merged := orig.Merge(Document{"status": "archived", "extra": true})

	assert.Equal(t, "archived", merged["status"])
	assert.Equal(t, "Engineer", merged["title"])
	assert.Equal(t, []any{"backend"}, merged["tags"])
	assert.Equal(t, true, merged["extra"])
	assert.Equal(t, "active", orig["status"], "original must not change")
}

func TestToDocumentAndDecode(t *testing.T) {
	job := Job{ID: "j1", Title: "Engineer", Slug: "engineer", Status: JobActive, Tags: []string{"backend"}, Order: 4}
	doc, err := ToDocument(job)
	require.NoError(t, err)
	assert.Equal(t, float64(4), doc["order"])

	var back Job
	require.NoError(t, doc.Decode(&back))
	assert.Equal(t, job, back)
}

func TestMentions(t *testing.T) {
	tests := []struct {
		content string
		want    []string
	}{
		{"ping @ana and @bo.li", []string{"ana", "bo.li"}},
		{"@ana twice @ana", []string{"ana"}},
		{"mail ana@example.com", []string{}},
		{"thanks @sam.", []string{"sam"}},
		{"no mentions here", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			assert.Equal(t, tt.want, Mentions(tt.content))
		})
	}
}
