package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/getmockd/talentflow/pkg/entity"
)

func TestKeyOf(t *testing.T) {
	tests := []struct {
		name    string
		doc     entity.Document
		want    string
		wantErr error
	}{
		{"string id", entity.Document{"id": "j1"}, "j1", nil},
		{"numeric id", entity.Document{"id": float64(42)}, "42", nil},
		{"missing", entity.Document{"title": "x"}, "", ErrMissingKey},
		{"empty", entity.Document{"id": ""}, "", ErrMissingKey},
		{"object", entity.Document{"id": map[string]any{}}, "", ErrMissingKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KeyOf(tt.doc, "id")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultDataDir_XDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "talentflow"), DefaultDataDir())
	assert.Equal(t, filepath.Join("/tmp/xdg", "talentflow", "talentflow.db"), DefaultPath())
}
