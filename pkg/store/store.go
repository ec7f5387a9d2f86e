// Package store defines the durable entity store behind the simulated API.
//
// The store owns every record. Each entity kind lives in its own keyed
// Collection; mutations are durable once the call returns. There are no
// transactions spanning collections.
//
// Data directory follows the XDG Base Directory Specification:
//   - Linux:   ~/.local/share/talentflow/
//   - macOS:   ~/Library/Application Support/talentflow/
//   - Windows: %LOCALAPPDATA%\talentflow\
package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/getmockd/talentflow/pkg/entity"
)

// Common errors
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrMissingKey    = errors.New("record has no usable key")
)

// Kind names an entity collection.
type Kind string

const (
	KindJobs        Kind = "jobs"
	KindCandidates  Kind = "candidates"
	KindAssessments Kind = "assessments"
	KindTimeline    Kind = "timeline_events"
	KindNotes       Kind = "notes"
)

// Collection is a durable, key-indexed set of documents of one kind.
type Collection interface {
	// Kind returns the collection's entity kind.
	Kind() Kind

	// KeyField returns the document field holding the primary key.
	KeyField() string

	// Add inserts doc. Fails with ErrAlreadyExists if the key is taken.
	Add(ctx context.Context, doc entity.Document) error

	// BulkAdd inserts all docs in one transaction; any failure inserts none.
	BulkAdd(ctx context.Context, docs []entity.Document) error

	// Put inserts doc or wholly replaces the record with the same key.
	Put(ctx context.Context, doc entity.Document) error

	// Update shallow-merges patch into the record at key. The key field is
	// never rewritten. Fails with ErrNotFound if the record is absent.
	Update(ctx context.Context, key string, patch entity.Document) error

	// Get returns the record at key, or ErrNotFound.
	Get(ctx context.Context, key string) (entity.Document, error)

	// All returns every record ordered by primary key.
	All(ctx context.Context) ([]entity.Document, error)

	// ListBy returns records whose indexed field equals value, ordered by
	// primary key. Fails if field is not indexed for this kind.
	ListBy(ctx context.Context, field, value string) ([]entity.Document, error)

	// Count returns the number of records.
	Count(ctx context.Context) (int, error)
}

// Store groups the entity collections.
type Store interface {
	Jobs() Collection
	Candidates() Collection
	Assessments() Collection
	Timeline() Collection
	Notes() Collection

	// Atomic runs fn with collections bound to one transaction. The writes
	// made through tx commit together when fn returns nil and are discarded
	// otherwise. Nested calls on tx join the outer transaction.
	Atomic(ctx context.Context, fn func(ctx context.Context, tx Store) error) error

	// Close releases the underlying database.
	Close() error
}

// KeyOf extracts the primary key from doc.
func KeyOf(doc entity.Document, keyField string) (string, error) {
	key, ok := doc.String(keyField)
	if !ok || key == "" {
		return "", ErrMissingKey
	}
	return key, nil
}

// DefaultDataDir returns the default data directory following XDG spec.
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "talentflow")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".talentflow", "data")
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "talentflow")
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			return filepath.Join(appData, "talentflow")
		}
		return filepath.Join(home, "AppData", "Local", "talentflow")
	}
	return filepath.Join(home, ".local", "share", "talentflow")
}

// DefaultPath returns the default entity database file.
func DefaultPath() string {
	return filepath.Join(DefaultDataDir(), "talentflow.db")
}
