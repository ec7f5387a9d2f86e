package responselog

import (
	"context"
	"encoding/json"
	"time"
)

// Entry is one recorded submission.
type Entry struct {
	// ID uniquely identifies the submission.
	ID string `json:"id"`

	// JobID is the job whose assessment was answered.
	JobID string `json:"jobId"`

	// Body is the submitted JSON value, unchanged.
	Body json.RawMessage `json:"body"`

	// Timestamp is when the submission was appended.
	Timestamp time.Time `json:"timestamp"`
}

// Logger is the minimal interface for recording submissions.
// The mutation router accepts this so tests can substitute a recorder.
type Logger interface {
	Append(ctx context.Context, jobID string, body []byte) (*Entry, error)
}

// Store is a queryable submission log.
type Store interface {
	Logger

	// List returns the job's submissions, oldest first.
	List(ctx context.Context, jobID string) ([]*Entry, error)

	// Count returns the number of submissions held for the job.
	Count(ctx context.Context, jobID string) (int, error)

	// Close releases the underlying database.
	Close() error
}
