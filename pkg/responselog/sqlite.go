package responselog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/getmockd/talentflow/internal/id"
	"github.com/getmockd/talentflow/internal/sqlitex"
	"github.com/getmockd/talentflow/pkg/logging"
	"github.com/getmockd/talentflow/pkg/responselog/migrations"
)

// DefaultMaxPerJob is the number of submissions kept per job.
const DefaultMaxPerJob = 500

// Config configures the SQLite submission log.
type Config struct {
	// Path is the database file, or ":memory:".
	Path string
	// BusyTimeout bounds how long a statement waits on a locked database.
	BusyTimeout time.Duration
	// MaxPerJob bounds the entries kept for one job. Zero means DefaultMaxPerJob.
	MaxPerJob int
	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger
	// Now overrides the clock; used by tests.
	Now func() time.Time
}

// SQLiteStore is a Store backed by its own SQLite file.
type SQLiteStore struct {
	db        *sql.DB
	log       *slog.Logger
	maxPerJob int
	now       func() time.Time
}

// Open opens the submission log at cfg.Path, creating and migrating it.
func Open(ctx context.Context, cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("response log path is required")
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if cfg.MaxPerJob <= 0 {
		cfg.MaxPerJob = DefaultMaxPerJob
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	db, err := sqlitex.Open(ctx, cfg.Path, cfg.BusyTimeout, migrations.FS)
	if err != nil {
		return nil, fmt.Errorf("response log: %w", err)
	}
	return &SQLiteStore{
		db:        db,
		log:       logging.Component(cfg.Logger, "responselog"),
		maxPerJob: cfg.MaxPerJob,
		now:       cfg.Now,
	}, nil
}

// Append records body for jobID. body must be valid JSON; it is stored
// verbatim. When the job exceeds the bound, its oldest entries are trimmed
// in the same transaction.
func (s *SQLiteStore) Append(ctx context.Context, jobID string, body []byte) (*Entry, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("append response for job %q: body is not valid JSON", jobID)
	}
	entry := &Entry{
		ID:        id.New(),
		JobID:     jobID,
		Body:      json.RawMessage(append([]byte(nil), body...)),
		Timestamp: s.now().UTC(),
	}

	var trimmed int64
	err := sqlitex.WithTx(ctx, s.db, func(ctx context.Context, tx sqlitex.DBTX) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO responses (id, job_id, body, created_at) VALUES (?, ?, ?, ?)`,
			entry.ID, jobID, string(entry.Body), entry.Timestamp.Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("insert response: %w", err)
		}
		res, err := tx.ExecContext(ctx,
			`DELETE FROM responses WHERE job_id = ? AND seq NOT IN (
			   SELECT seq FROM responses WHERE job_id = ? ORDER BY seq DESC LIMIT ?)`,
			jobID, jobID, s.maxPerJob)
		if err != nil {
			return fmt.Errorf("trim responses: %w", err)
		}
		trimmed, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if trimmed > 0 {
		s.log.Debug("trimmed old responses", "jobId", jobID, "count", trimmed)
	}
	return entry, nil
}

// List returns the job's submissions, oldest first.
func (s *SQLiteStore) List(ctx context.Context, jobID string) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, job_id, body, created_at FROM responses WHERE job_id = ? ORDER BY seq`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	entries := make([]*Entry, 0)
	for rows.Next() {
		var (
			e       Entry
			body    string
			created string
		)
		if err := rows.Scan(&e.ID, &e.JobID, &body, &created); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		e.Body = json.RawMessage(body)
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse response timestamp: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate responses: %w", err)
	}
	return entries, nil
}

// Count returns the number of submissions held for jobID.
func (s *SQLiteStore) Count(ctx context.Context, jobID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM responses WHERE job_id = ?`, jobID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count responses: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close response log: %w", err)
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)
