// Package sqlite implements store.Store on a single SQLite file.
//
// Every kind is a table of JSON documents keyed by the kind's primary key.
// Indexed fields are generated columns extracted from the document, so
// callers may store any object shape and still get indexed lookups.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/getmockd/talentflow/internal/sqlitex"
	"github.com/getmockd/talentflow/pkg/entity"
	"github.com/getmockd/talentflow/pkg/logging"
	"github.com/getmockd/talentflow/pkg/store"
	"github.com/getmockd/talentflow/pkg/store/sqlite/migrations"
)

// Config configures the SQLite store.
type Config struct {
	// Path is the database file, or ":memory:".
	Path string
	// BusyTimeout bounds how long a statement waits on a locked database.
	BusyTimeout time.Duration
	// Logger receives store diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Store is a store.Store backed by SQLite.
type Store struct {
	tables
	db  *sql.DB
	log *slog.Logger
}

// tables are the five collections over one connection or transaction.
type tables struct {
	jobs        *table
	candidates  *table
	assessments *table
	timeline    *table
	notes       *table
}

func newTables(db sqlitex.DBTX, conn *sql.DB) tables {
	return tables{
		jobs: newTable(db, conn, store.KindJobs, entity.FieldID, map[string]string{
			entity.FieldStatus: "status",
			entity.FieldOrder:  "ord",
		}),
		candidates: newTable(db, conn, store.KindCandidates, entity.FieldID, map[string]string{
			entity.FieldStage: "stage",
			entity.FieldJobID: "job_id",
		}),
		assessments: newTable(db, conn, store.KindAssessments, entity.FieldJobID, nil),
		timeline: newTable(db, conn, store.KindTimeline, entity.FieldID, map[string]string{
			entity.FieldCandidateID: "candidate_id",
		}),
		notes: newTable(db, conn, store.KindNotes, entity.FieldID, map[string]string{
			entity.FieldCandidateID: "candidate_id",
		}),
	}
}

func (ts *tables) Jobs() store.Collection        { return ts.jobs }
func (ts *tables) Candidates() store.Collection  { return ts.candidates }
func (ts *tables) Assessments() store.Collection { return ts.assessments }
func (ts *tables) Timeline() store.Collection    { return ts.timeline }
func (ts *tables) Notes() store.Collection       { return ts.notes }

// Open opens the database at cfg.Path and migrates it to the latest schema.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Path == "" {
		cfg.Path = store.DefaultPath()
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	log := logging.Component(cfg.Logger, "store")

	db, err := sqlitex.Open(ctx, cfg.Path, cfg.BusyTimeout, migrations.FS)
	if err != nil {
		return nil, err
	}
	log.Debug("entity store opened", "path", cfg.Path)

	return &Store{tables: newTables(db, db), db: db, log: log}, nil
}

// Atomic runs fn against collections bound to one transaction.
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	return sqlitex.WithTx(ctx, s.db, func(ctx context.Context, tx sqlitex.DBTX) error {
		return fn(ctx, &txStore{tables: newTables(tx, nil)})
	})
}

// Close closes the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close entity store: %w", err)
	}
	s.log.Debug("entity store closed")
	return nil
}

// txStore is the view of a Store inside Atomic.
type txStore struct {
	tables
}

func (t *txStore) Atomic(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	return fn(ctx, t)
}

// Close is a no-op; the transaction ends when Atomic returns.
func (t *txStore) Close() error { return nil }

var (
	_ store.Store = (*Store)(nil)
	_ store.Store = (*txStore)(nil)
)
