package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getmockd/talentflow/internal/sqlitex"
	"github.com/getmockd/talentflow/pkg/entity"
	"github.com/getmockd/talentflow/pkg/store"
)

// table is one entity collection. The primary key column is always "id";
// keyField names the document field it is read from.
//
// A table bound to a transaction has db set to the *sql.Tx and conn nil;
// multi-statement operations then run inside that transaction.
type table struct {
	db       sqlitex.DBTX
	conn     *sql.DB
	kind     store.Kind
	keyField string
	indexes  map[string]string // document field -> generated column
}

func newTable(db sqlitex.DBTX, conn *sql.DB, kind store.Kind, keyField string, indexes map[string]string) *table {
	return &table{db: db, conn: conn, kind: kind, keyField: keyField, indexes: indexes}
}

// atomic runs fn in a transaction of its own, or in the bound one.
func (t *table) atomic(ctx context.Context, fn func(ctx context.Context, db sqlitex.DBTX) error) error {
	if t.conn == nil {
		return fn(ctx, t.db)
	}
	return sqlitex.WithTx(ctx, t.conn, fn)
}

func (t *table) Kind() store.Kind { return t.kind }
func (t *table) KeyField() string { return t.keyField }
func (t *table) name() string { return string(t.kind) }

func (t *table) Add(ctx context.Context, doc entity.Document) error {
	return t.insert(ctx, t.db, doc)
}

func (t *table) BulkAdd(ctx context.Context, docs []entity.Document) error {
	return t.atomic(ctx, func(ctx context.Context, tx sqlitex.DBTX) error {
		for _, doc := range docs {
			if err := t.insert(ctx, tx, doc); err != nil {
				return err
			}
		}
		return nil
	})
}

func (t *table) insert(ctx context.Context, db sqlitex.DBTX, doc entity.Document) error {
	key, err := store.KeyOf(doc, t.keyField)
	if err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", t.kind, err)
	}

	res, err := db.ExecContext(ctx,
		`INSERT INTO `+t.name()+` (id, doc) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`,
		key, string(data))
	if err != nil {
		return fmt.Errorf("insert %s %q: %w", t.kind, key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert %s %q: %w", t.kind, key, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", t.kind, key, store.ErrAlreadyExists)
	}
	return nil
}

func (t *table) Put(ctx context.Context, doc entity.Document) error {
	key, err := store.KeyOf(doc, t.keyField)
	if err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", t.kind, err)
	}

	_, err = t.db.ExecContext(ctx,
		`INSERT INTO `+t.name()+` (id, doc) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET doc = excluded.doc`,
		key, string(data))
	if err != nil {
		return fmt.Errorf("put %s %q: %w", t.kind, key, err)
	}
	return nil
}

func (t *table) Update(ctx context.Context, key string, patch entity.Document) error {
	return t.atomic(ctx, func(ctx context.Context, tx sqlitex.DBTX) error {
		current, err := t.get(ctx, tx, key)
		if err != nil {
			return err
		}

		merged := current.Merge(patch)
		// The key is the row identity; a patch cannot move the record.
		merged[t.keyField] = current[t.keyField]

		data, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("encode %s record: %w", t.kind, err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE `+t.name()+` SET doc = ? WHERE id = ?`, string(data), key); err != nil {
			return fmt.Errorf("update %s %q: %w", t.kind, key, err)
		}
		return nil
	})
}

func (t *table) Get(ctx context.Context, key string) (entity.Document, error) {
	return t.get(ctx, t.db, key)
}

func (t *table) get(ctx context.Context, db sqlitex.DBTX, key string) (entity.Document, error) {
	var raw string
	err := db.QueryRowContext(ctx, `SELECT doc FROM `+t.name()+` WHERE id = ?`, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %q: %w", t.kind, key, store.ErrNotFound)
		}
		return nil, fmt.Errorf("get %s %q: %w", t.kind, key, err)
	}
	return t.decode(raw)
}

func (t *table) All(ctx context.Context) ([]entity.Document, error) {
	return t.query(ctx, `SELECT doc FROM `+t.name()+` ORDER BY id`)
}

func (t *table) ListBy(ctx context.Context, field, value string) ([]entity.Document, error) {
	column, ok := t.indexes[field]
	if !ok {
		return nil, fmt.Errorf("%s has no index on %q", t.kind, field)
	}
	return t.query(ctx, `SELECT doc FROM `+t.name()+` WHERE `+column+` = ? ORDER BY id`, value)
}

func (t *table) Count(ctx context.Context) (int, error) {
	var n int
	if err := t.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+t.name()).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", t.kind, err)
	}
	return n, nil
}

func (t *table) query(ctx context.Context, q string, args ...any) ([]entity.Document, error) {
	rows, err := t.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", t.kind, err)
	}
	defer rows.Close()

	docs := make([]entity.Document, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.kind, err)
		}
		doc, err := t.decode(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", t.kind, err)
	}
	return docs, nil
}

func (t *table) decode(raw string) (entity.Document, error) {
	doc, ok := entity.ParseDocument([]byte(raw))
	if !ok {
		return nil, fmt.Errorf("%s: stored record is not a JSON object", t.kind)
	}
	return doc, nil
}
