package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/talentflow/pkg/entity"
	"github.com/getmockd/talentflow/pkg/store"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talentflow.db")
	s, err := Open(context.Background(), Config{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func job(id, title, status string, order int) entity.Document {
	return entity.Document{
		"id":     id,
		"title":  title,
		"slug":   title,
		"status": status,
		"tags":   []any{"backend"},
		"order":  float64(order),
	}
}

func TestAdd_RejectsDuplicateKey(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Jobs().Add(ctx, job("j1", "Engineer", "active", 1)))
	err := s.Jobs().Add(ctx, job("j1", "Designer", "active", 2))
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	got, err := s.Jobs().Get(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, "Engineer", got["title"])
}

func TestAdd_MissingKey(t *testing.T) {
	s, _ := openTestStore(t)
	err := s.Candidates().Add(context.Background(), entity.Document{"name": "Ana"})
	assert.ErrorIs(t, err, store.ErrMissingKey)
}

func TestAdd_PreservesUnknownFields(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	doc := entity.Document{"id": "c1", "name": 12, "custom": map[string]any{"a": true}}
	require.NoError(t, s.Candidates().Add(ctx, doc))

	got, err := s.Candidates().Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, float64(12), got["name"])
	assert.Equal(t, map[string]any{"a": true}, got["custom"])
}

func TestPut_Upserts(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	a := s.Assessments()

	require.NoError(t, a.Put(ctx, entity.Document{"jobId": "j1", "sections": []any{"one"}}))
	require.NoError(t, a.Put(ctx, entity.Document{"jobId": "j1", "sections": []any{}}))

	got, err := a.Get(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, []any{}, got["sections"])

	n, err := a.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpdate_IsPureMerge(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Jobs().Add(ctx, job("j1", "Engineer", "active", 3)))

	require.NoError(t, s.Jobs().Update(ctx, "j1", entity.Document{"status": "archived"}))

	got, err := s.Jobs().Get(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, "archived", got["status"])
	assert.Equal(t, "Engineer", got["title"])
	assert.Equal(t, float64(3), got["order"])
	assert.Equal(t, []any{"backend"}, got["tags"])
}

func TestUpdate_KeepsKey(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Jobs().Add(ctx, job("j1", "Engineer", "active", 1)))

	require.NoError(t, s.Jobs().Update(ctx, "j1", entity.Document{"id": "other"}))

	got, err := s.Jobs().Get(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, "j1", got["id"])
	_, err = s.Jobs().Get(ctx, "other")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdate_NotFound(t *testing.T) {
	s, _ := openTestStore(t)
	err := s.Jobs().Update(context.Background(), "nope", entity.Document{"status": "archived"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAll_OrderedByKey(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.Jobs().Add(ctx, job(id, id, "active", 1)))
	}

	all, err := s.Jobs().All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0]["id"])
	assert.Equal(t, "b", all[1]["id"])
	assert.Equal(t, "c", all[2]["id"])
}

func TestAll_EmptyIsNotNil(t *testing.T) {
	s, _ := openTestStore(t)
	all, err := s.Notes().All(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestBulkAdd_AllOrNothing(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	err := s.Jobs().BulkAdd(ctx, []entity.Document{
		job("j1", "A", "active", 1),
		job("j2", "B", "active", 2),
		job("j1", "dup", "active", 3),
	})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	n, err := s.Jobs().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAtomic_CommitsTogether(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Candidates().Add(ctx, entity.Document{"id": "c1", "stage": "applied"}))

	err := s.Atomic(ctx, func(ctx context.Context, tx store.Store) error {
		if err := tx.Candidates().Update(ctx, "c1", entity.Document{"stage": "screen"}); err != nil {
			return err
		}
		got, err := tx.Candidates().Get(ctx, "c1")
		if err != nil {
			return err
		}
		assert.Equal(t, "screen", got["stage"], "reads inside see earlier writes")
		return tx.Timeline().Add(ctx, entity.Document{"id": "e1", "candidateId": "c1", "stage": "screen"})
	})
	require.NoError(t, err)

	got, err := s.Candidates().Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "screen", got["stage"])
	n, err := s.Timeline().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAtomic_RollsBackOnError(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Jobs().Add(ctx, job("j1", "A", "active", 1)))
	boom := errors.New("boom")

	err := s.Atomic(ctx, func(ctx context.Context, tx store.Store) error {
		if err := tx.Jobs().Update(ctx, "j1", entity.Document{"status": "archived"}); err != nil {
			return err
		}
		if err := tx.Jobs().BulkAdd(ctx, []entity.Document{job("j2", "B", "active", 2)}); err != nil {
			return err
		}
		// Nested calls join the outer transaction.
		return tx.Atomic(ctx, func(ctx context.Context, inner store.Store) error {
			if err := inner.Notes().Add(ctx, entity.Document{"id": "n1", "candidateId": "c1"}); err != nil {
				return err
			}
			return boom
		})
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Jobs().Get(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, "active", got["status"])
	n, err := s.Jobs().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = s.Notes().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListBy_UsesIndexedFields(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Candidates().BulkAdd(ctx, []entity.Document{
		{"id": "c1", "stage": "applied", "jobId": "j1"},
		{"id": "c2", "stage": "hired", "jobId": "j1"},
		{"id": "c3", "stage": "applied", "jobId": "j2"},
	}))

	applied, err := s.Candidates().ListBy(ctx, entity.FieldStage, "applied")
	require.NoError(t, err)
	assert.Len(t, applied, 2)

	forJob, err := s.Candidates().ListBy(ctx, entity.FieldJobID, "j1")
	require.NoError(t, err)
	assert.Len(t, forJob, 2)

	_, err = s.Candidates().ListBy(ctx, "email", "x@example.com")
	assert.Error(t, err)
}

func TestListBy_JobOrder(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Jobs().BulkAdd(ctx, []entity.Document{
		job("j1", "A", "active", 1),
		job("j2", "B", "archived", 2),
	}))

	got, err := s.Jobs().ListBy(ctx, entity.FieldOrder, "2")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "j2", got[0]["id"])
}

func TestDurableAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "talentflow.db")

	s, err := Open(ctx, Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, s.Jobs().Add(ctx, job("j1", "Engineer", "active", 1)))
	require.NoError(t, s.Jobs().Update(ctx, "j1", entity.Document{"status": "archived"}))
	require.NoError(t, s.Close())

	s, err = Open(ctx, Config{Path: path})
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Jobs().Get(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, "archived", got["status"])
}
