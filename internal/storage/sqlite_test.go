package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/khru/internal/model"
)

// createTestStorage opens a migrated database in a temp directory.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyString))
}

func TestSQLiteStorage_KeyValue(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	type doc struct {
		Name  string   `json:"name"`
		Score *float64 `json:"score"`
	}

	t.Run("missing key", func(t *testing.T) {
		var got doc
		found, err := store.Get(ctx, "absent", &got)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, doc{}, got)
	})

	t.Run("round trip keeps nulls", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "student", doc{Name: "เด็กชายกอบ"}))

		var got doc
		found, err := store.Get(ctx, "student", &got)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "เด็กชายกอบ", got.Name)
		assert.Nil(t, got.Score)
	})

	t.Run("overwrite", func(t *testing.T) {
		v := 18.5
		require.NoError(t, store.Set(ctx, "student", doc{Name: "x", Score: &v}))

		var got doc
		_, err := store.Get(ctx, "student", &got)
		require.NoError(t, err)
		require.NotNil(t, got.Score)
		assert.InDelta(t, 18.5, *got.Score, 1e-9)
	})

	t.Run("keys are sorted", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "academicYear", "2567"))
		keys, err := store.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"academicYear", "student"}, keys)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "student"))
		require.NoError(t, store.Delete(ctx, "student"))

		var got doc
		found, err := store.Get(ctx, "student", &got)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("corrupt value", func(t *testing.T) {
		_, err := store.db.ExecContext(ctx, "INSERT INTO kv (key, value) VALUES ('broken', '{not json')")
		require.NoError(t, err)

		var got doc
		_, err = store.Get(ctx, "broken", &got)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrCorruptValue))
	})

	t.Run("invalid parameters", func(t *testing.T) {
		var got doc
		_, err := store.Get(ctx, "", &got)
		assert.True(t, errors.Is(err, ErrEmptyString))

		_, err = store.Get(ctx, "student", nil)
		assert.True(t, errors.Is(err, ErrNilParameter))

		//nolint:staticcheck // exercising the nil guard
		err = store.Set(nil, "student", got)
		assert.True(t, errors.Is(err, ErrNilContext))
	})
}

func TestSQLiteStorage_Activity(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	for i, op := range []string{"setScore", "saveIndicators", "removeStudent"} {
		require.NoError(t, store.RecordActivity(ctx, model.Activity{
			At:     base.Add(time.Duration(i) * time.Minute),
			Op:     op,
			Year:   "2567",
			Class:  "ป.1",
			Detail: "S1",
		}))
	}

	t.Run("newest first", func(t *testing.T) {
		got, err := store.RecentActivity(ctx, 10)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "removeStudent", got[0].Op)
		assert.Equal(t, "setScore", got[2].Op)
		assert.Equal(t, "ป.1", got[0].Class)
		assert.NotZero(t, got[0].ID)
	})

	t.Run("limit", func(t *testing.T) {
		got, err := store.RecentActivity(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("op required", func(t *testing.T) {
		err := store.RecordActivity(ctx, model.Activity{})
		assert.True(t, errors.Is(err, ErrEmptyString))
	})
}
