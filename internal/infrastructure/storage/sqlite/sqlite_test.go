package sqlite

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetboard/internal/infrastructure/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"), slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_AppendAndReadAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rows, err := store.ReadAll(ctx, storage.TableRecords)
	require.NoError(t, err)
	assert.Empty(t, rows)

	first := []string{"01A", "2024-03-01 10:00:00", "2024-03-01", "Office A", "G1", "первый", ""}
	second := []string{"01B", "2024-03-01 10:00:01", "2024-03-01", "Office B", "G2", "второй", "https://example.com/f"}

	require.NoError(t, store.AppendRow(ctx, storage.TableRecords, first))
	require.NoError(t, store.AppendRow(ctx, storage.TableRecords, second))

	rows, err = store.ReadAll(ctx, storage.TableRecords)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Порядок хранения = порядок добавления.
	assert.Equal(t, first, rows[0])
	assert.Equal(t, second, rows[1])
}

func TestStore_DirectoryTable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendRow(ctx, storage.TableDirectory, []string{"Office A", "G1", "pw1"}))

	rows, err := store.ReadAll(ctx, storage.TableDirectory)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Office A", "G1", "pw1"}, rows[0])
}

func TestStore_UnknownTable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.ReadAll(ctx, storage.Table("nope"))
	assert.ErrorIs(t, err, storage.ErrUnknownTable)

	err = store.AppendRow(ctx, storage.Table("nope"), []string{"x"})
	assert.ErrorIs(t, err, storage.ErrUnknownTable)
}

func TestStore_WrongColumnCount(t *testing.T) {
	store := newTestStore(t)

	err := store.AppendRow(context.Background(), storage.TableDirectory, []string{"только отдел"})
	assert.Error(t, err)
}
