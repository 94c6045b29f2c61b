package snapshot

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetboard/internal/infrastructure/storage"
)

// fakeStore - хранилище в памяти со счетчиком чтений. Если выставлен
// blockOne, чтение журнала снимает копию строк и виснет на канале:
// так моделируется полет, дочитавший хранилище до чужой записи.
type fakeStore struct {
	mu       sync.Mutex
	tables   map[storage.Table][][]string
	readErr  error
	reads    atomic.Int64
	blockOne chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tables: map[storage.Table][][]string{
			storage.TableDirectory: {
				{"Office A", "G1", "pw1"},
			},
			storage.TableRecords: {
				{"01A", "2025-03-14 09:30:00", "2025-03-17", "Office A", "G1", "первый", ""},
			},
		},
	}
}

func (f *fakeStore) ReadAll(ctx context.Context, table storage.Table) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.reads.Add(1)

	f.mu.Lock()
	err := f.readErr
	rows := make([][]string, len(f.tables[table]))
	copy(rows, f.tables[table])
	gate := f.blockOne
	f.mu.Unlock()

	if gate != nil && table == storage.TableRecords {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (f *fakeStore) AppendRow(ctx context.Context, table storage.Table, row []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[table] = append(f.tables[table], row)
	return nil
}

func (f *fakeStore) Close() error { return nil }

func newTestCache(store storage.Store) (*Cache, *time.Time) {
	cache := NewCache(store, DefaultTTL, slog.Default())
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	return cache, &now
}

func TestGetServesSnapshotWithinTTL(t *testing.T) {
	store := newFakeStore()
	cache, now := newTestCache(store)
	ctx := context.Background()

	first, err := cache.Get(ctx)
	require.NoError(t, err)

	*now = now.Add(30 * time.Second)
	second, err := cache.Get(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	// Одно обновление = два чтения: справочник и журнал.
	assert.EqualValues(t, 2, store.reads.Load())
}

func TestGetRefetchesAfterTTL(t *testing.T) {
	store := newFakeStore()
	cache, now := newTestCache(store)
	ctx := context.Background()

	_, err := cache.Get(ctx)
	require.NoError(t, err)

	*now = now.Add(DefaultTTL + time.Second)
	_, err = cache.Get(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 4, store.reads.Load())
}

func TestInvalidateForcesFetch(t *testing.T) {
	store := newFakeStore()
	cache, now := newTestCache(store)
	ctx := context.Background()

	_, err := cache.Get(ctx)
	require.NoError(t, err)

	newRow := []string{"01B", "2025-03-14 10:00:01", "2025-03-17", "Office A", "G1", "второй", ""}
	require.NoError(t, store.AppendRow(ctx, storage.TableRecords, newRow))

	cache.Invalidate()

	// TTL еще не вышел, но снимок сброшен: читаем свои же строки.
	*now = now.Add(time.Second)
	snap, err := cache.Get(ctx)
	require.NoError(t, err)

	require.Len(t, snap.Records, 2)
	assert.Equal(t, "второй", snap.Records[1].Content)
	assert.EqualValues(t, 4, store.reads.Load())
}

func TestGetPropagatesFetchError(t *testing.T) {
	store := newFakeStore()
	cache, now := newTestCache(store)
	ctx := context.Background()

	_, err := cache.Get(ctx)
	require.NoError(t, err)

	// Снимок просрочен, хранилище недоступно: отдаем ошибку, не старье.
	store.mu.Lock()
	store.readErr = errors.New("quota exceeded")
	store.mu.Unlock()
	*now = now.Add(DefaultTTL + time.Second)

	_, err = cache.Get(ctx)
	assert.Error(t, err)
}

func TestGetSkipsMalformedRows(t *testing.T) {
	store := newFakeStore()
	store.tables[storage.TableRecords] = append(store.tables[storage.TableRecords], []string{"обрывок"})
	store.tables[storage.TableDirectory] = append(store.tables[storage.TableDirectory], []string{"Office B"})
	cache, _ := newTestCache(store)

	snap, err := cache.Get(context.Background())
	require.NoError(t, err)

	assert.Len(t, snap.Records, 1)
	assert.Len(t, snap.Directory, 1)
}

func TestInvalidateDuringRefreshDiscardsStaleFlight(t *testing.T) {
	store := newFakeStore()
	gate := make(chan struct{})
	store.blockOne = gate
	cache, now := newTestCache(store)
	ctx := context.Background()

	// Полет A снял копию журнала со старой строкой и завис.
	aDone := make(chan struct{})
	var aSnap *Snapshot
	var aErr error
	go func() {
		defer close(aDone)
		aSnap, aErr = cache.Get(ctx)
	}()
	time.Sleep(50 * time.Millisecond)

	// Пока A висит: запись новой строки, сброс кеша и свежее чтение.
	store.mu.Lock()
	store.blockOne = nil
	store.mu.Unlock()
	newRow := []string{"01B", "2025-03-14 10:00:01", "2025-03-17", "Office A", "G1", "второй", ""}
	require.NoError(t, store.AppendRow(ctx, storage.TableRecords, newRow))
	cache.Invalidate()

	fresh, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Len(t, fresh.Records, 2)

	// Опоздавший полет A доносит снимок без новой строки.
	close(gate)
	<-aDone
	require.NoError(t, aErr)
	require.Len(t, aSnap.Records, 1)

	// Внутри TTL по-прежнему виден свежий снимок: записавшая сессия
	// читает свои строки, устаревший полет их не затер.
	*now = now.Add(time.Second)
	snap, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Records, 2)
	assert.Equal(t, "второй", snap.Records[1].Content)
}

func TestGetDetachedFromCallerContext(t *testing.T) {
	store := newFakeStore()
	cache, _ := newTestCache(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Полет общий на всех ожидающих, поэтому отмена контекста одного
	// вызвавшего до хранилища не доезжает.
	snap, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Records, 1)
}

func TestConcurrentGetSingleFlight(t *testing.T) {
	store := newFakeStore()
	store.blockOne = make(chan struct{})
	cache, _ := newTestCache(store)

	const callers = 10
	snaps := make([]*Snapshot, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snaps[i], errs[i] = cache.Get(context.Background())
		}(i)
	}

	// Даем всем вызовам встать в очередь за идущим чтением.
	time.Sleep(50 * time.Millisecond)
	close(store.blockOne)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
	}
	assert.EqualValues(t, 2, store.reads.Load())
	for i := 1; i < callers; i++ {
		assert.Same(t, snaps[0], snaps[i])
	}
}
