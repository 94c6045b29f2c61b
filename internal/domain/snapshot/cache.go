package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"meetboard/internal/domain/directory"
	"meetboard/internal/domain/record"
	"meetboard/internal/infrastructure/storage"
)

// DefaultTTL - срок жизни снимка по умолчанию.
const DefaultTTL = 60 * time.Second

// Snapshot - копия справочника и журнала отчетов на момент FetchedAt.
// После выдачи не изменяется, читатели разделяют один экземпляр.
type Snapshot struct {
	Directory []directory.Entry
	Records   []record.Record
	FetchedAt time.Time
}

// Cache ограничивает частоту чтений внешнего хранилища: снимок живет
// не дольше TTL, просроченный или сброшенный снимок перечитывается
// целиком. Просроченные данные при ошибке чтения не выдаются никогда,
// ошибка уходит вызывающему как есть.
type Cache struct {
	store storage.Store
	ttl   time.Duration
	log   *slog.Logger

	mu   sync.Mutex
	snap *Snapshot
	gen  uint64

	group singleflight.Group
	now   func() time.Time
}

func NewCache(store storage.Store, ttl time.Duration, log *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store: store,
		ttl:   ttl,
		log:   log.With("component", "snapshot"),
		now:   time.Now,
	}
}

// Get возвращает живой снимок либо перечитывает хранилище.
// Конкурентные вызовы во время перечитывания не порождают новых
// обращений к хранилищу: они дожидаются идущего и разделяют его
// результат. Ключ полета привязан к поколению инвалидации, поэтому
// Get после Invalidate никогда не присоединится к устаревшему полету.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	if c.snap != nil && c.now().Sub(c.snap.FetchedAt) < c.ttl {
		snap := c.snap
		c.mu.Unlock()
		return snap, nil
	}
	gen := c.gen
	key := fmt.Sprintf("refresh-%d", gen)
	c.mu.Unlock()

	// Полет отвязан от контекста первого вызвавшего: его отмена не
	// должна ронять Get всем, кто присоединился к этому же чтению.
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		return c.refresh(context.WithoutCancel(ctx), gen)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Invalidate сбрасывает снимок: следующий Get перечитает хранилище
// независимо от остатка TTL. Вызывается синхронно после каждой
// успешной записи, чтобы пишущая сессия видела свои строки.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.gen++
	c.mu.Unlock()
	c.log.Debug("снимок сброшен")
}

// DirectoryEntries реализует directory.Source.
func (c *Cache) DirectoryEntries(ctx context.Context) ([]directory.Entry, error) {
	snap, err := c.Get(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Directory, nil
}

// Records возвращает журнал отчетов из живого снимка.
func (c *Cache) Records(ctx context.Context) ([]record.Record, error) {
	snap, err := c.Get(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Records, nil
}

func (c *Cache) refresh(ctx context.Context, gen uint64) (*Snapshot, error) {
	dirRows, err := c.store.ReadAll(ctx, storage.TableDirectory)
	if err != nil {
		return nil, fmt.Errorf("чтение справочника: %w", err)
	}
	recRows, err := c.store.ReadAll(ctx, storage.TableRecords)
	if err != nil {
		return nil, fmt.Errorf("чтение журнала: %w", err)
	}

	snap := &Snapshot{
		Directory: make([]directory.Entry, 0, len(dirRows)),
		Records:   make([]record.Record, 0, len(recRows)),
		FetchedAt: c.now(),
	}
	for i, row := range dirRows {
		entry, ok := directory.EntryFromRow(row)
		if !ok {
			c.log.Warn("пропущена неполная строка справочника", "row", i)
			continue
		}
		snap.Directory = append(snap.Directory, entry)
	}
	for i, row := range recRows {
		rec, err := record.FromRow(row)
		if err != nil {
			c.log.Warn("пропущена неполная строка журнала", "row", i)
			continue
		}
		snap.Records = append(snap.Records, rec)
	}

	// Снимок устанавливается только если за время чтения не было
	// Invalidate: опоздавший полет старого поколения не должен
	// затереть данные, перечитанные после записи.
	c.mu.Lock()
	installed := c.gen == gen
	if installed {
		c.snap = snap
	}
	c.mu.Unlock()

	c.log.Debug("снимок обновлен",
		"directory_rows", len(snap.Directory),
		"records", len(snap.Records),
		"installed", installed)
	return snap, nil
}
