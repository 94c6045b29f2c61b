package memory

import (
	"context"
	"sync"

	"meetboard/internal/infrastructure/storage"
)

// Store держит таблицы в памяти. Служит запасным вариантом для
// локального запуска без внешнего хранилища и опорой для тестов.
type Store struct {
	mu     sync.RWMutex
	tables map[storage.Table][][]string
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		tables: map[storage.Table][][]string{
			storage.TableDirectory: {},
			storage.TableRecords:   {},
		},
	}
}

// Seed заменяет содержимое таблицы. Для предзаполнения справочника
// при старте и подготовки тестовых данных.
func (s *Store) Seed(table storage.Table, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([][]string, len(rows))
	copy(copied, rows)
	s.tables[table] = copied
}

func (s *Store) ReadAll(ctx context.Context, table storage.Table) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.tables[table]
	if !ok {
		return nil, storage.ErrUnknownTable
	}
	out := make([][]string, len(rows))
	copy(out, rows)
	return out, nil
}

func (s *Store) AppendRow(ctx context.Context, table storage.Table, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[table]; !ok {
		return storage.ErrUnknownTable
	}
	copied := make([]string, len(row))
	copy(copied, row)
	s.tables[table] = append(s.tables[table], copied)
	return nil
}

func (s *Store) Close() error { return nil }
