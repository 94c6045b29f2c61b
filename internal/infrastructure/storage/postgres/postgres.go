package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"meetboard/internal/infrastructure/migration"
	"meetboard/internal/infrastructure/storage"
)

// Запросы на таблицу. Порядок строк держит колонка seq: журнал
// append-only, и порядок добавления обязан переживать чтение.
var queries = map[storage.Table]struct{ selectAll, insert string }{
	storage.TableDirectory: {
		selectAll: `SELECT department, group_name, password FROM directory_entries ORDER BY seq`,
		insert:    `INSERT INTO directory_entries (department, group_name, password) VALUES ($1, $2, $3)`,
	},
	storage.TableRecords: {
		selectAll: `SELECT id, submitted_at, meeting_date, department, group_name, content, attachment_url FROM records ORDER BY seq`,
		insert:    `INSERT INTO records (id, submitted_at, meeting_date, department, group_name, content, attachment_url) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	},
}

// Число колонок на таблицу, в порядке строки хранилища.
var columns = map[storage.Table]int{
	storage.TableDirectory: 3,
	storage.TableRecords:   7,
}

// Store реализует адаптер хранилища поверх Postgres. Колонки строго
// текстовые и повторяют раскладку строк табличного хранилища -
// драйверы взаимозаменяемы без переделки кодека строк.
type Store struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// Config - параметры подключения и миграций драйвера.
type Config struct {
	DatabaseURI string
	Migrations  string
}

func New(ctx context.Context, cfg Config, log *slog.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURI)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	mg := migration.NewMigration(cfg.Migrations, cfg.DatabaseURI, migration.DefaultEngine)
	if err := mg.Up(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &Store{
		pool: pool,
		log:  log.With("component", "postgres"),
	}, nil
}

func (s *Store) ReadAll(ctx context.Context, table storage.Table) ([][]string, error) {
	q, ok := queries[table]
	if !ok {
		return nil, storage.ErrUnknownTable
	}

	rows, err := s.pool.Query(ctx, q.selectAll)
	if err != nil {
		return nil, fmt.Errorf("чтение таблицы %s: %w", table, err)
	}
	defer rows.Close()

	n := columns[table]
	out := make([][]string, 0)
	for rows.Next() {
		row := make([]string, n)
		dest := make([]any, n)
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("чтение строки %s: %w", table, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("чтение таблицы %s: %w", table, err)
	}

	s.log.Debug("таблица прочитана", "table", table, "rows", len(out))
	return out, nil
}

func (s *Store) AppendRow(ctx context.Context, table storage.Table, row []string) error {
	q, ok := queries[table]
	if !ok {
		return storage.ErrUnknownTable
	}
	if len(row) != columns[table] {
		return fmt.Errorf("таблица %s ждет %d колонок, пришло %d", table, columns[table], len(row))
	}

	args := make([]any, len(row))
	for i, cell := range row {
		args[i] = cell
	}

	if _, err := s.pool.Exec(ctx, q.insert, args...); err != nil {
		return fmt.Errorf("добавление строки в %s: %w", table, err)
	}
	return nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
