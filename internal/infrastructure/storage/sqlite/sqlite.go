package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"meetboard/internal/infrastructure/storage"
)

// Store держит обе таблицы в одном файле SQLite. Вариант для
// однохостовых установок и локальной разработки, когда внешнее
// табличное хранилище не нужно. Схема создается при открытии.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

var _ storage.Store = (*Store)(nil)

var queries = map[storage.Table]struct{ selectAll, insert string }{
	storage.TableDirectory: {
		selectAll: `SELECT department, group_name, password FROM directory_entries ORDER BY seq`,
		insert:    `INSERT INTO directory_entries (department, group_name, password) VALUES (?, ?, ?)`,
	},
	storage.TableRecords: {
		selectAll: `SELECT id, submitted_at, meeting_date, department, group_name, content, attachment_url FROM records ORDER BY seq`,
		insert:    `INSERT INTO records (id, submitted_at, meeting_date, department, group_name, content, attachment_url) VALUES (?, ?, ?, ?, ?, ?, ?)`,
	},
}

var columns = map[storage.Table]int{
	storage.TableDirectory: 3,
	storage.TableRecords:   7,
}

func New(path string, log *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("открытие базы данных: %w", err)
	}

	store := &Store{
		db:  db,
		log: log.With("component", "sqlite"),
	}

	if err := store.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("инициализация таблиц: %w", err)
	}

	return store, nil
}

func (s *Store) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS directory_entries (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			department TEXT NOT NULL,
			group_name TEXT NOT NULL,
			password   TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS records (
			seq            INTEGER PRIMARY KEY AUTOINCREMENT,
			id             TEXT NOT NULL,
			submitted_at   TEXT NOT NULL,
			meeting_date   TEXT NOT NULL,
			department     TEXT NOT NULL,
			group_name     TEXT NOT NULL,
			content        TEXT NOT NULL,
			attachment_url TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_records_meeting_date ON records(meeting_date);
	`)

	return err
}

func (s *Store) ReadAll(ctx context.Context, table storage.Table) ([][]string, error) {
	q, ok := queries[table]
	if !ok {
		return nil, storage.ErrUnknownTable
	}

	rows, err := s.db.QueryContext(ctx, q.selectAll)
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

	if _, err := s.db.ExecContext(ctx, q.insert, args...); err != nil {
		return fmt.Errorf("добавление строки в %s: %w", table, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
