package storage

import (
	"context"
	"errors"
)

// Table - имя таблицы во внешнем табличном хранилище.
type Table string

const (
	// TableDirectory - справочник отделов/групп с паролями.
	TableDirectory Table = "config"
	// TableRecords - журнал отчетов, только добавление строк.
	TableRecords Table = "records"
)

var (
	// ErrRateLimited - хранилище отклонило вызов из-за исчерпания квоты.
	// Проверяется через errors.Is поверх ошибок чтения и записи.
	ErrRateLimited = errors.New("превышена квота обращений к хранилищу")
	// ErrUnknownTable - запрошена таблица, которой нет в хранилище.
	ErrUnknownTable = errors.New("неизвестная таблица")
)

// Store - адаптер внешнего append-only хранилища.
// Доступны ровно две операции: полное чтение таблицы и добавление
// одной строки в конец. Строки возвращаются в порядке хранения,
// без строки заголовка.
type Store interface {
	ReadAll(ctx context.Context, table Table) ([][]string, error)
	AppendRow(ctx context.Context, table Table, row []string) error

	Close() error
}
