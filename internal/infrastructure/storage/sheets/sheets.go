package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"meetboard/internal/infrastructure/storage"
)

// Диапазоны листов. Первая строка каждого листа - заголовок,
// данные начинаются со второй.
var ranges = map[storage.Table]struct{ read, append string }{
	storage.TableDirectory: {read: "config!A2:C", append: "config!A:C"},
	storage.TableRecords:   {read: "records!A2:G", append: "records!A:G"},
}

// Store работает с Google Sheets через сервисный аккаунт. Квотные
// отказы API опознаются и оборачиваются в storage.ErrRateLimited,
// чтобы кеш и конвейер фиксации могли отличить их от прочих сбоев.
type Store struct {
	svc           *gsheets.Service
	spreadsheetID string
	log           *slog.Logger
}

var _ storage.Store = (*Store)(nil)

func New(ctx context.Context, credentialsFile, spreadsheetID string, log *slog.Logger) (*Store, error) {
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("инициализация клиента Sheets: %w", err)
	}
	return &Store{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		log:           log.With("component", "sheets"),
	}, nil
}

func (s *Store) ReadAll(ctx context.Context, table storage.Table) ([][]string, error) {
	rng, ok := ranges[table]
	if !ok {
		return nil, storage.ErrUnknownTable
	}

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng.read).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError("чтение листа "+string(table), err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			if str, ok := cell.(string); ok {
				row[i] = str
			} else {
				row[i] = fmt.Sprint(cell)
			}
		}
		rows = append(rows, row)
	}

	s.log.Debug("лист прочитан", "table", table, "rows", len(rows))
	return rows, nil
}

func (s *Store) AppendRow(ctx context.Context, table storage.Table, row []string) error {
	rng, ok := ranges[table]
	if !ok {
		return storage.ErrUnknownTable
	}

	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}

	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, rng.append, &gsheets.ValueRange{
		Values: [][]interface{}{values},
	}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return wrapAPIError("добавление строки в "+string(table), err)
	}
	return nil
}

func (s *Store) Close() error { return nil }

func wrapAPIError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && isRateLimit(apiErr) {
		return fmt.Errorf("%s: %w: %v", op, storage.ErrRateLimited, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isRateLimit(apiErr *googleapi.Error) bool {
	if apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	for _, item := range apiErr.Errors {
		switch item.Reason {
		case "rateLimitExceeded", "userRateLimitExceeded", "quotaExceeded":
			return true
		}
	}
	return false
}
