package board

import (
	"context"
	"log/slog"
	"sort"

	"meetboard/internal/domain/record"
)

// Source отдает текущий журнал отчетов. Реализуется кешем чтения,
// поэтому доска никогда не ходит в хранилище напрямую.
type Source interface {
	Records(ctx context.Context) ([]record.Record, error)
}

// DepartmentReports - отчеты одного отдела на одну дату собрания,
// в порядке фиксации.
type DepartmentReports struct {
	Department string          `json:"department"`
	Records    []record.Record `json:"records"`
}

type Service struct {
	source Source
	log    *slog.Logger
}

func NewService(source Source, log *slog.Logger) *Service {
	return &Service{
		source: source,
		log:    log.With("component", "board"),
	}
}

// Dates возвращает даты собраний без повторов, свежие сверху.
// Даты хранятся строками YYYY-MM-DD, так что лексикографический
// порядок совпадает с хронологическим.
func (s *Service) Dates(ctx context.Context) ([]string, error) {
	records, err := s.source.Records(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	dates := make([]string, 0)
	for _, rec := range records {
		if _, ok := seen[rec.MeetingDate]; ok {
			continue
		}
		seen[rec.MeetingDate] = struct{}{}
		dates = append(dates, rec.MeetingDate)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// ForDate собирает отчеты одной даты по отделам. Отделы идут в
// порядке первого появления в журнале, отчеты внутри отдела - в
// порядке фиксации.
func (s *Service) ForDate(ctx context.Context, date string) ([]DepartmentReports, error) {
	records, err := s.source.Records(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	groups := make([]DepartmentReports, 0)
	for _, rec := range records {
		if rec.MeetingDate != date {
			continue
		}
		i, ok := index[rec.Department]
		if !ok {
			i = len(groups)
			index[rec.Department] = i
			groups = append(groups, DepartmentReports{Department: rec.Department})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}
	return groups, nil
}
