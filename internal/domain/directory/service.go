package directory

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Source отдает текущие строки справочника. Реализуется кешем чтения.
type Source interface {
	DirectoryEntries(ctx context.Context) ([]Entry, error)
}

type Service struct {
	source Source
	log    *slog.Logger
}

func NewService(source Source, log *slog.Logger) *Service {
	return &Service{
		source: source,
		log:    log.With("component", "directory"),
	}
}

// Authenticate проверяет точное совпадение трех полей со строкой
// справочника. Строки сканируются в порядке хранения, побеждает первое
// полное совпадение. Сравнение чувствительно к регистру, без
// нормализации. Пустой справочник никого не пускает.
func (s *Service) Authenticate(ctx context.Context, department, group, secret string) (bool, error) {
	entries, err := s.source.DirectoryEntries(ctx)
	if err != nil {
		return false, err
	}

	for _, e := range entries {
		if e.Department != department || e.Group != group {
			continue
		}
		if matchSecret(e.Secret, secret) {
			return true, nil
		}
	}

	s.log.Debug("вход отклонен", "department", department, "group", group)
	return false, nil
}

// Departments возвращает отделы без повторов, в порядке хранения.
func (s *Service) Departments(ctx context.Context) ([]string, error) {
	entries, err := s.source.DirectoryEntries(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(entries))
	departments := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.Department]; ok {
			continue
		}
		seen[e.Department] = struct{}{}
		departments = append(departments, e.Department)
	}
	return departments, nil
}

// Groups возвращает группы одного отдела без повторов, в порядке хранения.
func (s *Service) Groups(ctx context.Context, department string) ([]string, error) {
	entries, err := s.source.DirectoryEntries(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	groups := make([]string, 0)
	for _, e := range entries {
		if e.Department != department {
			continue
		}
		if _, ok := seen[e.Group]; ok {
			continue
		}
		seen[e.Group] = struct{}{}
		groups = append(groups, e.Group)
	}
	return groups, nil
}

// Секрет в справочнике хранится либо открытым текстом (исходный
// контракт: точное строковое равенство), либо bcrypt-хешем. Хеш
// распознается по префиксу, контракт сравнения при этом не меняется.
func matchSecret(stored, candidate string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	return stored == candidate
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
