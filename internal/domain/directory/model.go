package directory

// Число колонок строки справочника.
const rowLen = 3

// Entry - строка справочника доступа: отдел, группа и секрет.
// Загружается целиком из таблицы config и не изменяется.
type Entry struct {
	Department string `json:"department"`
	Group      string `json:"group"`
	Secret     string `json:"-"`
}

// EntryFromRow собирает строку справочника из строки хранилища.
// Порядок колонок: department, group, password.
func EntryFromRow(row []string) (Entry, bool) {
	if len(row) < rowLen {
		return Entry{}, false
	}
	return Entry{
		Department: row[0],
		Group:      row[1],
		Secret:     row[2],
	}, true
}
