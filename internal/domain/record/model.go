package record

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// TimeLayout - формат колонки submittedAt в хранилище.
const TimeLayout = "2006-01-02 15:04:05"

// DateLayout - формат даты собрания. Лексикографический порядок таких
// дат совпадает с хронологическим, на это опирается доска.
const DateLayout = "2006-01-02"

// Число колонок строки отчета в хранилище.
const rowLen = 7

// Record - один зафиксированный отчет. После записи в хранилище
// не изменяется и не удаляется.
type Record struct {
	ID            string `json:"id"`
	SubmittedAt   string `json:"submitted_at"`
	MeetingDate   string `json:"meeting_date"`
	Department    string `json:"department"`
	Group         string `json:"group"`
	Content       string `json:"content"`
	AttachmentURL string `json:"attachment_url,omitempty"`
}

// NewID возвращает новый ULID. Идентификаторы монотонны по времени,
// поэтому порядок добавления восстановим по id.
func NewID() string {
	return ulid.Make().String()
}

// FormatSubmittedAt приводит момент фиксации к формату хранилища.
func FormatSubmittedAt(t time.Time) string {
	return t.Format(TimeLayout)
}

// ToRow раскладывает отчет в строку хранилища.
// Порядок колонок фиксирован: id, submittedAt, meetingDate,
// department, group, content, attachmentURL.
func (r Record) ToRow() []string {
	return []string{
		r.ID,
		r.SubmittedAt,
		r.MeetingDate,
		r.Department,
		r.Group,
		r.Content,
		r.AttachmentURL,
	}
}

// FromRow собирает отчет из строки хранилища.
func FromRow(row []string) (Record, error) {
	if len(row) < rowLen {
		return Record{}, ErrMalformedRow
	}
	return Record{
		ID:            row[0],
		SubmittedAt:   row[1],
		MeetingDate:   row[2],
		Department:    row[3],
		Group:         row[4],
		Content:       row[5],
		AttachmentURL: row[6],
	}, nil
}
