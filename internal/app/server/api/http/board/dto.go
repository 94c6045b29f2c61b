package board

import (
	"meetboard/internal/domain/board"
)

type datesInput struct{}

type datesOutput struct {
	Body DatesResponse
}

type DatesResponse struct {
	Dates  []string `json:"dates"`
	Status string   `json:"status"`
}

type forDateInput struct {
	Date string `path:"date" doc:"Дата собрания (YYYY-MM-DD)"`
}

type forDateOutput struct {
	Body ForDateResponse
}

type ForDateResponse struct {
	Date        string       `json:"date"`
	Departments []Department `json:"departments"`
	Status      string       `json:"status"`
}

type Department struct {
	Department string       `json:"department"`
	Records    []RecordView `json:"records"`
}

type RecordView struct {
	ID            string `json:"id"`
	SubmittedAt   string `json:"submitted_at"`
	Group         string `json:"group"`
	Content       string `json:"content"`
	AttachmentURL string `json:"attachment_url,omitempty"`
	ThumbnailURL  string `json:"thumbnail_url,omitempty"`
}

func toDepartments(groups []board.DepartmentReports) []Department {
	out := make([]Department, 0, len(groups))
	for _, g := range groups {
		dep := Department{Department: g.Department}
		for _, rec := range g.Records {
			view := RecordView{
				ID:            rec.ID,
				SubmittedAt:   rec.SubmittedAt,
				Group:         rec.Group,
				Content:       rec.Content,
				AttachmentURL: rec.AttachmentURL,
			}
			if rec.AttachmentURL != "" {
				view.ThumbnailURL = board.ThumbnailURL(rec.AttachmentURL)
			}
			dep.Records = append(dep.Records, view)
		}
		out = append(out, dep)
	}
	return out
}

type refreshInput struct{}

type refreshOutput struct {
	Body RefreshResponse
}

type RefreshResponse struct {
	Status string `json:"status"`
}
