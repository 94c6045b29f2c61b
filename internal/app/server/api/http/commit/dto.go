package commit

type commitInput struct {
	Body CommitRequest
}

type CommitRequest struct {
	MeetingDate string `json:"meetingDate" pattern:"^[0-9]{4}-[0-9]{2}-[0-9]{2}$" doc:"Дата собрания, к которой относятся отчеты (YYYY-MM-DD)"`
}

// ProgressEvent - событие progress в SSE-потоке, по одному на элемент
// корзины, успешный или нет.
type ProgressEvent struct {
	Index       int    `json:"index"`
	Total       int    `json:"total"`
	RecordID    string `json:"record_id,omitempty"`
	UploadError string `json:"upload_error,omitempty"`
}

// DoneEvent - завершающее событие done, ровно одно на фиксацию.
type DoneEvent struct {
	Status      string `json:"status" doc:"success, fatal_stop либо error"`
	Total       int    `json:"total"`
	Appended    int    `json:"appended"`
	FailedIndex int    `json:"failed_index,omitempty"`
	RateLimited bool   `json:"rate_limited,omitempty"`
	Message     string `json:"message,omitempty"`
}
