package client

// Зеркала тел запросов и ответов серверного API. Держатся отдельно от
// доменных типов сервера: клиенту важен только провод.

type loginRequest struct {
	Department string `json:"department"`
	Group      string `json:"group"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	Status string `json:"status"`
}

// DepartmentGroups - отдел и его группы из справочника.
type DepartmentGroups struct {
	Department string   `json:"department"`
	Groups     []string `json:"groups"`
}

type directoryResponse struct {
	Departments []DepartmentGroups `json:"departments"`
	Status      string             `json:"status"`
}

type datesResponse struct {
	Dates  []string `json:"dates"`
	Status string   `json:"status"`
}

// BoardRecord - один отчет доски.
type BoardRecord struct {
	ID            string `json:"id"`
	SubmittedAt   string `json:"submitted_at"`
	Group         string `json:"group"`
	Content       string `json:"content"`
	AttachmentURL string `json:"attachment_url,omitempty"`
	ThumbnailURL  string `json:"thumbnail_url,omitempty"`
}

// BoardDepartment - отчеты одного отдела на дату.
type BoardDepartment struct {
	Department string        `json:"department"`
	Records    []BoardRecord `json:"records"`
}

type boardResponse struct {
	Date        string            `json:"date"`
	Departments []BoardDepartment `json:"departments"`
	Status      string            `json:"status"`
}

type stageRequest struct {
	Content    string           `json:"content"`
	Attachment *stageAttachment `json:"attachment,omitempty"`
}

type stageAttachment struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

type stageResponse struct {
	Items  int    `json:"items"`
	Status string `json:"status"`
}

// CartItem - сводка элемента корзины с сервера.
type CartItem struct {
	Content  string `json:"content"`
	Filename string `json:"filename,omitempty"`
	Size     int    `json:"size,omitempty"`
}

type cartListResponse struct {
	Items  []CartItem `json:"items"`
	Status string     `json:"status"`
}

type commitRequest struct {
	MeetingDate string `json:"meetingDate"`
}

// CommitProgress - событие progress из SSE-потока фиксации.
type CommitProgress struct {
	Index       int    `json:"index"`
	Total       int    `json:"total"`
	RecordID    string `json:"record_id,omitempty"`
	UploadError string `json:"upload_error,omitempty"`
}

// CommitDone - завершающее событие фиксации.
type CommitDone struct {
	Status      string `json:"status"`
	Total       int    `json:"total"`
	Appended    int    `json:"appended"`
	FailedIndex int    `json:"failed_index,omitempty"`
	RateLimited bool   `json:"rate_limited,omitempty"`
	Message     string `json:"message,omitempty"`
}
