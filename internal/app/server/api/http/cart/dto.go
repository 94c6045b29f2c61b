package cart

type stageInput struct {
	Body StageRequest
}

type StageRequest struct {
	Content    string             `json:"content" doc:"Текст отчета"`
	Attachment *AttachmentRequest `json:"attachment,omitempty" required:"false"`
}

// AttachmentRequest - вложение в сыром виде. Data едет base64-строкой,
// стандартная сериализация []byte в JSON.
type AttachmentRequest struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

type stageOutput struct {
	Body StageResponse
}

type StageResponse struct {
	Items  int    `json:"items" doc:"Число отчетов в корзине после добавления"`
	Status string `json:"status"`
}

type listInput struct{}

type listOutput struct {
	Body ListResponse
}

// ItemSummary - сводка элемента корзины для отображения. Сами байты
// вложения наружу не отдаются.
type ItemSummary struct {
	Content  string `json:"content"`
	Filename string `json:"filename,omitempty"`
	Size     int    `json:"size,omitempty"`
}

type ListResponse struct {
	Items  []ItemSummary `json:"items"`
	Status string        `json:"status"`
}

type discardInput struct{}

type discardOutput struct {
	Body DiscardResponse
}

type DiscardResponse struct {
	Status string `json:"status"`
}
