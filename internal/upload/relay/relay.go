package relay

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"meetboard/internal/upload"
)

// Релей считает загрузку успешной только с этим значением status.
const statusSuccess = "success"

const defaultTimeout = 30 * time.Second

// Client шлет вложение промежуточному HTTP-релею и получает обратно
// публичный URL. Протокол: POST JSON {file(base64), filename, mimeType},
// ответ {status, url} либо {status, message}.
type Client struct {
	endpoint string
	http     *http.Client
	log      *slog.Logger
}

var _ upload.Uploader = (*Client)(nil)

func NewClient(endpoint string, timeout time.Duration, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		log:      log.With("component", "relay"),
	}
}

type uploadRequest struct {
	File     string `json:"file"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
}

type uploadResponse struct {
	Status  string `json:"status"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
}

// Upload выполняет ровно одну попытку. Классы ошибок не смешиваются:
// не-2xx и сетевые сбои - transport, неразборчивое тело -
// malformedResponse, осмысленный отказ релея - applicationError.
func (c *Client) Upload(ctx context.Context, data []byte, filename, mimeType string) (string, error) {
	correlationID := uuid.NewString()

	payload, err := json.Marshal(uploadRequest{
		File:     base64.StdEncoding.EncodeToString(data),
		Filename: filename,
		MimeType: mimeType,
	})
	if err != nil {
		return "", upload.NewError(upload.KindTransport, "кодирование запроса", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", upload.NewError(upload.KindTransport, "сборка запроса", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Correlation-Id", correlationID)

	c.log.Debug("загрузка вложения через релей",
		"filename", filename,
		"size", len(data),
		"correlation_id", correlationID)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", upload.NewError(upload.KindTransport, "запрос к релею", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", upload.NewError(upload.KindTransport, "чтение ответа релея", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", upload.NewError(upload.KindTransport,
			fmt.Sprintf("релей ответил статусом %d", resp.StatusCode), nil)
	}

	var parsed uploadResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", upload.NewError(upload.KindMalformedResponse, "тело ответа не разбирается как JSON", err)
	}
	if parsed.Status == "" {
		return "", upload.NewError(upload.KindMalformedResponse, "в ответе релея нет поля status", nil)
	}
	if parsed.Status != statusSuccess {
		return "", upload.NewError(upload.KindApplication, parsed.Message, nil)
	}
	if parsed.URL == "" {
		return "", upload.NewError(upload.KindMalformedResponse, "успешный ответ без url", nil)
	}

	c.log.Debug("вложение загружено", "url", parsed.URL, "correlation_id", correlationID)
	return parsed.URL, nil
}
