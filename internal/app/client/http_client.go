package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"meetboard/internal/app/client/config"
)

type httpClient struct {
	client    *http.Client
	config    *config.Config
	log       *slog.Logger
	baseURL   string
	token     string
	userAgent string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) (*httpClient, error) {
	client := &http.Client{
		Timeout: cfg.RequestTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	scheme := "http://"
	if cfg.EnableTLS {
		scheme = "https://"
	}

	return &httpClient{
		client:    client,
		config:    cfg,
		log:       log,
		baseURL:   scheme + cfg.ServerAddress,
		userAgent: "Meetboard-Client/1.0",
	}, nil
}

// SetToken устанавливает токен аутентификации
func (h *httpClient) SetToken(token string) {
	h.token = token
}

// HealthCheck проверяет доступность сервера
func (h *httpClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("сервер недоступен: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("сервер вернул статус: %d", resp.StatusCode)
	}
	return nil
}

func (h *httpClient) Login(ctx context.Context, department, group, password string) (string, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/auth/login", loginRequest{
		Department: department,
		Group:      group,
		Password:   password,
	})
	if err != nil {
		return "", err
	}

	var parsed loginResponse
	if err := h.parseResponse(resp, &parsed); err != nil {
		return "", err
	}

	h.SetToken(parsed.Token)
	return parsed.Token, nil
}

func (h *httpClient) Logout(ctx context.Context) error {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/auth/logout", nil)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

func (h *httpClient) Directory(ctx context.Context) ([]DepartmentGroups, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/directory", nil)
	if err != nil {
		return nil, err
	}

	var parsed directoryResponse
	if err := h.parseResponse(resp, &parsed); err != nil {
		return nil, err
	}
	return parsed.Departments, nil
}

func (h *httpClient) BoardDates(ctx context.Context) ([]string, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/board/dates", nil)
	if err != nil {
		return nil, err
	}

	var parsed datesResponse
	if err := h.parseResponse(resp, &parsed); err != nil {
		return nil, err
	}
	return parsed.Dates, nil
}

func (h *httpClient) Board(ctx context.Context, date string) ([]BoardDepartment, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/board/"+date, nil)
	if err != nil {
		return nil, err
	}

	var parsed boardResponse
	if err := h.parseResponse(resp, &parsed); err != nil {
		return nil, err
	}
	return parsed.Departments, nil
}

func (h *httpClient) RefreshBoard(ctx context.Context) error {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/board/refresh", nil)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

func (h *httpClient) Stage(ctx context.Context, content string, att *stageAttachment) (int, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/cart", stageRequest{
		Content:    content,
		Attachment: att,
	})
	if err != nil {
		return 0, err
	}

	var parsed stageResponse
	if err := h.parseResponse(resp, &parsed); err != nil {
		return 0, err
	}
	return parsed.Items, nil
}

func (h *httpClient) CartList(ctx context.Context) ([]CartItem, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/cart", nil)
	if err != nil {
		return nil, err
	}

	var parsed cartListResponse
	if err := h.parseResponse(resp, &parsed); err != nil {
		return nil, err
	}
	return parsed.Items, nil
}

func (h *httpClient) CartDiscard(ctx context.Context) error {
	resp, err := h.doRequest(ctx, http.MethodDelete, "/api/cart", nil)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

// Commit запускает фиксацию и читает SSE-поток до завершающего done.
// onProgress вызывается на каждое событие progress по мере прихода.
// Таймаут обычных запросов здесь не действует: пакет может идти долго,
// поток живет, пока сервер шлет события.
func (h *httpClient) Commit(ctx context.Context, meetingDate string, onProgress func(CommitProgress)) (*CommitDone, error) {
	payload, err := json.Marshal(commitRequest{MeetingDate: meetingDate})
	if err != nil {
		return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/api/commit", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("User-Agent", h.userAgent)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	streamClient := &http.Client{Transport: h.client.Transport}
	resp, err := streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ошибка сервера: статус %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return h.readCommitStream(resp.Body, onProgress)
}

// readCommitStream разбирает text/event-stream: накапливает строки
// event/data до пустой строки-разделителя и разводит события по типам.
func (h *httpClient) readCommitStream(body io.Reader, onProgress func(CommitProgress)) (*CommitDone, error) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	event := ""
	var data strings.Builder

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		case line == "":
			if data.Len() == 0 {
				continue
			}
			payload := data.String()
			data.Reset()

			switch event {
			case "progress":
				var p CommitProgress
				if err := json.Unmarshal([]byte(payload), &p); err != nil {
					h.log.Warn("событие прогресса не разобралось", "error", err)
					continue
				}
				if onProgress != nil {
					onProgress(p)
				}
			case "done":
				var done CommitDone
				if err := json.Unmarshal([]byte(payload), &done); err != nil {
					return nil, fmt.Errorf("ошибка парсинга завершающего события: %w", err)
				}
				return &done, nil
			}
			event = ""
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения потока: %w", err)
	}
	return nil, fmt.Errorf("поток фиксации оборвался без завершающего события")
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.log.Debug("Отправка запроса",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	h.log.Debug("Получен ответ",
		"status", resp.StatusCode,
		"body", string(body),
	)

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil {
			if errResp.Detail != "" {
				return fmt.Errorf("ошибка сервера: %s", errResp.Detail)
			}
			if errResp.Error != "" {
				return fmt.Errorf("ошибка сервера: %s", errResp.Error)
			}
		}
		return fmt.Errorf("ошибка сервера: статус %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}

	return nil
}
