package relay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetboard/internal/upload"
)

func kindOf(t *testing.T, err error) upload.Kind {
	t.Helper()
	require.Error(t, err)
	return upload.KindOf(err)
}

func TestUpload_Success(t *testing.T) {
	payload := []byte("0123456789")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Correlation-Id"))

		var req struct {
			File     string `json:"file"`
			Filename string `json:"filename"`
			MimeType string `json:"mimeType"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		// Байты уходят ровно в том base64, который им положен.
		assert.Equal(t, base64.StdEncoding.EncodeToString(payload), req.File)
		assert.Equal(t, "plan.pdf", req.Filename)
		assert.Equal(t, "application/pdf", req.MimeType)

		json.NewEncoder(w).Encode(map[string]string{
			"status": "success",
			"url":    "https://files.example.com/plan.pdf",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, slog.Default())
	url, err := client.Upload(context.Background(), payload, "plan.pdf", "application/pdf")

	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/plan.pdf", url)
}

func TestUpload_ApplicationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "error",
			"message": "file too large",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, slog.Default())
	_, err := client.Upload(context.Background(), []byte("x"), "big.bin", "application/octet-stream")

	assert.Equal(t, upload.KindApplication, kindOf(t, err))
	var ue *upload.Error
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "file too large", ue.Message)
}

func TestUpload_MalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "не JSON", body: "<html>gateway error</html>"},
		{name: "JSON без status", body: `{"ok": true}`},
		{name: "успех без url", body: `{"status": "success"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, time.Second, slog.Default())
			_, err := client.Upload(context.Background(), []byte("x"), "a.txt", "text/plain")

			assert.Equal(t, upload.KindMalformedResponse, kindOf(t, err))
		})
	}
}

func TestUpload_TransportError(t *testing.T) {
	t.Run("не-2xx статус", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, time.Second, slog.Default())
		_, err := client.Upload(context.Background(), []byte("x"), "a.txt", "text/plain")

		assert.Equal(t, upload.KindTransport, kindOf(t, err))
	})

	t.Run("сервер недоступен", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		client := NewClient(srv.URL, time.Second, slog.Default())
		_, err := client.Upload(context.Background(), []byte("x"), "a.txt", "text/plain")

		assert.Equal(t, upload.KindTransport, kindOf(t, err))
	})
}

func TestUpload_EmptyPayloadStillEncodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			File string `json:"file"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "", req.File)
		json.NewEncoder(w).Encode(map[string]string{"status": "success", "url": "https://files.example.com/empty"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, slog.Default())
	url, err := client.Upload(context.Background(), nil, "empty.txt", "text/plain")

	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/empty", url)
}
