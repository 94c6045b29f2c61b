package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"meetboard/internal/upload"
)

// Uploader кладет вложения напрямую в папку Google Drive и отдает
// ссылку просмотра. Имя файла получает временной штамп, чтобы
// одинаковые имена из разных отчетов не склеивались.
type Uploader struct {
	svc      *gdrive.Service
	folderID string
	log      *slog.Logger
	now      func() time.Time
}

var _ upload.Uploader = (*Uploader)(nil)

func NewUploader(ctx context.Context, credentialsFile, folderID string, log *slog.Logger) (*Uploader, error) {
	svc, err := gdrive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gdrive.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("инициализация клиента Drive: %w", err)
	}
	return &Uploader{
		svc:      svc,
		folderID: folderID,
		log:      log.With("component", "drive"),
		now:      time.Now,
	}, nil
}

func (u *Uploader) Upload(ctx context.Context, data []byte, filename, mimeType string) (string, error) {
	meta := &gdrive.File{Name: stampName(u.now(), filename)}
	if u.folderID != "" {
		meta.Parents = []string{u.folderID}
	}

	created, err := u.svc.Files.Create(meta).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Fields("id", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return "", driveError(err)
	}

	// Открываем файл на чтение всем, у кого есть ссылка. Шаг
	// негарантированный: его отказ загрузку не отменяет.
	_, err = u.svc.Permissions.Create(created.Id, &gdrive.Permission{
		Role: "reader",
		Type: "anyone",
	}).Context(ctx).Do()
	if err != nil {
		u.log.Warn("не удалось открыть доступ по ссылке", "file_id", created.Id, "error", err)
	}

	return created.WebViewLink, nil
}

func stampName(now time.Time, filename string) string {
	return now.Format("20060102_150405") + "_" + filename
}

func driveError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fmt.Sprintf("Drive ответил статусом %d", apiErr.Code)
		}
		if apiErr.Code >= 500 {
			return upload.NewError(upload.KindTransport, msg, err)
		}
		return upload.NewError(upload.KindApplication, msg, err)
	}
	return upload.NewError(upload.KindTransport, "запрос к Drive", err)
}
