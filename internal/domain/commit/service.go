package commit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"meetboard/internal/domain/record"
	"meetboard/internal/domain/session"
	"meetboard/internal/infrastructure/storage"
	"meetboard/internal/upload"
)

// Status - исход пакетной фиксации.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusFatalStop Status = "fatal_stop"
)

// ErrBusy - у этой сессии фиксация уже идет.
var ErrBusy = errors.New("фиксация уже выполняется")

// ErrInvalidMeetingDate - дата собрания не в формате YYYY-MM-DD.
// Произвольная строка в колонке meetingDate сломала бы порядок дат
// на доске, поэтому пакет с такой датой даже не стартует.
var ErrInvalidMeetingDate = errors.New("дата собрания должна быть в формате YYYY-MM-DD")

// Progress - событие после каждого обработанного элемента корзины.
// Поток событий позволяет вызывающему рисовать живой прогресс i/N,
// не дожидаясь конца пакета.
type Progress struct {
	Index       int    `json:"index"`
	Total       int    `json:"total"`
	RecordID    string `json:"record_id,omitempty"`
	UploadError string `json:"upload_error,omitempty"`
}

// UploadFailure - вложение, не добравшееся до файлового хранилища.
// Сам отчет при этом фиксируется с пустой ссылкой.
type UploadFailure struct {
	Index    int
	Filename string
	Kind     upload.Kind
	Err      error
}

// Result - итог одной фиксации.
type Result struct {
	Status      Status
	Total       int
	Appended    int
	FailedIndex int
	RateLimited bool
	Uploads     []UploadFailure
	StartedAt   time.Time
	FinishedAt  time.Time
	Err         error
}

func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Invalidator сбрасывает кеш чтения после успешных записей.
type Invalidator interface {
	Invalidate()
}

// Service превращает корзину сессии в записи внешнего хранилища.
//
// Семантика - as-built at-least-once: при фатальном стопе на элементе
// k корзина не очищается, хотя записи 1..k-1 уже добавлены; повторная
// фиксация добавит их снова. Дубли видимы и не скрываются - потерять
// отчет хуже, чем задвоить.
type Service struct {
	store    storage.Store
	uploader upload.Uploader
	cache    Invalidator
	log      *slog.Logger
	now      func() time.Time
}

func NewService(store storage.Store, uploader upload.Uploader, cache Invalidator, log *slog.Logger) *Service {
	return &Service{
		store:    store,
		uploader: uploader,
		cache:    cache,
		log:      log.With("component", "commit"),
		now:      time.Now,
	}
}

// Commit обрабатывает корзину строго по порядку, по одному элементу:
// загрузка вложения (ошибка не валит пакет - отчет уходит без ссылки),
// сборка записи, добавление строки. Ошибка добавления - фатальный
// стоп: остаток корзины не обрабатывается. Отмена контекста действует
// только на границе элементов.
//
// Ошибка возвращается только когда пакет не стартовал (ErrBusy,
// ErrInvalidMeetingDate). Исход самой фиксации, включая фатальный,
// описывает Result.
func (s *Service) Commit(ctx context.Context, sess *session.Session, meetingDate string, onProgress func(Progress)) (*Result, error) {
	if _, err := time.Parse(record.DateLayout, meetingDate); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMeetingDate, meetingDate)
	}
	if !sess.TryBeginCommit() {
		return nil, ErrBusy
	}
	defer sess.EndCommit()

	items := sess.Cart.Items()
	res := &Result{
		Total:     len(items),
		StartedAt: s.now(),
	}

	log := s.log.With(
		"department", sess.Department,
		"group", sess.Group,
		"meeting_date", meetingDate,
		"total", res.Total)
	log.Info("старт фиксации")

	for i, item := range items {
		idx := i + 1

		if err := ctx.Err(); err != nil {
			res.Status = StatusFatalStop
			res.FailedIndex = idx
			res.Err = fmt.Errorf("фиксация прервана: %w", err)
			break
		}

		attachmentURL := ""
		var uploadErr error
		if item.Attachment != nil {
			attachmentURL, uploadErr = s.uploader.Upload(ctx,
				item.Attachment.Data, item.Attachment.Filename, item.Attachment.MimeType)
			if uploadErr != nil {
				attachmentURL = ""
				res.Uploads = append(res.Uploads, UploadFailure{
					Index:    idx,
					Filename: item.Attachment.Filename,
					Kind:     upload.KindOf(uploadErr),
					Err:      uploadErr,
				})
				log.Warn("вложение не загрузилось, отчет пойдет без ссылки",
					"item", idx, "error", uploadErr)
			}
		}

		rec := record.Record{
			ID:            record.NewID(),
			SubmittedAt:   record.FormatSubmittedAt(s.now()),
			MeetingDate:   meetingDate,
			Department:    sess.Department,
			Group:         sess.Group,
			Content:       item.Content,
			AttachmentURL: attachmentURL,
		}

		if err := s.store.AppendRow(ctx, storage.TableRecords, rec.ToRow()); err != nil {
			res.Status = StatusFatalStop
			res.FailedIndex = idx
			res.RateLimited = errors.Is(err, storage.ErrRateLimited)
			res.Err = fmt.Errorf("добавление записи %d из %d: %w", idx, res.Total, err)
			emit(onProgress, Progress{Index: idx, Total: res.Total, UploadError: errText(uploadErr)})
			break
		}

		res.Appended++
		emit(onProgress, Progress{
			Index:       idx,
			Total:       res.Total,
			RecordID:    rec.ID,
			UploadError: errText(uploadErr),
		})
	}

	res.FinishedAt = s.now()

	// Сброс кеша строго после успешных записей: пишущая сессия обязана
	// увидеть свои строки следующим же чтением.
	if res.Appended > 0 {
		s.cache.Invalidate()
	}

	if res.Err != nil {
		log.Error("фиксация остановлена",
			"appended", res.Appended,
			"failed_item", res.FailedIndex,
			"rate_limited", res.RateLimited,
			"error", res.Err)
		return res, nil
	}

	res.Status = StatusSuccess
	sess.Cart.DiscardAll()
	log.Info("фиксация завершена",
		"appended", res.Appended,
		"upload_failures", len(res.Uploads),
		"duration", res.Duration())
	return res, nil
}

func emit(onProgress func(Progress), p Progress) {
	if onProgress != nil {
		onProgress(p)
	}
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
