package commit

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"meetboard/internal/app/server/api/http/middleware/auth"
	"meetboard/internal/domain/commit"
)

// Handler стримит ход фиксации по SSE: событие progress после каждого
// элемента корзины и одно завершающее done. Поток и есть ответ -
// вызывающий видит i/N вживую, а не итог пачкой.
type Handler struct {
	commit     *commit.Service
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(svc *commit.Service, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		commit:     svc,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	sse.Register(api, h.commitOp(), map[string]any{
		"progress": ProgressEvent{},
		"done":     DoneEvent{},
	}, h.run)
}

func (h *Handler) run(ctx context.Context, input *commitInput, send sse.Sender) {
	sess, ok := auth.GetSession(ctx)
	if !ok {
		_ = send.Data(DoneEvent{Status: "error", Message: "Unauthorized"})
		return
	}

	res, err := h.commit.Commit(ctx, sess, input.Body.MeetingDate, func(p commit.Progress) {
		if sendErr := send.Data(ProgressEvent{
			Index:       p.Index,
			Total:       p.Total,
			RecordID:    p.RecordID,
			UploadError: p.UploadError,
		}); sendErr != nil {
			h.log.Warn("событие прогресса не доставлено", "error", sendErr)
		}
	})
	if err != nil {
		msg := "не удалось начать фиксацию"
		switch {
		case errors.Is(err, commit.ErrBusy):
			msg = "фиксация этой сессии уже идет"
		case errors.Is(err, commit.ErrInvalidMeetingDate):
			msg = commit.ErrInvalidMeetingDate.Error()
		}
		_ = send.Data(DoneEvent{Status: "error", Message: msg})
		return
	}

	done := DoneEvent{
		Status:      string(res.Status),
		Total:       res.Total,
		Appended:    res.Appended,
		FailedIndex: res.FailedIndex,
		RateLimited: res.RateLimited,
	}
	if res.Err != nil {
		done.Message = res.Err.Error()
	}
	if err := send.Data(done); err != nil {
		h.log.Warn("завершающее событие не доставлено", "error", err)
	}
}
