package cart

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"

	"meetboard/internal/app/server/api/http/middleware/auth"
	"meetboard/internal/domain/cart"
)

type Handler struct {
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.stageOp(), h.stage)
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.discardOp(), h.discard)
}

// stage кладет отчет в корзину сессии. Ошибки валидации - локальное
// дело формы: 422 с текстом, никакого системного сбоя.
func (h *Handler) stage(ctx context.Context, input *stageInput) (*stageOutput, error) {
	sess, ok := auth.GetSession(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var att *cart.Attachment
	if input.Body.Attachment != nil {
		att = &cart.Attachment{
			Filename: input.Body.Attachment.Filename,
			MimeType: input.Body.Attachment.MimeType,
			Data:     input.Body.Attachment.Data,
		}
	}

	if err := sess.Cart.Stage(input.Body.Content, att); err != nil {
		if errors.Is(err, cart.ErrEmptyContent) || errors.Is(err, cart.ErrAttachmentTooLarge) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		h.log.Error("добавление в корзину не удалось", "error", err)
		return nil, huma.Error500InternalServerError("не удалось добавить отчет")
	}

	return &stageOutput{
		Body: StageResponse{Items: sess.Cart.Len(), Status: "Ok"},
	}, nil
}

func (h *Handler) list(ctx context.Context, _ *listInput) (*listOutput, error) {
	sess, ok := auth.GetSession(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	items := sess.Cart.Items()
	summaries := make([]ItemSummary, 0, len(items))
	for _, item := range items {
		summary := ItemSummary{Content: item.Content}
		if item.Attachment != nil {
			summary.Filename = item.Attachment.Filename
			summary.Size = len(item.Attachment.Data)
		}
		summaries = append(summaries, summary)
	}

	return &listOutput{
		Body: ListResponse{Items: summaries, Status: "Ok"},
	}, nil
}

func (h *Handler) discard(ctx context.Context, _ *discardInput) (*discardOutput, error) {
	sess, ok := auth.GetSession(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	sess.Cart.DiscardAll()
	return &discardOutput{
		Body: DiscardResponse{Status: "Ok"},
	}, nil
}
