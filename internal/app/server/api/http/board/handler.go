package board

import (
	"context"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"

	"meetboard/internal/domain/board"
)

// Invalidator сбрасывает кеш чтения по запросу пользователя.
type Invalidator interface {
	Invalidate()
}

type Handler struct {
	board      *board.Service
	cache      Invalidator
	log        *slog.Logger
	public     huma.Middlewares
	authorized huma.Middlewares
}

func NewHandler(svc *board.Service, cache Invalidator, log *slog.Logger, public, authorized huma.Middlewares) *Handler {
	return &Handler{
		board:      svc,
		cache:      cache,
		log:        log,
		public:     public,
		authorized: authorized,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.datesOp(), h.dates)
	huma.Register(api, h.forDateOp(), h.forDate)
	huma.Register(api, h.refreshOp(), h.refresh)
}

func (h *Handler) dates(ctx context.Context, _ *datesInput) (*datesOutput, error) {
	dates, err := h.board.Dates(ctx)
	if err != nil {
		h.log.Error("журнал отчетов недоступен", "error", err)
		return nil, huma.Error502BadGateway("журнал отчетов недоступен, попробуйте позже")
	}
	return &datesOutput{
		Body: DatesResponse{Dates: dates, Status: "Ok"},
	}, nil
}

func (h *Handler) forDate(ctx context.Context, input *forDateInput) (*forDateOutput, error) {
	departments, err := h.board.ForDate(ctx, input.Date)
	if err != nil {
		h.log.Error("журнал отчетов недоступен", "error", err)
		return nil, huma.Error502BadGateway("журнал отчетов недоступен, попробуйте позже")
	}
	return &forDateOutput{
		Body: ForDateResponse{Date: input.Date, Departments: toDepartments(departments), Status: "Ok"},
	}, nil
}

// refresh сбрасывает снимок вручную. Ручное обновление - сознательная
// замена stale-while-revalidate: данных мало, кнопка всегда под рукой.
func (h *Handler) refresh(ctx context.Context, _ *refreshInput) (*refreshOutput, error) {
	h.cache.Invalidate()
	return &refreshOutput{
		Body: RefreshResponse{Status: "Ok"},
	}, nil
}
