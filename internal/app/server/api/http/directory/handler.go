package directory

import (
	"context"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"

	"meetboard/internal/domain/directory"
)

// Handler отдает форму входа: какие отделы есть и какие у них группы.
// Секреты справочника наружу не выходят.
type Handler struct {
	directory  *directory.Service
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(dir *directory.Service, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		directory:  dir,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
}

func (h *Handler) list(ctx context.Context, _ *listInput) (*listOutput, error) {
	departments, err := h.directory.Departments(ctx)
	if err != nil {
		h.log.Error("справочник недоступен", "error", err)
		return nil, huma.Error502BadGateway("справочник недоступен, попробуйте позже")
	}

	out := make([]DepartmentGroups, 0, len(departments))
	for _, dep := range departments {
		groups, err := h.directory.Groups(ctx, dep)
		if err != nil {
			return nil, huma.Error502BadGateway("справочник недоступен, попробуйте позже")
		}
		out = append(out, DepartmentGroups{Department: dep, Groups: groups})
	}

	return &listOutput{
		Body: ListResponse{Departments: out, Status: "Ok"},
	}, nil
}
