package board

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) datesOp() huma.Operation {
	return huma.Operation{
		OperationID: "board-dates",
		Method:      http.MethodGet,
		Path:        "/api/board/dates",
		Summary:     "Даты собраний, свежие сверху",
		Tags:        []string{"board"},
		Middlewares: h.public,
	}
}

func (h *Handler) forDateOp() huma.Operation {
	return huma.Operation{
		OperationID: "board-for-date",
		Method:      http.MethodGet,
		Path:        "/api/board/{date}",
		Summary:     "Отчеты одной даты, сгруппированные по отделам",
		Tags:        []string{"board"},
		Middlewares: h.public,
	}
}

func (h *Handler) refreshOp() huma.Operation {
	return huma.Operation{
		OperationID: "board-refresh",
		Method:      http.MethodPost,
		Path:        "/api/board/refresh",
		Summary:     "Принудительно сбросить кеш чтения",
		Tags:        []string{"board"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.authorized,
	}
}
