package cart

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) stageOp() huma.Operation {
	return huma.Operation{
		OperationID: "cart-stage",
		Method:      http.MethodPost,
		Path:        "/api/cart",
		Summary:     "Добавить отчет в корзину",
		Tags:        []string{"cart"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "cart-list",
		Method:      http.MethodGet,
		Path:        "/api/cart",
		Summary:     "Несданные отчеты текущей сессии",
		Tags:        []string{"cart"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) discardOp() huma.Operation {
	return huma.Operation{
		OperationID: "cart-discard",
		Method:      http.MethodDelete,
		Path:        "/api/cart",
		Summary:     "Выбросить корзину целиком",
		Tags:        []string{"cart"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
