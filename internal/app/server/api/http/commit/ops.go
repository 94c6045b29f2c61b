package commit

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) commitOp() huma.Operation {
	return huma.Operation{
		OperationID: "commit-run",
		Method:      http.MethodPost,
		Path:        "/api/commit",
		Summary:     "Зафиксировать корзину пакетом",
		Description: "Обрабатывает корзину строго по порядку и стримит прогресс. " +
			"При фатальном стопе корзина сохраняется: повторная фиксация добавит " +
			"уже записанные отчеты еще раз.",
		Tags:        []string{"commit"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
