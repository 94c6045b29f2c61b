package directory

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "directory-list",
		Method:      http.MethodGet,
		Path:        "/api/directory",
		Summary:     "Отделы и группы для формы входа",
		Tags:        []string{"directory"},
		Middlewares: h.middleware,
	}
}
