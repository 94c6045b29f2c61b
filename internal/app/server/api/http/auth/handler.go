package auth

import (
	"context"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"

	"meetboard/internal/app/server/api/http/middleware/auth"
	"meetboard/internal/domain/directory"
)

// Sessions выпускает и уничтожает сессии по результату входа.
type Sessions interface {
	Create(department, group string) (string, error)
	Logout(token string)
}

type Handler struct {
	directory  *directory.Service
	sessions   Sessions
	log        *slog.Logger
	public     huma.Middlewares
	authorized huma.Middlewares
}

func NewHandler(dir *directory.Service, sessions Sessions, log *slog.Logger, public, authorized huma.Middlewares) *Handler {
	return &Handler{
		directory:  dir,
		sessions:   sessions,
		log:        log,
		public:     public,
		authorized: authorized,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.loginOp(), h.login)
	huma.Register(api, h.logoutOp(), h.logout)
}

// login пускает только при точном совпадении трех полей со строкой
// справочника. Неудача не уточняется: снаружи не видно, что именно
// не совпало.
func (h *Handler) login(ctx context.Context, input *loginInput) (*loginOutput, error) {
	ok, err := h.directory.Authenticate(ctx, input.Body.Department, input.Body.Group, input.Body.Password)
	if err != nil {
		h.log.Error("проверка входа не удалась", "error", err)
		return nil, huma.Error502BadGateway("справочник недоступен, попробуйте позже")
	}
	if !ok {
		return nil, huma.Error401Unauthorized("неверные отдел, группа или пароль")
	}

	token, err := h.sessions.Create(input.Body.Department, input.Body.Group)
	if err != nil {
		h.log.Error("не удалось открыть сессию", "error", err)
		return nil, huma.Error500InternalServerError("не удалось открыть сессию")
	}

	return &loginOutput{
		Body: LoginResponse{Token: token, Status: "Ok"},
	}, nil
}

func (h *Handler) logout(ctx context.Context, _ *logoutInput) (*logoutOutput, error) {
	if token, ok := auth.GetToken(ctx); ok {
		h.sessions.Logout(token)
	}
	return &logoutOutput{
		Body: LogoutResponse{Status: "Ok"},
	}, nil
}
