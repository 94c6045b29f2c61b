package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"meetboard/internal/domain/session"
)

// Sessions проверяет токен и отдает живую сессию.
type Sessions interface {
	Validate(token string) (*session.Session, error)
}

type Auth struct {
	sessions Sessions
	log      *slog.Logger
}

func New(sessions Sessions, log *slog.Logger) *Auth {
	return &Auth{
		sessions: sessions,
		log:      log.With("component", "auth_middleware"),
	}
}

type contextKey string

const (
	sessionKey contextKey = "session"
	tokenKey   contextKey = "token"
)

// Middleware проверяет Bearer-токен и кладет сессию в контекст запроса.
// Без валидной сессии запрос дальше не проходит.
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			a.log.Debug("запрос без Bearer-токена", "path", ctx.URL().Path)
			a.reject(ctx)
			return
		}

		sess, err := a.sessions.Validate(token)
		if err != nil {
			a.log.Debug("токен не прошел проверку", "error", err)
			a.reject(ctx)
			return
		}

		newCtx := context.WithValue(ctx.Context(), sessionKey, sess)
		newCtx = context.WithValue(newCtx, tokenKey, token)

		next(huma.WithContext(ctx, newCtx))
	}
}

func (a *Auth) reject(ctx huma.Context) {
	ctx.SetStatus(http.StatusUnauthorized)
	ctx.SetHeader("Content-Type", "application/json")

	if err := json.NewEncoder(ctx.BodyWriter()).Encode(map[string]string{
		"error": "Unauthorized",
	}); err != nil {
		a.log.Error("не удалось записать ответ 401", "error", err)
	}
}

// WithSession кладет сессию в контекст так же, как это делает
// Middleware. Нужен обработчикам в тестах, где мидлварь не запускается.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// WithToken кладет токен в контекст так же, как это делает Middleware.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// GetSession достает сессию запроса, положенную мидлварью.
func GetSession(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*session.Session)
	return sess, ok
}

// GetToken достает исходный токен запроса. Нужен обработчику выхода:
// сессию уничтожают по токену, а не по самой структуре.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}
