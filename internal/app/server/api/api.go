//вход по справочнику отделов и групп;
//корзина несданных отчетов на сессию;
//пакетная фиксация корзины в журнал с прогрессом по SSE;
//доска отчетов поверх кешированного снимка журнала.

//GET    /api/health       # Живость сервиса (публичный)
//GET    /api/directory    # Отделы и группы для формы входа (публичный)
//POST   /api/auth/login   # Вход (публичный)
//POST   /api/auth/logout  # Выход (auth)
//GET    /api/board/dates  # Даты собраний (публичный)
//GET    /api/board/{date} # Отчеты даты по отделам (публичный)
//POST   /api/board/refresh # Сброс кеша чтения (auth)
//POST   /api/cart         # Добавить отчет в корзину (auth)
//GET    /api/cart         # Содержимое корзины (auth)
//DELETE /api/cart         # Выбросить корзину (auth)
//POST   /api/commit       # Фиксация корзины, SSE-прогресс (auth)

package api

import (
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"meetboard/internal/app/server/api/http/middleware"
	authMW "meetboard/internal/app/server/api/http/middleware/auth"
	loggerMW "meetboard/internal/app/server/api/http/middleware/logger"

	authAPI "meetboard/internal/app/server/api/http/auth"
	boardAPI "meetboard/internal/app/server/api/http/board"
	cartAPI "meetboard/internal/app/server/api/http/cart"
	commitAPI "meetboard/internal/app/server/api/http/commit"
	directoryAPI "meetboard/internal/app/server/api/http/directory"
	healthAPI "meetboard/internal/app/server/api/http/health"

	"meetboard/internal/app/server/config"
	"meetboard/internal/domain/board"
	"meetboard/internal/domain/commit"
	"meetboard/internal/domain/directory"
	"meetboard/internal/domain/session"
	"meetboard/internal/domain/snapshot"
	"meetboard/internal/infrastructure/storage"
	"meetboard/internal/upload"
)

type Handlers struct {
	Health    *healthAPI.Handler
	Directory *directoryAPI.Handler
	Auth      *authAPI.Handler
	Board     *boardAPI.Handler
	Cart      *cartAPI.Handler
	Commit    *commitAPI.Handler
}

// New создает *chi.Mux со ВСЕМИ операциями через huma.Register
func New(store storage.Store, uploader upload.Uploader, cfg *config.Config, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	humaConfig := huma.DefaultConfig("Meetboard API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, humaConfig)

	h := handlers(store, uploader, cfg, log)
	h.Health.SetupRoutes(API)
	h.Directory.SetupRoutes(API)
	h.Auth.SetupRoutes(API)
	h.Board.SetupRoutes(API)
	h.Cart.SetupRoutes(API)
	h.Commit.SetupRoutes(API)

	return mux
}

func handlers(store storage.Store, uploader upload.Uploader, cfg *config.Config, log *slog.Logger) *Handlers {
	cache := snapshot.NewCache(store, cfg.Cache.TTL, log)
	directoryService := directory.NewService(cache, log)
	boardService := board.NewService(cache, log)
	sessionService := session.NewService(cfg.Session.TTL, cfg.Upload.MaxAttachmentBytes, log)
	commitService := commit.NewService(store, uploader, cache, log)

	authMiddleware := authMW.New(sessionService, log)
	loggerMiddleware := loggerMW.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMiddleware.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMiddleware.Middleware())
	directoryHandler := directoryAPI.NewHandler(directoryService, log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMiddleware.Middleware())
	public := middlewares.GetAllAndClear()
	middlewares.Add(authMiddleware.Middleware())
	middlewares.Add(loggerMiddleware.Middleware())
	authHandler := authAPI.NewHandler(directoryService, sessionService, log, public, middlewares.GetAllAndClear())

	middlewares.Add(loggerMiddleware.Middleware())
	boardPublic := middlewares.GetAllAndClear()
	middlewares.Add(authMiddleware.Middleware())
	middlewares.Add(loggerMiddleware.Middleware())
	boardHandler := boardAPI.NewHandler(boardService, cache, log, boardPublic, middlewares.GetAllAndClear())

	middlewares.Add(authMiddleware.Middleware())
	middlewares.Add(loggerMiddleware.Middleware())
	cartHandler := cartAPI.NewHandler(log, middlewares.GetAllAndClear())

	middlewares.Add(authMiddleware.Middleware())
	middlewares.Add(loggerMiddleware.Middleware())
	commitHandler := commitAPI.NewHandler(commitService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:    healthHandler,
		Directory: directoryHandler,
		Auth:      authHandler,
		Board:     boardHandler,
		Cart:      cartHandler,
		Commit:    commitHandler,
	}
}
