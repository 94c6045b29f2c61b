package client

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"meetboard/internal/app/client/config"
)

// App - клиентское приложение поверх API сервера. Вся логика конвейера
// живет на сервере, здесь только провод и хранение токена между
// запусками.
type App struct {
	config        *config.Config
	log           *slog.Logger
	httpClient    *httpClient
	authenticated bool
	mu            sync.Mutex
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	httpCl, err := NewHTTPClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации HTTP клиента: %w", err)
	}

	app := &App{
		config:     cfg,
		log:        log,
		httpClient: httpCl,
	}

	// Загружаем токен если он есть
	if token, err := app.GetToken(); err == nil && token != "" {
		httpCl.SetToken(token)
		app.authenticated = true
		log.Debug("Токен загружен из файла")
	}

	return app, nil
}

// CheckConnection проверяет соединение с сервером
func (a *App) CheckConnection(ctx context.Context) error {
	return a.httpClient.HealthCheck(ctx)
}

// IsAuthenticated проверяет, есть ли сохраненная сессия
func (a *App) IsAuthenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.authenticated
}

// GetToken возвращает сохраненный токен
func (a *App) GetToken() (string, error) {
	tokenBytes, err := os.ReadFile(a.config.TokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("токен не найден. Выполните вход: meetboard login")
		}
		return "", fmt.Errorf("ошибка чтения токена: %w", err)
	}
	return string(tokenBytes), nil
}

// SaveToken сохраняет токен аутентификации
func (a *App) SaveToken(token string) error {
	if err := os.WriteFile(a.config.TokenPath, []byte(token), 0600); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}
	a.httpClient.SetToken(token)
	return nil
}

// ClearToken удаляет токен
func (a *App) ClearToken() error {
	a.mu.Lock()
	a.authenticated = false
	a.mu.Unlock()

	a.httpClient.SetToken("")
	if err := os.Remove(a.config.TokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления токена: %w", err)
	}
	return nil
}

// Login выполняет вход и сохраняет токен
func (a *App) Login(ctx context.Context, department, group, password string) error {
	token, err := a.httpClient.Login(ctx, department, group, password)
	if err != nil {
		return err
	}

	if err := a.SaveToken(token); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}

	a.mu.Lock()
	a.authenticated = true
	a.mu.Unlock()

	a.log.Info("Вход выполнен успешно", "department", department, "group", group)
	return nil
}

// Logout закрывает сессию на сервере и забывает токен. Сервер при
// этом выбрасывает и корзину сессии.
func (a *App) Logout(ctx context.Context) error {
	if err := a.httpClient.Logout(ctx); err != nil {
		a.log.Warn("Сервер не подтвердил выход", "error", err)
	}
	return a.ClearToken()
}

// Directory возвращает отделы и группы для формы входа
func (a *App) Directory(ctx context.Context) ([]DepartmentGroups, error) {
	return a.httpClient.Directory(ctx)
}

// BoardDates возвращает даты собраний, свежие сверху
func (a *App) BoardDates(ctx context.Context) ([]string, error) {
	return a.httpClient.BoardDates(ctx)
}

// Board возвращает отчеты одной даты по отделам
func (a *App) Board(ctx context.Context, date string) ([]BoardDepartment, error) {
	return a.httpClient.Board(ctx, date)
}

// RefreshBoard принудительно сбрасывает серверный кеш чтения
func (a *App) RefreshBoard(ctx context.Context) error {
	return a.httpClient.RefreshBoard(ctx)
}

// Stage кладет отчет в корзину. attachmentPath может быть пустым -
// тогда отчет уходит без вложения.
func (a *App) Stage(ctx context.Context, content, attachmentPath string) (int, error) {
	var att *stageAttachment
	if attachmentPath != "" {
		data, err := os.ReadFile(attachmentPath)
		if err != nil {
			return 0, fmt.Errorf("ошибка чтения вложения: %w", err)
		}
		att = &stageAttachment{
			Filename: filepath.Base(attachmentPath),
			MimeType: detectMimeType(attachmentPath, data),
			Data:     data,
		}
	}

	return a.httpClient.Stage(ctx, content, att)
}

// CartList возвращает содержимое корзины
func (a *App) CartList(ctx context.Context) ([]CartItem, error) {
	return a.httpClient.CartList(ctx)
}

// CartDiscard выбрасывает корзину целиком
func (a *App) CartDiscard(ctx context.Context) error {
	return a.httpClient.CartDiscard(ctx)
}

// Commit фиксирует корзину и отдает прогресс по мере обработки
func (a *App) Commit(ctx context.Context, meetingDate string, onProgress func(CommitProgress)) (*CommitDone, error) {
	return a.httpClient.Commit(ctx, meetingDate, onProgress)
}

// Тип вложения: сперва по расширению, иначе по содержимому.
func detectMimeType(path string, data []byte) string {
	if mt := mime.TypeByExtension(filepath.Ext(path)); mt != "" {
		return mt
	}
	return http.DetectContentType(data)
}
