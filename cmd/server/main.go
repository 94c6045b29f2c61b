package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meetboard/internal/app/server/api"
	"meetboard/internal/app/server/config"
	"meetboard/internal/infrastructure/storage"
	"meetboard/internal/infrastructure/storage/memory"
	"meetboard/internal/infrastructure/storage/postgres"
	"meetboard/internal/infrastructure/storage/sheets"
	"meetboard/internal/infrastructure/storage/sqlite"
	"meetboard/internal/upload"
	"meetboard/internal/upload/drive"
	"meetboard/internal/upload/relay"
	"meetboard/internal/upload/s3"
	"meetboard/internal/utils/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	if err := run(cfg, log); err != nil {
		log.Error("сервер остановлен с ошибкой", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx := context.Background()

	store, err := newStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("инициализация хранилища: %w", err)
	}
	defer store.Close()

	uploader, err := newUploader(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("инициализация загрузчика: %w", err)
	}

	mux := api.New(store, uploader, cfg, log)

	server := &http.Server{
		Addr:    cfg.Server.RunAddress,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("сервер запущен",
			"address", cfg.Server.RunAddress,
			"store", cfg.Store.Driver,
			"upload", cfg.Upload.Driver,
			"env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("получен сигнал завершения", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("остановка сервера: %w", err)
	}

	log.Info("сервер остановлен")
	return nil
}

func newStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreSheets:
		return sheets.New(ctx, cfg.Store.CredentialsFile, cfg.Store.SpreadsheetID, log)
	case config.StorePostgres:
		return postgres.New(ctx, postgres.Config{
			DatabaseURI: cfg.Store.DatabaseURI,
			Migrations:  cfg.Store.Migrations,
		}, log)
	case config.StoreSQLite:
		return sqlite.New(cfg.Store.SQLitePath, log)
	case config.StoreMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("неизвестный драйвер хранилища: %q", cfg.Store.Driver)
	}
}

func newUploader(ctx context.Context, cfg *config.Config, log *slog.Logger) (upload.Uploader, error) {
	switch cfg.Upload.Driver {
	case config.UploadRelay:
		return relay.NewClient(cfg.Upload.RelayEndpoint, cfg.Upload.RelayTimeout, log), nil
	case config.UploadDrive:
		return drive.NewUploader(ctx, cfg.Store.CredentialsFile, cfg.Upload.DriveFolderID, log)
	case config.UploadS3:
		return s3.NewUploader(ctx, s3.Config{
			Endpoint:        cfg.Upload.S3Endpoint,
			Region:          cfg.Upload.S3Region,
			Bucket:          cfg.Upload.S3Bucket,
			AccessKeyID:     cfg.Upload.S3AccessKeyID,
			SecretAccessKey: cfg.Upload.S3SecretKey,
		}, log)
	case config.UploadNone:
		return upload.Disabled{}, nil
	default:
		return nil, fmt.Errorf("неизвестный драйвер загрузки: %q", cfg.Upload.Driver)
	}
}
