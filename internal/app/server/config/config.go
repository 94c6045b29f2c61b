package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Драйверы хранилища записей.
const (
	StoreSheets   = "sheets"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMemory   = "memory"
)

// Драйверы загрузки вложений.
const (
	UploadRelay = "relay"
	UploadDrive = "drive"
	UploadS3    = "s3"
	UploadNone  = "none"
)

type Config struct {
	Env     string
	Server  server
	Store   store
	Upload  upload
	Cache   cache
	Session session
}

type server struct {
	RunAddress string `env:"RUN_ADDRESS"`
}

type store struct {
	Driver          string `env:"STORE_DRIVER"`
	SpreadsheetID   string `env:"SPREADSHEET_ID"`
	CredentialsFile string `env:"GOOGLE_CREDENTIALS_FILE"`
	DatabaseURI     string `env:"DATABASE_URI"`
	Migrations      string `env:"MIGRATIONS_PATH"`
	SQLitePath      string `env:"SQLITE_PATH"`
}

type upload struct {
	Driver             string        `env:"UPLOAD_DRIVER"`
	RelayEndpoint      string        `env:"RELAY_ENDPOINT"`
	RelayTimeout       time.Duration `env:"RELAY_TIMEOUT_SECONDS"`
	DriveFolderID      string        `env:"DRIVE_FOLDER_ID"`
	S3Endpoint         string        `env:"S3_ENDPOINT"`
	S3Region           string        `env:"S3_REGION"`
	S3Bucket           string        `env:"S3_BUCKET"`
	S3AccessKeyID      string        `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey        string        `env:"S3_SECRET_ACCESS_KEY"`
	MaxAttachmentBytes int64         `env:"MAX_ATTACHMENT_BYTES"`
}

type cache struct {
	TTL time.Duration `env:"CACHE_TTL"`
}

type session struct {
	TTL time.Duration `env:"SESSION_TTL_HOURS"`
}

// MustLoad читает конфигурацию из окружения (и .env, если он есть).
// Вся настройка внешняя: ни адрес релея, ни идентификатор таблицы,
// ни TTL кеша в код конвейера не зашиты. Невалидная конфигурация
// останавливает процесс на старте.
func MustLoad() *Config {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", EnvLocal)
	viper.SetDefault("RUN_ADDRESS", "localhost:8080")
	viper.SetDefault("STORE_DRIVER", StoreMemory)
	viper.SetDefault("UPLOAD_DRIVER", UploadNone)
	viper.SetDefault("RELAY_TIMEOUT_SECONDS", 30)
	viper.SetDefault("MIGRATIONS_PATH", "migrations")
	viper.SetDefault("SQLITE_PATH", "meetboard.db")
	viper.SetDefault("CACHE_TTL", 60)
	viper.SetDefault("SESSION_TTL_HOURS", 24)
	viper.SetDefault("MAX_ATTACHMENT_BYTES", 10<<20)
	viper.SetDefault("S3_REGION", "us-east-1")

	config := Config{
		Env: viper.GetString("APP_ENV"),
		Server: server{
			RunAddress: viper.GetString("RUN_ADDRESS"),
		},
		Store: store{
			Driver:          viper.GetString("STORE_DRIVER"),
			SpreadsheetID:   viper.GetString("SPREADSHEET_ID"),
			CredentialsFile: viper.GetString("GOOGLE_CREDENTIALS_FILE"),
			DatabaseURI:     viper.GetString("DATABASE_URI"),
			Migrations:      viper.GetString("MIGRATIONS_PATH"),
			SQLitePath:      viper.GetString("SQLITE_PATH"),
		},
		Upload: upload{
			Driver:             viper.GetString("UPLOAD_DRIVER"),
			RelayEndpoint:      viper.GetString("RELAY_ENDPOINT"),
			RelayTimeout:       time.Duration(viper.GetInt("RELAY_TIMEOUT_SECONDS")) * time.Second,
			DriveFolderID:      viper.GetString("DRIVE_FOLDER_ID"),
			S3Endpoint:         viper.GetString("S3_ENDPOINT"),
			S3Region:           viper.GetString("S3_REGION"),
			S3Bucket:           viper.GetString("S3_BUCKET"),
			S3AccessKeyID:      viper.GetString("S3_ACCESS_KEY_ID"),
			S3SecretKey:        viper.GetString("S3_SECRET_ACCESS_KEY"),
			MaxAttachmentBytes: viper.GetInt64("MAX_ATTACHMENT_BYTES"),
		},
		Cache: cache{
			TTL: time.Duration(viper.GetInt("CACHE_TTL")) * time.Second,
		},
		Session: session{
			TTL: time.Duration(viper.GetInt("SESSION_TTL_HOURS")) * time.Hour,
		},
	}

	if err := config.validate(); err != nil {
		panic(fmt.Sprintf("конфигурация сервера: %v", err))
	}

	return &config
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreSheets:
		if c.Store.SpreadsheetID == "" {
			return fmt.Errorf("драйвер sheets требует SPREADSHEET_ID")
		}
		if c.Store.CredentialsFile == "" {
			return fmt.Errorf("драйвер sheets требует GOOGLE_CREDENTIALS_FILE")
		}
	case StorePostgres:
		if c.Store.DatabaseURI == "" {
			return fmt.Errorf("драйвер postgres требует DATABASE_URI")
		}
	case StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("неизвестный драйвер хранилища: %q", c.Store.Driver)
	}

	switch c.Upload.Driver {
	case UploadRelay:
		if c.Upload.RelayEndpoint == "" {
			return fmt.Errorf("драйвер relay требует RELAY_ENDPOINT")
		}
	case UploadDrive:
		if c.Store.CredentialsFile == "" {
			return fmt.Errorf("драйвер drive требует GOOGLE_CREDENTIALS_FILE")
		}
	case UploadS3:
		if c.Upload.S3Bucket == "" {
			return fmt.Errorf("драйвер s3 требует S3_BUCKET")
		}
	case UploadNone:
	default:
		return fmt.Errorf("неизвестный драйвер загрузки: %q", c.Upload.Driver)
	}

	return nil
}
