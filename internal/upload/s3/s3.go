package s3

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"meetboard/internal/upload"
)

type Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// api - используемая часть клиента S3, выделена ради подмены в тестах.
type api interface {
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

// Uploader складывает вложения в бакет S3 (или совместимый, например
// MinIO) и строит публичный URL объекта.
type Uploader struct {
	client api
	cfg    Config
	log    *slog.Logger
	now    func() time.Time
}

var _ upload.Uploader = (*Uploader)(nil)

func NewUploader(ctx context.Context, cfg Config, log *slog.Logger) (*Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("инициализация конфигурации AWS: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Uploader{
		client: client,
		cfg:    cfg,
		log:    log.With("component", "s3"),
		now:    time.Now,
	}, nil
}

func (u *Uploader) Upload(ctx context.Context, data []byte, filename, mimeType string) (string, error) {
	key := u.objectKey(filename)

	_, err := u.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", upload.NewError(upload.KindTransport, "запись объекта в S3", err)
	}

	u.log.Debug("вложение загружено в S3", "key", key)
	return u.publicURL(key), nil
}

// objectKey раскладывает объекты по датам; UUID в хвосте защищает
// одинаковые имена файлов от коллизий.
func (u *Uploader) objectKey(filename string) string {
	now := u.now()
	return fmt.Sprintf("attachments/%d/%d/%d/%s_%s",
		now.Year(), int(now.Month()), now.Day(), uuid.NewString(), filename)
}

func (u *Uploader) publicURL(key string) string {
	if u.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(u.cfg.Endpoint, "/"), u.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.cfg.Bucket, u.cfg.Region, key)
}
