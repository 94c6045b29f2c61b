package upload

import (
	"context"
)

// Disabled - заглушка для конфигурации без файлового хранилища.
// Отчеты без вложений проходят как обычно, вложение же получает
// осмысленный отказ вместо паники на nil.
type Disabled struct{}

var _ Uploader = Disabled{}

func (Disabled) Upload(ctx context.Context, data []byte, filename, mimeType string) (string, error) {
	return "", NewError(KindApplication, "загрузка вложений не настроена на сервере", nil)
}
