package upload

import (
	"context"
	"errors"
	"fmt"
)

// Uploader превращает байты вложения в долговечный публичный URL.
// Реализации не ретраят сами: политика повторов принадлежит
// вызывающему, потому что повтор загрузки не должен плодить записи.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename, mimeType string) (string, error)
}

// Kind - класс ошибки загрузки. Вызывающему важно различать их:
// transport и malformedResponse переживаемы повтором, applicationError
// обычно требует исправления со стороны пользователя.
type Kind string

const (
	KindTransport         Kind = "transport"
	KindMalformedResponse Kind = "malformedResponse"
	KindApplication       Kind = "applicationError"
)

// Error - ошибка загрузки вложения с сохраненным классом.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func NewError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("upload failed (%s): %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("upload failed (%s): %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// KindOf достает класс из цепочки ошибок. Для чужих ошибок
// возвращает KindTransport: неизвестный сбой считаем транспортным.
func KindOf(err error) Kind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return KindTransport
}
