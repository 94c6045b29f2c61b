package cart

import (
	"errors"
)

var (
	ErrEmptyContent       = errors.New("текст отчета пуст")
	ErrAttachmentTooLarge = errors.New("вложение больше допустимого размера")
)
