package session

import (
	"errors"
)

var (
	ErrInvalidToken = errors.New("неизвестный токен сессии")
	ErrExpired      = errors.New("сессия истекла")
)
