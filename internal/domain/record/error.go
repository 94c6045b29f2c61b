package record

import (
	"errors"
)

var (
	ErrMalformedRow = errors.New("malformed record row")
)
