package drive

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	"meetboard/internal/upload"
)

func TestStampName(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 30, 5, 0, time.UTC)
	assert.Equal(t, "20250314_093005_plan.pdf", stampName(now, "plan.pdf"))
}

func TestDriveError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind upload.Kind
	}{
		{
			name:     "4xx - ошибка приложения",
			err:      &googleapi.Error{Code: 403, Message: "insufficient permissions"},
			wantKind: upload.KindApplication,
		},
		{
			name:     "5xx - транспорт",
			err:      &googleapi.Error{Code: 503},
			wantKind: upload.KindTransport,
		},
		{
			name:     "сетевая ошибка - транспорт",
			err:      errors.New("connection reset"),
			wantKind: upload.KindTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, upload.KindOf(driveError(tt.err)))
		})
	}
}
