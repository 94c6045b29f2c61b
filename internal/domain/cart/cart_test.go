package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageKeepsOrder(t *testing.T) {
	c := New(0)

	require.NoError(t, c.Stage("первый", nil))
	require.NoError(t, c.Stage("второй", &Attachment{
		Filename: "plan.pdf",
		MimeType: "application/pdf",
		Data:     []byte("0123456789"),
	}))
	require.NoError(t, c.Stage("третий", nil))

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "первый", items[0].Content)
	assert.Equal(t, "второй", items[1].Content)
	assert.Equal(t, "третий", items[2].Content)
	assert.Nil(t, items[0].Attachment)
	require.NotNil(t, items[1].Attachment)
	assert.Equal(t, "plan.pdf", items[1].Attachment.Filename)
}

func TestStageValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		att     *Attachment
		limit   int64
		wantErr error
	}{
		{
			name:    "пустой текст",
			content: "",
			wantErr: ErrEmptyContent,
		},
		{
			name:    "только пробелы",
			content: "   \n\t",
			wantErr: ErrEmptyContent,
		},
		{
			name:    "вложение больше лимита",
			content: "отчет",
			att:     &Attachment{Filename: "big.bin", Data: make([]byte, 11)},
			limit:   10,
			wantErr: ErrAttachmentTooLarge,
		},
		{
			name:    "вложение в пределах лимита",
			content: "отчет",
			att:     &Attachment{Filename: "ok.bin", Data: make([]byte, 10)},
			limit:   10,
		},
		{
			name:    "лимит выключен",
			content: "отчет",
			att:     &Attachment{Filename: "big.bin", Data: make([]byte, 1 << 20)},
			limit:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.limit)
			err := c.Stage(tt.content, tt.att)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, c.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, c.Len())
		})
	}
}

func TestDiscardAllIdempotent(t *testing.T) {
	c := New(0)
	require.NoError(t, c.Stage("отчет", nil))

	c.DiscardAll()
	assert.Zero(t, c.Len())

	c.DiscardAll()
	assert.Zero(t, c.Len())
}

func TestItemsReturnsCopy(t *testing.T) {
	c := New(0)
	require.NoError(t, c.Stage("единственный", nil))

	items := c.Items()
	items[0].Content = "подменен"
	_ = append(items, Item{Content: "лишний"})

	fresh := c.Items()
	require.Len(t, fresh, 1)
	assert.Equal(t, "единственный", fresh[0].Content)
}
