package cart

import (
	"strings"
	"sync"
)

// Attachment - сырое вложение, еще не загруженное в файловое хранилище.
type Attachment struct {
	Filename string
	MimeType string
	Data     []byte
}

// Item - один несданный отчет: текст и необязательное вложение.
type Item struct {
	Content    string
	Attachment *Attachment
}

// Cart - FIFO-очередь несданных отчетов одной сессии. Порядок
// добавления задает порядок фиксации. Живет только в памяти:
// элемент становится отчетом исключительно через конвейер фиксации.
type Cart struct {
	mu       sync.Mutex
	items    []Item
	maxBytes int64
}

// New создает пустую корзину. maxAttachmentBytes <= 0 отключает
// ограничение размера вложения.
func New(maxAttachmentBytes int64) *Cart {
	return &Cart{maxBytes: maxAttachmentBytes}
}

// Stage добавляет отчет в конец корзины. Пустой текст (включая один
// пробельный) не принимается, слишком большое вложение тоже.
func (c *Cart) Stage(content string, att *Attachment) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	if att != nil && c.maxBytes > 0 && int64(len(att.Data)) > c.maxBytes {
		return ErrAttachmentTooLarge
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, Item{Content: content, Attachment: att})
	return nil
}

// Items возвращает копию содержимого в порядке добавления.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items
}

// Len возвращает число несданных отчетов.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// DiscardAll очищает корзину целиком. Повторный вызов безвреден.
func (c *Cart) DiscardAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}
