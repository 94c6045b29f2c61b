package commit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"meetboard/internal/domain/cart"
	"meetboard/internal/domain/session"
	"meetboard/internal/infrastructure/storage"
	"meetboard/internal/upload"
)

// fakeStore копит строки и умеет ронять заданное по счету добавление.
type fakeStore struct {
	mu      sync.Mutex
	rows    [][]string
	appends int
	failOn  map[int]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{failOn: make(map[int]error)}
}

func (f *fakeStore) ReadAll(ctx context.Context, table storage.Table) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := make([][]string, len(f.rows))
	copy(rows, f.rows)
	return rows, nil
}

func (f *fakeStore) AppendRow(ctx context.Context, table storage.Table, row []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appends++
	if err, ok := f.failOn[f.appends]; ok {
		return err
	}
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeStore) Close() error { return nil }

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, data []byte, filename, mimeType string) (string, error) {
	args := m.Called(ctx, data, filename, mimeType)
	return args.String(0), args.Error(1)
}

type spyInvalidator struct {
	calls int
}

func (s *spyInvalidator) Invalidate() { s.calls++ }

func newTestSession(t *testing.T, contents ...string) *session.Session {
	t.Helper()
	sess := &session.Session{
		Department: "Office A",
		Group:      "G1",
		Cart:       cart.New(0),
	}
	for _, content := range contents {
		require.NoError(t, sess.Cart.Stage(content, nil))
	}
	return sess
}

func collectProgress(events *[]Progress) func(Progress) {
	return func(p Progress) { *events = append(*events, p) }
}

func TestCommit_Success(t *testing.T) {
	store := newFakeStore()
	uploader := new(MockUploader)
	cacheSpy := &spyInvalidator{}
	svc := NewService(store, uploader, cacheSpy, slog.Default())

	sess := &session.Session{Department: "Office A", Group: "G1", Cart: cart.New(0)}
	require.NoError(t, sess.Cart.Stage("первый", nil))
	// У второго отчета вложение.
	require.NoError(t, sess.Cart.Stage("второй", &cart.Attachment{
		Filename: "plan.pdf",
		MimeType: "application/pdf",
		Data:     []byte("0123456789"),
	}))
	require.NoError(t, sess.Cart.Stage("третий", nil))

	uploader.On("Upload", mock.Anything, []byte("0123456789"), "plan.pdf", "application/pdf").
		Return("https://files.example.com/plan.pdf", nil).Once()

	var events []Progress
	res, err := svc.Commit(context.Background(), sess, "2025-03-17", collectProgress(&events))

	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 3, res.Appended)
	assert.NoError(t, res.Err)
	assert.Empty(t, res.Uploads)

	// Ровно N записей, в порядке корзины.
	require.Len(t, store.rows, 3)
	assert.Equal(t, "первый", store.rows[0][5])
	assert.Equal(t, "второй", store.rows[1][5])
	assert.Equal(t, "третий", store.rows[2][5])
	assert.Empty(t, store.rows[0][6])
	assert.Equal(t, "https://files.example.com/plan.pdf", store.rows[1][6])

	// ULID растут вместе с порядком фиксации.
	assert.Less(t, store.rows[0][0], store.rows[1][0])
	assert.Less(t, store.rows[1][0], store.rows[2][0])
	// submittedAt не убывает.
	assert.LessOrEqual(t, store.rows[0][1], store.rows[1][1])
	assert.LessOrEqual(t, store.rows[1][1], store.rows[2][1])

	// Корзина пуста, кеш сброшен.
	assert.Zero(t, sess.Cart.Len())
	assert.Equal(t, 1, cacheSpy.calls)

	require.Len(t, events, 3)
	for i, p := range events {
		assert.Equal(t, i+1, p.Index)
		assert.Equal(t, 3, p.Total)
		assert.NotEmpty(t, p.RecordID)
		assert.Empty(t, p.UploadError)
	}

	uploader.AssertExpectations(t)
}

func TestCommit_UploadFailureDoesNotAbortBatch(t *testing.T) {
	store := newFakeStore()
	uploader := new(MockUploader)
	cacheSpy := &spyInvalidator{}
	svc := NewService(store, uploader, cacheSpy, slog.Default())

	sess := &session.Session{Department: "Office A", Group: "G1", Cart: cart.New(0)}
	require.NoError(t, sess.Cart.Stage("с битым вложением", &cart.Attachment{
		Filename: "broken.png", MimeType: "image/png", Data: []byte("png"),
	}))
	require.NoError(t, sess.Cart.Stage("с целым вложением", &cart.Attachment{
		Filename: "ok.png", MimeType: "image/png", Data: []byte("png2"),
	}))

	uploader.On("Upload", mock.Anything, mock.Anything, "broken.png", mock.Anything).
		Return("", upload.NewError(upload.KindApplication, "file too large", nil)).Once()
	uploader.On("Upload", mock.Anything, mock.Anything, "ok.png", mock.Anything).
		Return("https://files.example.com/ok.png", nil).Once()

	var events []Progress
	res, err := svc.Commit(context.Background(), sess, "2025-03-17", collectProgress(&events))

	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, 2, res.Appended)

	// Отчет с упавшим вложением зафиксирован с пустой ссылкой.
	require.Len(t, store.rows, 2)
	assert.Empty(t, store.rows[0][6])
	assert.Equal(t, "https://files.example.com/ok.png", store.rows[1][6])

	require.Len(t, res.Uploads, 1)
	assert.Equal(t, 1, res.Uploads[0].Index)
	assert.Equal(t, "broken.png", res.Uploads[0].Filename)
	assert.Equal(t, upload.KindApplication, res.Uploads[0].Kind)

	require.Len(t, events, 2)
	assert.NotEmpty(t, events[0].UploadError)
	assert.Empty(t, events[1].UploadError)

	assert.Zero(t, sess.Cart.Len())
	assert.Equal(t, 1, cacheSpy.calls)
	uploader.AssertExpectations(t)
}

func TestCommit_FatalStopKeepsCartAndRetryDuplicates(t *testing.T) {
	store := newFakeStore()
	store.failOn[2] = errors.New("insert failed")
	uploader := new(MockUploader)
	cacheSpy := &spyInvalidator{}
	svc := NewService(store, uploader, cacheSpy, slog.Default())

	sess := newTestSession(t, "первый", "второй", "третий")

	var events []Progress
	res, err := svc.Commit(context.Background(), sess, "2025-03-17", collectProgress(&events))

	require.NoError(t, err)
	assert.Equal(t, StatusFatalStop, res.Status)
	assert.Equal(t, 1, res.Appended)
	assert.Equal(t, 2, res.FailedIndex)
	assert.False(t, res.RateLimited)
	assert.Error(t, res.Err)

	// В хранилище только 1..k-1, корзина не тронута.
	require.Len(t, store.rows, 1)
	assert.Equal(t, 3, sess.Cart.Len())
	// Записи успели добавиться - кеш сброшен и при фатальном стопе.
	assert.Equal(t, 1, cacheSpy.calls)

	// Прогресс дошел до упавшего элемента и остановился.
	require.Len(t, events, 2)
	assert.NotEmpty(t, events[0].RecordID)
	assert.Empty(t, events[1].RecordID)

	// Повтор по нетронутой корзине задваивает 1..k-1 - это видимое,
	// задокументированное поведение, а не скрытый дефект.
	delete(store.failOn, 2)
	res, err = svc.Commit(context.Background(), sess, "2025-03-17", nil)

	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, 3, res.Appended)
	require.Len(t, store.rows, 4)
	assert.Equal(t, store.rows[0][5], store.rows[1][5])
	assert.Zero(t, sess.Cart.Len())
}

func TestCommit_RateLimitedStop(t *testing.T) {
	store := newFakeStore()
	store.failOn[1] = fmt.Errorf("append: %w", storage.ErrRateLimited)
	svc := NewService(store, new(MockUploader), &spyInvalidator{}, slog.Default())

	sess := newTestSession(t, "единственный")

	res, err := svc.Commit(context.Background(), sess, "2025-03-17", nil)

	require.NoError(t, err)
	assert.Equal(t, StatusFatalStop, res.Status)
	assert.True(t, res.RateLimited)
	assert.Zero(t, res.Appended)
	assert.Equal(t, 1, sess.Cart.Len())
}

func TestCommit_RejectsMalformedMeetingDate(t *testing.T) {
	tests := []struct {
		name string
		date string
	}{
		{name: "произвольная строка", date: "завтра"},
		{name: "другой формат", date: "17.03.2025"},
		{name: "без ведущих нулей", date: "2025-3-7"},
		{name: "несуществующий день", date: "2025-02-30"},
		{name: "пустая дата", date: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			svc := NewService(store, new(MockUploader), &spyInvalidator{}, slog.Default())
			sess := newTestSession(t, "отчет")

			_, err := svc.Commit(context.Background(), sess, tt.date, nil)

			assert.ErrorIs(t, err, ErrInvalidMeetingDate)
			// Пакет не стартовал: хранилище и корзина не тронуты.
			assert.Empty(t, store.rows)
			assert.Equal(t, 1, sess.Cart.Len())
			// Право на фиксацию не зависло захваченным.
			assert.True(t, sess.TryBeginCommit())
			sess.EndCommit()
		})
	}
}

func TestCommit_BusySession(t *testing.T) {
	svc := NewService(newFakeStore(), new(MockUploader), &spyInvalidator{}, slog.Default())
	sess := newTestSession(t, "отчет")

	require.True(t, sess.TryBeginCommit())
	defer sess.EndCommit()

	_, err := svc.Commit(context.Background(), sess, "2025-03-17", nil)
	assert.ErrorIs(t, err, ErrBusy)
}

func TestCommit_CancelTakesEffectAtItemBoundary(t *testing.T) {
	store := newFakeStore()
	cacheSpy := &spyInvalidator{}
	svc := NewService(store, new(MockUploader), cacheSpy, slog.Default())

	sess := newTestSession(t, "первый", "второй")

	ctx, cancel := context.WithCancel(context.Background())
	res, err := svc.Commit(ctx, sess, "2025-03-17", func(p Progress) {
		// Отмена в середине пакета: подействует на границе элементов.
		cancel()
	})

	require.NoError(t, err)
	assert.Equal(t, StatusFatalStop, res.Status)
	assert.Equal(t, 1, res.Appended)
	assert.Equal(t, 2, res.FailedIndex)
	require.Len(t, store.rows, 1)
	assert.Equal(t, 2, sess.Cart.Len())
	assert.Equal(t, 1, cacheSpy.calls)
}

func TestCommit_EmptyCart(t *testing.T) {
	store := newFakeStore()
	cacheSpy := &spyInvalidator{}
	svc := NewService(store, new(MockUploader), cacheSpy, slog.Default())

	sess := newTestSession(t)

	res, err := svc.Commit(context.Background(), sess, "2025-03-17", nil)

	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Zero(t, res.Total)
	assert.Zero(t, res.Appended)
	assert.Empty(t, store.rows)
	// Ничего не записано - нечего и сбрасывать.
	assert.Zero(t, cacheSpy.calls)
}
