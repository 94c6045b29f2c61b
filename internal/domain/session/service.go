package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"meetboard/internal/domain/cart"
)

// DefaultTTL - срок жизни сессии.
const DefaultTTL = 24 * time.Hour

// Session - контекст одного входа: кто вошел и что у него несдано.
// Создается при входе, уничтожается при выходе. Дальше процесса не
// живет: после рестарта сервера нужен новый вход.
type Session struct {
	Department string
	Group      string
	Cart       *cart.Cart
	ExpiresAt  time.Time

	committing sync.Mutex
}

// TryBeginCommit захватывает право на фиксацию. Пока право не
// возвращено через EndCommit, второй параллельной фиксации той же
// сессии не будет.
func (s *Session) TryBeginCommit() bool {
	return s.committing.TryLock()
}

func (s *Session) EndCommit() {
	s.committing.Unlock()
}

type Service struct {
	log *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session

	ttl           time.Duration
	maxAttachment int64
	now           func() time.Time
}

func NewService(ttl time.Duration, maxAttachmentBytes int64, log *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		log:           log.With("component", "session"),
		sessions:      make(map[string]*Session),
		ttl:           ttl,
		maxAttachment: maxAttachmentBytes,
		now:           time.Now,
	}
}

// Create выпускает токен для пары отдел/группа. В памяти остается
// только sha256 токена, сам токен существует лишь у клиента.
func (s *Service) Create(department, group string) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	token := base64.URLEncoding.EncodeToString(tokenBytes)

	sess := &Session{
		Department: department,
		Group:      group,
		Cart:       cart.New(s.maxAttachment),
		ExpiresAt:  s.now().Add(s.ttl),
	}

	s.mu.Lock()
	s.pruneLocked()
	s.sessions[hashToken(token)] = sess
	s.mu.Unlock()

	s.log.Info("сессия открыта", "department", department, "group", group)
	return token, nil
}

// Validate возвращает живую сессию по токену.
func (s *Service) Validate(token string) (*Session, error) {
	key := hashToken(token)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok {
		return nil, ErrInvalidToken
	}
	if s.now().After(sess.ExpiresAt) {
		delete(s.sessions, key)
		return nil, ErrExpired
	}
	return sess, nil
}

// Logout уничтожает сессию вместе с корзиной. Незнакомый токен не
// считается ошибкой: выход идемпотентен.
func (s *Service) Logout(token string) {
	key := hashToken(token)

	s.mu.Lock()
	sess, ok := s.sessions[key]
	delete(s.sessions, key)
	s.mu.Unlock()

	if ok {
		sess.Cart.DiscardAll()
		s.log.Info("сессия закрыта", "department", sess.Department, "group", sess.Group)
	}
}

// pruneLocked выбрасывает просроченные сессии. Вызывать под s.mu.
func (s *Service) pruneLocked() {
	now := s.now()
	for key, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, key)
		}
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
