package session

import (
	"context"
	"net/http"
	"time"
)

// Session - структура сессии
type Session struct {
	ID        string
	UserID    string
	StartTime time.Time
	EndTime   time.Time
}

// SessionRepo - репозиторий для работы с сессиями
//
//go:generate mockgen -source=internal/session/session.go -destination=internal/mocks/mock_session_repo.go -package=mocks
type SessionRepo interface {
	// CreateSession - создает новую сессию для пользователя, кладет ее в Redis
	// и возвращает подписанный JWT токен вместе с сессией
	CreateSession(ctx context.Context, userID string, email string) (*Session, string, error)
	// CheckSession - резолвит Bearer токен запроса в сессию пользователя.
	// Возвращает ErrNoAuth если токен невалиден, ErrSessionIsExpired если сессия истекла
	CheckSession(r *http.Request) (*Session, error)
	// ExtendSession - продлевает сессию, если пользователь активно пользуется сервисом
	ExtendSession(ctx context.Context, sessionID string) error
}
