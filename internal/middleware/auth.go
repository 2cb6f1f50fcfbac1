package middleware

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"lavka-main/internal/session"
	myErr "lavka-main/internal/types/errors"
)

type SessKey string

var sessKey SessKey = "sessionKey"

func Auth(sm session.SessionRepo, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Проверка сессии пользователя
			sess, err := sm.CheckSession(r)
			if err != nil {
				myErr.SendErrorTo(w, err, myErr.StatusFor(err), logger)
				return
			}

			// Добавляем сессию в контекст и передаем дальше
			ctx := ContextWithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SoftAuth кладет сессию в контекст если токен валиден,
// но анонимные запросы пропускает дальше без сессии.
// Нужен публичным ручкам каталога, чтобы события аналитики
// уходили для залогиненных пользователей
func SoftAuth(sm session.SessionRepo, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sm.CheckSession(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := ContextWithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ContextWithSession(ctx context.Context, s *session.Session) context.Context {
	// создаем новый контекст с нашим ключом и сессией
	return context.WithValue(ctx, sessKey, s)
}

func GetSessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessKey).(*session.Session)
	return s, ok
}
