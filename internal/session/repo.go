package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	errorspkg "lavka-main/internal/types/errors"
)

type SessionRepository struct {
	RedisClient  *redis.Client
	Logger       *zap.SugaredLogger
	tokenSecret  string
	baseDuration time.Duration
}

func NewSessionRepository(
	redisClient *redis.Client,
	logger *zap.SugaredLogger,
	tokenSecret string,
	baseDuration time.Duration,
) *SessionRepository {
	return &SessionRepository{
		RedisClient:  redisClient,
		Logger:       logger,
		tokenSecret:  tokenSecret,
		baseDuration: baseDuration,
	}
}

func (sr *SessionRepository) CreateSession(
	ctx context.Context,
	userID string,
	email string,
) (*Session, string, error) {
	now := time.Now()

	// Создаём новую сессию
	sess := &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		StartTime: now,
		EndTime:   now.Add(sr.baseDuration),
	}

	// Сохраняем сессию в Redis
	if err := sr.saveSessionToRedis(ctx, sess); err != nil {
		// Логируется внутри saveSessionToRedis
		return nil, "", err
	}

	// Генерируем JWT токен
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":      email,
		"id":         userID,
		"iat":        sess.StartTime.Unix(),
		"exp":        sess.EndTime.Unix(),
		"session_id": sess.ID,
	})

	tokenStr, err := token.SignedString([]byte(sr.tokenSecret))
	if err != nil {
		sr.Logger.Error("Failed to sign JWT token", zap.Error(err))
		return nil, "", fmt.Errorf("error signing token: %w", err)
	}

	sr.Logger.Infof("Session %s created for user: %s", sess.ID, email)
	return sess, tokenStr, nil
}

func (sr *SessionRepository) CheckSession(r *http.Request) (*Session, error) {
	const bearerPrefix = "Bearer "

	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return nil, errorspkg.ErrNoAuth
	}

	tokenStr := strings.TrimPrefix(authHeader, bearerPrefix)

	// Разбор токена
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			sr.Logger.Warnf("Unexpected signing method: %v", token.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(sr.tokenSecret), nil
	})
	if err != nil || !token.Valid {
		sr.Logger.Warnf("Invalid JWT token: %v", err)
		return nil, errorspkg.ErrNoAuth
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["session_id"] == nil {
		sr.Logger.Warn("Missing session_id claim in JWT")
		return nil, errorspkg.ErrNoAuth
	}

	sessionID, ok := claims["session_id"].(string)
	if !ok {
		sr.Logger.Warn("session_id claim is not a string")
		return nil, errorspkg.ErrNoAuth
	}

	// Поиск сессии по ID
	ctx := r.Context()
	sess, err := sr.getSessionFromRedis(ctx, sessionID)
	if err != nil {
		return nil, err // уже логируется внутри
	}

	if time.Now().After(sess.EndTime) {
		_ = sr.RedisClient.Del(ctx, sessionID).Err() // nolint:errcheck
		return nil, errorspkg.ErrSessionIsExpired
	}

	return sess, nil
}

func (sr *SessionRepository) ExtendSession(
	ctx context.Context,
	sessionID string,
) error {
	sess, err := sr.getSessionFromRedis(ctx, sessionID)
	if err != nil {
		// Все логирование происходит внутри getSessionFromRedis
		return err
	}

	sess.EndTime = time.Now().Add(sr.baseDuration)

	if err = sr.saveSessionToRedis(ctx, sess); err != nil {
		sr.Logger.Error(
			"Failed update session end time",
			zap.Error(err),
			zap.String("sessionID", sessionID),
		)

		return err
	}

	return nil
}

func (sr *SessionRepository) saveSessionToRedis(
	ctx context.Context,
	sess *Session,
) error {
	sessionDataJSON, err := json.Marshal(sess)
	if err != nil {
		sr.Logger.Error(
			"Failed encode session to JSON",
			zap.Error(err),
			zap.String("sessionID", sess.ID),
		)

		return err
	}

	err = sr.RedisClient.Set(ctx, sess.ID, sessionDataJSON, sr.baseDuration).Err()
	if err != nil {
		sr.Logger.Error(
			"Failed save session to Redis",
			zap.Error(err),
			zap.String("sessionID", sess.ID),
		)

		return err
	}

	return nil
}

func (sr *SessionRepository) getSessionFromRedis(
	ctx context.Context,
	sessionID string,
) (*Session, error) {
	sessionDataJSON, err := sr.RedisClient.Get(ctx, sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			sr.Logger.Warnf("Session %s not found in Redis", sessionID)
			return nil, errorspkg.ErrSessionNotFound
		}

		sr.Logger.Error(
			"Failed get session from Redis",
			zap.Error(err),
			zap.String("sessionID", sessionID),
		)

		return nil, err
	}

	var sess Session
	if err = json.Unmarshal(sessionDataJSON, &sess); err != nil {
		sr.Logger.Error(
			"Failed decode session from JSON",
			zap.Error(err),
			zap.String("sessionID", sessionID),
		)

		return nil, err
	}

	return &sess, nil
}
