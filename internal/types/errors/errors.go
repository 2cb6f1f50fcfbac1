package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

var (
	ErrDBInternal    = errors.New("database internal error")
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")

	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionIsExpired = errors.New("session is expired")
	ErrNoAuth           = errors.New("authorization required")
	ErrForbidden        = errors.New("access denied")

	ErrBadPassword = errors.New("bad password")
	ErrBadID       = errors.New("bad id")

	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInsufficientStock = errors.New("not enough stock available")
	ErrConflict          = errors.New("concurrent stock update invalidated the operation")
	ErrStockNotReleased  = errors.New("failed to release reserved stock")

	ErrInvalidJSONPayload = errors.New("invalid JSON payload")

	ErrIndexing = errors.New("indexing error")
	ErrSearch   = errors.New("search error")
)

type ErrorServer struct {
	Message string `json:"message"`
}

func (e *ErrorServer) Error() string {
	return e.Message
}

/*
NewErrorServer
Функция имеет возможность принимать "nil ошибку"
при получении nil наша функция понимает, что нам
просто надо отдать саксесс клиенту
*/
func NewErrorServer(err error) ErrorServer {
	if err == nil {
		return ErrorServer{
			Message: "success",
		}
	}

	return ErrorServer{
		Message: err.Error(),
	}
}

func SendErrorTo(w http.ResponseWriter, err error, statusCode int, logger *zap.SugaredLogger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if errEncode := json.NewEncoder(w).Encode(NewErrorServer(err)); errEncode != nil {
		logger.Error(errEncode)
	}
}

// StatusFor подбирает HTTP статус под доменную ошибку.
// Неизвестные ошибки считаются внутренними.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrBadID),
		errors.Is(err, ErrInvalidJSONPayload):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoAuth),
		errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrSessionIsExpired),
		errors.Is(err, ErrBadPassword):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
