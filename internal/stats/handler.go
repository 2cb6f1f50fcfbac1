package stats

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"lavka-main/internal/contextutil"
	myErr "lavka-main/internal/types/errors"
	"lavka-main/internal/user"
)

type Handler struct {
	service StatsService
	users   user.UserRepo
	logger  *zap.SugaredLogger
}

func NewHandler(service StatsService, users user.UserRepo, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		service: service,
		users:   users,
		logger:  logger,
	}
}

// GetUserTop - GET /stats/user/{user_id}/top?top=N
// Свою статистику видит сам пользователь, чужую только админ
func (h *Handler) GetUserTop(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["user_id"]
	if userID == "" {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.logger)
		return
	}

	callerID, ok := contextutil.GetUserIDFromContext(r.Context())
	if !ok {
		myErr.SendErrorTo(w, myErr.ErrNoAuth, http.StatusUnauthorized, h.logger)
		return
	}

	if callerID != userID {
		if err := h.requireAdmin(callerID); err != nil {
			myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.logger)
			return
		}
	}

	topN := 3 // По умолчанию
	if topParam := r.URL.Query().Get("top"); topParam != "" {
		if n, err := strconv.Atoi(topParam); err == nil && n > 0 {
			topN = n
		}
	}

	categories, err := h.service.GetTopCategories(r.Context(), userID, topN)
	if err != nil {
		h.logger.Errorf("Failed to get user stats: %v", err)
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.logger)
		return
	}

	if len(categories) == 0 {
		categories = []int{} // Пустой массив вместо null
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(categories); err != nil {
		h.logger.Errorf("Failed to encode response: %v", err)
	}
}

// GetCategoryTotals - GET /stats/categories, только для админа
func (h *Handler) GetCategoryTotals(w http.ResponseWriter, r *http.Request) {
	callerID, ok := contextutil.GetUserIDFromContext(r.Context())
	if !ok {
		myErr.SendErrorTo(w, myErr.ErrNoAuth, http.StatusUnauthorized, h.logger)
		return
	}

	if err := h.requireAdmin(callerID); err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.logger)
		return
	}

	totals, err := h.service.GetCategoryTotals(r.Context())
	if err != nil {
		h.logger.Errorf("Failed to get category totals: %v", err)
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(totals); err != nil {
		h.logger.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) requireAdmin(userID string) error {
	u, err := h.users.Info(userID)
	if err != nil {
		if errors.Is(err, myErr.ErrNotFound) {
			return myErr.ErrForbidden
		}
		return err
	}

	if !u.IsAdmin {
		return myErr.ErrForbidden
	}

	return nil
}
