package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"lavka-main/internal/category"
	"lavka-main/internal/contextutil"
	myErr "lavka-main/internal/types/errors"
	types "lavka-main/internal/types/category"
	"lavka-main/internal/user"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// CategoryHandler ручки каталога категорий.
// Чтение открыто всем, мутации только админу
type CategoryHandler struct {
	Logger       *zap.SugaredLogger
	CategoryRepo category.CategoryRepo
	UserRepo     user.UserRepo
}

func NewCategoryHandler(l *zap.SugaredLogger, cr category.CategoryRepo, ur user.UserRepo) *CategoryHandler {
	return &CategoryHandler{
		Logger:       l,
		CategoryRepo: cr,
		UserRepo:     ur,
	}
}

// Create - POST /category
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := h.requireAdmin(r); err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	var input types.CreateCategory
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		myErr.SendErrorTo(w, myErr.ErrInvalidJSONPayload, http.StatusBadRequest, h.Logger)
		return
	}
	if input.Name == "" {
		myErr.SendErrorTo(w, errors.New("category name is required"), http.StatusBadRequest, h.Logger)
		return
	}

	c, err := h.CategoryRepo.Create(input)
	if err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(c); err != nil {
		h.Logger.Warnw("error writing response", "err", err)
		return
	}

	h.Logger.Infof("category created: %d", c.ID)
}

// GetByID - GET /category/{id}
func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := categoryID(r)
	if err != nil {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	c, err := h.CategoryRepo.GetByID(id)
	if err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(c); err != nil {
		h.Logger.Warnw("error writing response", "err", err)
		return
	}
}

// List - GET /categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.CategoryRepo.List()
	if err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	if categories == nil {
		categories = []category.Category{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(categories); err != nil {
		h.Logger.Warnw("error writing response", "err", err)
		return
	}
}

// Update - PUT /category/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := h.requireAdmin(r); err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	id, err := categoryID(r)
	if err != nil {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	var input types.ChangeCategory
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		myErr.SendErrorTo(w, myErr.ErrInvalidJSONPayload, http.StatusBadRequest, h.Logger)
		return
	}

	c, err := h.CategoryRepo.Update(id, input)
	if err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(c); err != nil {
		h.Logger.Warnw("error writing response", "err", err)
		return
	}

	h.Logger.Infof("category updated: %d", id)
}

// Delete - DELETE /category/{id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.requireAdmin(r); err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	id, err := categoryID(r)
	if err != nil {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	if err := h.CategoryRepo.Delete(id); err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	w.WriteHeader(http.StatusOK)
	h.Logger.Infof("category deleted: %d", id)
}

func (h *CategoryHandler) requireAdmin(r *http.Request) error {
	callerID, ok := contextutil.GetUserIDFromContext(r.Context())
	if !ok {
		return myErr.ErrNoAuth
	}

	caller, err := h.UserRepo.Info(callerID)
	if err != nil {
		if errors.Is(err, myErr.ErrNotFound) {
			return myErr.ErrForbidden
		}
		return err
	}
	if !caller.IsAdmin {
		return myErr.ErrForbidden
	}

	return nil
}

func categoryID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}
