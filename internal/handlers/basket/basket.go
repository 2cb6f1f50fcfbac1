package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"lavka-main/internal/basket"
	"lavka-main/internal/contextutil"
	"lavka-main/internal/kafka"
	"lavka-main/internal/product"
	types "lavka-main/internal/types/basket"
	myErr "lavka-main/internal/types/errors"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// BasketHandler ручки корзины.
// Все операции идут над корзиной пользователя из сессии,
// userID в пути не принимается
type BasketHandler struct {
	Logger        *zap.SugaredLogger
	Basket        basket.BasketManager
	ProductRepo   product.ProductRepo
	EventProducer kafka.EventProducer
}

func NewBasketHandler(
	l *zap.SugaredLogger,
	bm basket.BasketManager,
	pr product.ProductRepo,
	ep kafka.EventProducer,
) *BasketHandler {
	return &BasketHandler{
		Logger:        l,
		Basket:        bm,
		ProductRepo:   pr,
		EventProducer: ep,
	}
}

// Get - GET /basket
func (h *BasketHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := contextutil.GetUserIDFromContext(r.Context())
	if !ok {
		myErr.SendErrorTo(w, myErr.ErrNoAuth, http.StatusUnauthorized, h.Logger)
		return
	}

	view, err := h.Basket.ViewBasket(r.Context(), userID)
	if err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(view); err != nil {
		h.Logger.Warnw("error writing response", "err", err)
		return
	}
}

// Add - POST /basket/item
func (h *BasketHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := contextutil.GetUserIDFromContext(r.Context())
	if !ok {
		myErr.SendErrorTo(w, myErr.ErrNoAuth, http.StatusUnauthorized, h.Logger)
		return
	}

	var input types.AddItem
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		myErr.SendErrorTo(w, myErr.ErrInvalidJSONPayload, http.StatusBadRequest, h.Logger)
		return
	}
	if _, err := uuid.Parse(input.ProductID); err != nil {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	line, err := h.Basket.AddItem(r.Context(), userID, input.ProductID, input.Quantity)
	if err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	h.sendEvent(r, userID, kafka.EventTypeAddToBasket, input.ProductID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(line); err != nil {
		h.Logger.Warnw("error writing response", "err", err)
		return
	}

	h.Logger.Infof("added %d x %s to basket of user %s", input.Quantity, input.ProductID, userID)
}

// Update - PUT /basket/item/{productID}
// Выставляет точное количество, ноль удаляет строку
func (h *BasketHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := contextutil.GetUserIDFromContext(r.Context())
	if !ok {
		myErr.SendErrorTo(w, myErr.ErrNoAuth, http.StatusUnauthorized, h.Logger)
		return
	}

	productID := mux.Vars(r)["productID"]
	if _, err := uuid.Parse(productID); err != nil {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	var input types.SetQuantity
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		myErr.SendErrorTo(w, myErr.ErrInvalidJSONPayload, http.StatusBadRequest, h.Logger)
		return
	}

	line, err := h.Basket.UpdateItemQuantity(r.Context(), userID, productID, input.Quantity)
	if err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	if input.Quantity == 0 {
		h.sendEvent(r, userID, kafka.EventTypeRemoveFromBasket, productID)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(line); err != nil {
		h.Logger.Warnw("error writing response", "err", err)
		return
	}

	h.Logger.Infof("set quantity of %s to %d for user %s", productID, input.Quantity, userID)
}

// Remove - DELETE /basket/item/{productID}
func (h *BasketHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := contextutil.GetUserIDFromContext(r.Context())
	if !ok {
		myErr.SendErrorTo(w, myErr.ErrNoAuth, http.StatusUnauthorized, h.Logger)
		return
	}

	productID := mux.Vars(r)["productID"]
	if _, err := uuid.Parse(productID); err != nil {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	if err := h.Basket.RemoveItem(r.Context(), userID, productID); err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	h.sendEvent(r, userID, kafka.EventTypeRemoveFromBasket, productID)

	w.WriteHeader(http.StatusOK)
	h.Logger.Infof("removed %s from basket of user %s", productID, userID)
}

// Clear - DELETE /basket
// Отказ возврата остатков по отдельным строкам не валит операцию:
// корзина чистится, а предупреждение уходит в ответе
func (h *BasketHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := contextutil.GetUserIDFromContext(r.Context())
	if !ok {
		myErr.SendErrorTo(w, myErr.ErrNoAuth, http.StatusUnauthorized, h.Logger)
		return
	}

	err := h.Basket.ClearBasket(r.Context(), userID)
	if err != nil && !errors.Is(err, myErr.ErrStockNotReleased) {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	resp := map[string]string{"status": "cleared"}
	if err != nil {
		resp["warning"] = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Logger.Warnw("error writing response", "err", err)
		return
	}

	h.Logger.Infof("basket cleared for user %s", userID)
}

func (h *BasketHandler) sendEvent(r *http.Request, userID string, eventType kafka.EventType, productID string) {
	if h.EventProducer == nil {
		return
	}

	var categories []int
	p, err := h.ProductRepo.GetByID(productID)
	if err != nil {
		h.Logger.Warnf("failed to fetch product %s for analytics: %v", productID, err)
	} else {
		categories = []int{p.CategoryID}
	}

	event := kafka.Event{
		UserID:     userID,
		Type:       eventType,
		Categories: categories,
		Timestamp:  time.Now(),
	}
	if err := h.EventProducer.SendEvent(r.Context(), event); err != nil {
		h.Logger.Warnf("failed to send %s event: %v", eventType, err)
	}
}
