package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"lavka-main/internal/contextutil"
	"lavka-main/internal/kafka"
	"lavka-main/internal/product"
	esDoc "lavka-main/internal/types/elastic"
	myErr "lavka-main/internal/types/errors"
	types "lavka-main/internal/types/product"
	"lavka-main/internal/user"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NameSearcher интерфейс полнотекстового поиска по имени товара
type NameSearcher interface {
	SearchByName(ctx context.Context, query string) ([]esDoc.ElasticDoc, error)
}

// ProductHandler ручки каталога товаров.
// Чтение и поиск открыты всем, мутации и корректировка остатков только админу
type ProductHandler struct {
	Logger        *zap.SugaredLogger
	ProductRepo   product.ProductRepo
	UserRepo      user.UserRepo
	EventProducer kafka.EventProducer
	Searcher      NameSearcher
}

func NewProductHandler(
	l *zap.SugaredLogger,
	pr product.ProductRepo,
	ur user.UserRepo,
	ep kafka.EventProducer,
	searcher NameSearcher,
) *ProductHandler {
	return &ProductHandler{
		Logger:        l,
		ProductRepo:   pr,
		UserRepo:      ur,
		EventProducer: ep,
		Searcher:      searcher,
	}
}

// Create - POST /product
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := h.requireAdmin(r); err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	var input types.CreateProduct
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		myErr.SendErrorTo(w, myErr.ErrInvalidJSONPayload, http.StatusBadRequest, h.Logger)
		return
	}
	if input.Name == "" {
		myErr.SendErrorTo(w, errors.New("product name is required"), http.StatusBadRequest, h.Logger)
		return
	}
	if input.Price < 0 || input.StockQuantity < 0 {
		myErr.SendErrorTo(w, errors.New("price and stock_quantity must be non-negative"), http.StatusBadRequest, h.Logger)
		return
	}

	p, err := h.ProductRepo.Create(input)
	if err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		h.Logger.Warnw("error writing response", "err", err)
		return
	}

	h.Logger.Infof("product created: %s", p.ID)
}

// GetByID - GET /product/{id}
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	p, err := h.ProductRepo.GetByID(id)
	if err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	// Просмотр карточки товара идет в аналитику
	h.sendEvent(r, kafka.EventTypeView, []int{p.CategoryID})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		h.Logger.Warnw("error writing response", "err", err)
		return
	}
}

// ListByCategory - GET /products/category/{id}
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	products, err := h.ProductRepo.ListByCategory(categoryID)
	if err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	if products == nil {
		products = []product.Product{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(products); err != nil {
		h.Logger.Warnw("error writing response", "err", err)
		return
	}
}

// Update - PUT /product/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := h.requireAdmin(r); err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	var input types.ChangeProduct
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		myErr.SendErrorTo(w, myErr.ErrInvalidJSONPayload, http.StatusBadRequest, h.Logger)
		return
	}

	p, err := h.ProductRepo.Update(id, input)
	if err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		h.Logger.Warnw("error writing response", "err", err)
		return
	}

	h.Logger.Infof("product updated: %s", id)
}

// Delete - DELETE /product/{id}, мягкое удаление
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.requireAdmin(r); err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	if err := h.ProductRepo.Delete(id); err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	w.WriteHeader(http.StatusOK)
	h.Logger.Infof("product deactivated: %s", id)
}

// Search - GET /products/search?q={query}
// Сначала полнотекстовый поиск в ES, при его недоступности SQL fallback
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		myErr.SendErrorTo(w, errors.New("missing query parameter"), http.StatusBadRequest, h.Logger)
		return
	}

	products, err := h.searchProducts(r.Context(), q)
	if err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	categories := make([]int, 0, len(products))
	catSet := make(map[int]struct{})
	for _, p := range products {
		if _, exists := catSet[p.CategoryID]; !exists {
			catSet[p.CategoryID] = struct{}{}
			categories = append(categories, p.CategoryID)
		}
	}
	if len(categories) > 0 {
		h.sendEvent(r, kafka.EventTypeSearch, categories)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(products); err != nil {
		h.Logger.Warnw("error writing response", "err", err)
		return
	}

	h.Logger.Infof("searched products with query: %s", q)
}

// AdjustStock - PATCH /product/{id}/stock
// Положительная дельта - приход, отрицательная - списание
func (h *ProductHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	if err := h.requireAdmin(r); err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	var input types.AdjustStock
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		myErr.SendErrorTo(w, myErr.ErrInvalidJSONPayload, http.StatusBadRequest, h.Logger)
		return
	}
	if input.Delta == 0 {
		myErr.SendErrorTo(w, myErr.ErrInvalidQuantity, http.StatusBadRequest, h.Logger)
		return
	}

	var ok bool
	var err error
	if input.Delta > 0 {
		ok, err = h.ProductRepo.IncreaseStock(id, input.Delta)
	} else {
		ok, err = h.ProductRepo.DecreaseStock(id, -input.Delta)
	}
	if err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}
	if !ok {
		// При приходе false значит товара нет, при списании - остатка не хватает
		if input.Delta > 0 {
			myErr.SendErrorTo(w, myErr.ErrNotFound, http.StatusNotFound, h.Logger)
		} else {
			myErr.SendErrorTo(w, myErr.ErrInsufficientStock, http.StatusConflict, h.Logger)
		}
		return
	}

	p, err := h.ProductRepo.GetByID(id)
	if err != nil {
		myErr.SendErrorTo(w, err, myErr.StatusFor(err), h.Logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		h.Logger.Warnw("error writing response", "err", err)
		return
	}

	h.Logger.Infof("stock adjusted for product %s by %d", id, input.Delta)
}

func (h *ProductHandler) searchProducts(ctx context.Context, q string) ([]product.Product, error) {
	if h.Searcher != nil {
		docs, err := h.Searcher.SearchByName(ctx, q)
		if err == nil {
			products := make([]product.Product, 0, len(docs))
			for _, doc := range docs {
				p, err := h.ProductRepo.GetByID(doc.ID)
				if err != nil {
					// Индекс может отставать от каталога
					h.Logger.Warnf("indexed product %s not found in catalog: %v", doc.ID, err)
					continue
				}
				products = append(products, *p)
			}
			return products, nil
		}
		h.Logger.Warnf("elasticsearch unavailable, falling back to SQL search: %v", err)
	}

	return h.ProductRepo.Search(q)
}

func (h *ProductHandler) sendEvent(r *http.Request, eventType kafka.EventType, categories []int) {
	if h.EventProducer == nil {
		return
	}

	userID, ok := contextutil.GetUserIDFromContext(r.Context())
	if !ok {
		// Анонимные просмотры и поиски в статистику не идут
		return
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

func (h *ProductHandler) requireAdmin(r *http.Request) error {
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
