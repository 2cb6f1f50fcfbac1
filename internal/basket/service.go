package basket

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"lavka-main/internal/product"
	types "lavka-main/internal/types/basket"
	myErr "lavka-main/internal/types/errors"
)

// BasketManager бизнес-операции над корзиной пользователя
//
//go:generate mockgen -source=service.go -destination=../mocks/mock_basket_manager.go -package=mocks
type BasketManager interface {
	AddItem(ctx context.Context, userID, productID string, quantity int) (*types.Line, error)
	UpdateItemQuantity(ctx context.Context, userID, productID string, newQuantity int) (*types.Line, error)
	RemoveItem(ctx context.Context, userID, productID string) error
	ClearBasket(ctx context.Context, userID string) error
	ViewBasket(ctx context.Context, userID string) (*types.View, error)
}

// Service реализует BasketManager поверх транзакционного BasketRepo.
// Мутации корзины одного пользователя сериализуются его мьютексом,
// корзины разных пользователей друг друга не блокируют.
type Service struct {
	Repo     BasketRepo
	Products product.ProductRepo
	Logger   *zap.SugaredLogger

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

func NewService(repo BasketRepo, products product.ProductRepo, logger *zap.SugaredLogger) *Service {
	return &Service{
		Repo:      repo,
		Products:  products,
		Logger:    logger,
		userLocks: make(map[string]*sync.Mutex),
	}
}

func (s *Service) lockFor(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}

	return lock
}

func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*types.Line, error) {
	if quantity <= 0 {
		return nil, myErr.ErrInvalidQuantity
	}

	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	newQuantity, err := s.Repo.AddItem(ctx, userID, productID, quantity)
	if err != nil {
		return nil, err
	}

	s.Logger.Infof("user %s added %d x %s to basket", userID, quantity, productID)

	return s.buildLine(ctx, productID, newQuantity)
}

func (s *Service) UpdateItemQuantity(ctx context.Context, userID, productID string, newQuantity int) (*types.Line, error) {
	if newQuantity < 0 {
		return nil, myErr.ErrInvalidQuantity
	}

	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	quantity, err := s.Repo.SetQuantity(ctx, userID, productID, newQuantity)
	if err != nil {
		return nil, err
	}

	s.Logger.Infof("user %s set quantity of %s to %d", userID, productID, newQuantity)

	if quantity == 0 {
		return &types.Line{ProductID: productID}, nil
	}

	return s.buildLine(ctx, productID, quantity)
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID string) error {
	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	released, err := s.Repo.Remove(ctx, userID, productID)
	if err != nil {
		return err
	}

	if released > 0 {
		s.Logger.Infof("user %s removed %s from basket, released %d", userID, productID, released)
	}

	return nil
}

// ClearBasket возвращает резерв каждой строки на склад.
// Отказ по одной строке не останавливает остальные: ошибки
// копятся и отдаются одной агрегированной
func (s *Service) ClearBasket(ctx context.Context, userID string) error {
	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	items, err := s.Repo.Quantities(ctx, userID)
	if err != nil {
		return err
	}

	var failed []string
	for _, item := range items {
		if _, err := s.Repo.Remove(ctx, userID, item.ProductID); err != nil {
			s.Logger.Warnf("failed to release basket line %s for user %s: %v", item.ProductID, userID, err)
			failed = append(failed, item.ProductID)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%w: products %v", myErr.ErrStockNotReleased, failed)
	}

	s.Logger.Infof("basket cleared for user %s, %d lines released", userID, len(items))

	return nil
}

// ViewBasket чистое чтение: джойнит количества корзины с живыми
// данными товаров. Исчезнувшие из каталога товары отдаются с
// available = false и не участвуют в итогах
func (s *Service) ViewBasket(ctx context.Context, userID string) (*types.View, error) {
	items, err := s.Repo.Quantities(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &types.View{Lines: []types.Line{}}
	if len(items) == 0 {
		return view, nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	infos, err := s.Products.GetInfoForBasket(ids)
	if err != nil {
		return nil, err
	}

	infoByID := make(map[string]int, len(infos))
	for i, info := range infos {
		infoByID[info.ID] = i
	}

	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}

		i, ok := infoByID[item.ProductID]
		if !ok {
			// Висячая ссылка: товар пропал из каталога
			view.Lines = append(view.Lines, types.Line{
				ProductID:         item.ProductID,
				QuantityRequested: item.Quantity,
				Available:         false,
			})
			continue
		}

		info := infos[i]
		line := types.Line{
			ProductID:         info.ID,
			Name:              info.Name,
			UnitPrice:         info.Price,
			QuantityRequested: item.Quantity,
			StockQuantity:     info.StockQuantity,
			LineTotal:         info.Price * int64(item.Quantity),
			Available:         info.StockQuantity >= item.Quantity,
		}
		view.Lines = append(view.Lines, line)

		view.Summary.ItemCount++
		view.Summary.TotalQuantity += line.QuantityRequested
		view.Summary.TotalPrice += line.LineTotal
	}

	return view, nil
}

func (s *Service) buildLine(ctx context.Context, productID string, quantity int) (*types.Line, error) {
	infos, err := s.Products.GetInfoForBasket([]string{productID})
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return &types.Line{ProductID: productID, QuantityRequested: quantity}, nil
	}

	info := infos[0]
	return &types.Line{
		ProductID:         info.ID,
		Name:              info.Name,
		UnitPrice:         info.Price,
		QuantityRequested: quantity,
		StockQuantity:     info.StockQuantity,
		LineTotal:         info.Price * int64(quantity),
		Available:         info.StockQuantity >= quantity,
	}, nil
}
