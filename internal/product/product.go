package product

import (
	"time"

	types "lavka-main/internal/types/product"
)

// Product структура товара каталога.
// StockQuantity - авторитетный остаток, его меняют только DecreaseStock/IncreaseStock.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         int64     `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	CategoryID    int       `json:"category_id"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// ProductRepo интерфейс хранилища товаров
//
//go:generate mockgen -source=product.go -destination=../mocks/mock_product_repo.go -package=mocks
type ProductRepo interface {
	Create(p types.CreateProduct) (*Product, error)
	GetByID(id string) (*Product, error)
	ListByCategory(categoryID int) ([]Product, error)
	Update(id string, p types.ChangeProduct) (*Product, error)
	// Delete деактивирует товар (мягкое удаление)
	Delete(id string) error
	Search(query string) ([]Product, error)
	// DecreaseStock атомарно списывает qty со склада.
	// Возвращает false если остатка не хватает
	DecreaseStock(id string, qty int) (bool, error)
	// IncreaseStock атомарно возвращает qty на склад
	IncreaseStock(id string, qty int) (bool, error)
	// GetInfoForBasket возвращает срез данных товаров для джойна с корзиной
	GetInfoForBasket(ids []string) ([]types.InfoForBasket, error)
}
