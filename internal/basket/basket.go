package basket

import (
	"context"
)

// Item хранимая строка корзины: ссылка на товар плюс желаемое количество.
// Корзина хранит только количества, данные товара джойнятся при чтении.
type Item struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// BasketRepo транзакционное хранилище корзины.
// Каждая мутация меняет строку корзины и складской остаток
// одной транзакцией: частичных изменений не бывает.
//
//go:generate mockgen -source=basket.go -destination=../mocks/mock_basket_repo.go -package=mocks
type BasketRepo interface {
	// AddItem добавляет qty к строке корзины и списывает qty со склада.
	// Возвращает итоговое количество в строке.
	// ErrNotFound если товара нет, ErrInsufficientStock если остатка не хватает
	AddItem(ctx context.Context, userID, productID string, qty int) (int, error)
	// SetQuantity выставляет точное количество, сводя дельту со складом.
	// newQuantity == 0 удаляет строку и возвращает весь резерв на склад
	SetQuantity(ctx context.Context, userID, productID string, newQuantity int) (int, error)
	// Remove удаляет строку корзины, возвращая резерв на склад.
	// Отсутствие строки не ошибка: возвращается 0
	Remove(ctx context.Context, userID, productID string) (int, error)
	// Quantities возвращает все строки корзины пользователя
	Quantities(ctx context.Context, userID string) ([]Item, error)
}
