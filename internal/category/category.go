package category

import (
	types "lavka-main/internal/types/category"
)

// Category структура категории товаров
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryRepo интерфейс для работы репозитория категорий
//
//go:generate mockgen -source=category.go -destination=../mocks/mock_category_repo.go -package=mocks
type CategoryRepo interface {
	Create(c types.CreateCategory) (*Category, error)
	GetByID(id int) (*Category, error)
	List() ([]Category, error)
	Update(id int, c types.ChangeCategory) (*Category, error)
	Delete(id int) error
}
