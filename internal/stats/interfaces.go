package stats

import (
	"context"

	"lavka-main/internal/kafka"
)

// StatsRepo - интерфейс репозитория статистики по категориям.
type StatsRepo interface {
	UpdateWeights(ctx context.Context, userID string, weights map[int]int) error
	GetTopCategories(ctx context.Context, userID string, limit int) ([]int, error)
	GetCategoryTotals(ctx context.Context) (map[int]int, error)
}

// StatsService - интерфейс сервиса статистики.
type StatsService interface {
	ProcessEvent(ctx context.Context, event kafka.Event) error
	GetTopCategories(ctx context.Context, userID string, limit int) ([]int, error)
	GetCategoryTotals(ctx context.Context) (map[int]int, error)
}
