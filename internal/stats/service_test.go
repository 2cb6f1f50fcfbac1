package stats

import (
	"context"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"lavka-main/internal/kafka"
)

// fakeRepo нужен для «подмены» StatsRepo в тестах.
type fakeRepo struct {
	called      bool
	lastUserID  string
	lastWeights map[int]int
	returnErr   error
}

func (f *fakeRepo) UpdateWeights(ctx context.Context, userID string, weights map[int]int) error {
	f.called = true
	f.lastUserID = userID
	// копируем map, чтобы избежать мутирования извне
	f.lastWeights = make(map[int]int)
	for k, v := range weights {
		f.lastWeights[k] = v
	}
	return f.returnErr
}

func (f *fakeRepo) GetTopCategories(ctx context.Context, userID string, limit int) ([]int, error) {
	return nil, nil
}

func (f *fakeRepo) GetCategoryTotals(ctx context.Context) (map[int]int, error) {
	return nil, nil
}

func zapTestLogger(t *testing.T) *zap.SugaredLogger {
	t.Helper()
	logger, err := zap.NewDevelopmentConfig().Build(zap.AddCallerSkip(1))
	if err != nil {
		t.Fatalf("не удалось создать zap-логгер: %v", err)
	}
	return logger.Sugar()
}

func TestService_ProcessEvent_EmptyUserID(t *testing.T) {
	repo := &fakeRepo{}
	service := NewService(repo, zapTestLogger(t))

	ctx := context.Background()
	evt := kafka.Event{
		UserID:     "", // пустой user
		Type:       kafka.EventTypeView,
		Categories: []int{1, 2},
	}

	if err := service.ProcessEvent(ctx, evt); err != nil {
		t.Errorf("expected no error when userID is empty, got %v", err)
	}
	if repo.called {
		t.Errorf("expected repo.UpdateWeights NOT to be called when userID is empty")
	}
}

func TestService_ProcessEvent_SearchEvent(t *testing.T) {
	repo := &fakeRepo{}
	service := NewService(repo, zapTestLogger(t))

	ctx := context.Background()
	evt := kafka.Event{
		UserID:     "u-1",
		Type:       kafka.EventTypeSearch,
		Categories: []int{3, 3, 5},
	}

	if err := service.ProcessEvent(ctx, evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.called {
		t.Fatalf("expected repo.UpdateWeights to be called")
	}
	expectedWeights := map[int]int{
		3: 2, // две встречи категории 3 → 2 * 1
		5: 1,
	}
	if !reflect.DeepEqual(repo.lastWeights, expectedWeights) {
		t.Errorf("expected weights %v, got %v", expectedWeights, repo.lastWeights)
	}
}

func TestService_ProcessEvent_AddToBasketEvent(t *testing.T) {
	repo := &fakeRepo{}
	service := NewService(repo, zapTestLogger(t))

	ctx := context.Background()
	evt := kafka.Event{
		UserID:     "u-2",
		Type:       kafka.EventTypeAddToBasket,
		Categories: []int{7, 9},
	}

	if err := service.ProcessEvent(ctx, evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// учитывается только первая категория, вес = 3
	expectedWeights := map[int]int{
		7: 3,
	}
	if !reflect.DeepEqual(repo.lastWeights, expectedWeights) {
		t.Errorf("expected weights %v, got %v", expectedWeights, repo.lastWeights)
	}
}

func TestService_ProcessEvent_UnknownType(t *testing.T) {
	repo := &fakeRepo{}
	service := NewService(repo, zapTestLogger(t))

	ctx := context.Background()
	evt := kafka.Event{
		UserID:     "u-3",
		Type:       kafka.EventType("checkout"),
		Categories: []int{1},
	}

	if err := service.ProcessEvent(ctx, evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.called {
		t.Errorf("expected repo.UpdateWeights NOT to be called for unknown event type")
	}
}
