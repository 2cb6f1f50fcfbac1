package basket

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	myErr "lavka-main/internal/types/errors"
)

func setup(t *testing.T) (*BasketDBRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("ошибка при создании mock db: %s", err)
	}

	logger := zaptest.NewLogger(t).Sugar()
	repo := &BasketDBRepository{
		DB:     db,
		Logger: logger,
	}

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

const (
	decreaseStockQuery = "UPDATE product SET stock_quantity = stock_quantity - $2 WHERE id = $1 AND stock_quantity >= $2"
	increaseStockQuery = "UPDATE product SET stock_quantity = stock_quantity + $2 WHERE id = $1"
	existsQuery        = "SELECT TRUE FROM product WHERE id = $1"
	selectLineQuery    = "SELECT quantity FROM basket WHERE user_id = $1 AND product_id = $2 FOR UPDATE"
	deleteLineQuery    = "DELETE FROM basket WHERE user_id = $1 AND product_id = $2"
)

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		mockBehavior  func(mock sqlmock.Sqlmock)
		expectedQty   int
		expectedError error
	}{
		{
			name: "успешное добавление",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(decreaseStockQuery)).
					WithArgs("p-1", 4).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO basket (user_id, product_id, quantity)")).
					WithArgs("u-1", "p-1", 4).
					WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(4))
				mock.ExpectCommit()
			},
			expectedQty: 4,
		},
		{
			name: "недостаточно остатка",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(decreaseStockQuery)).
					WithArgs("p-1", 4).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(regexp.QuoteMeta(existsQuery)).
					WithArgs("p-1").
					WillReturnRows(sqlmock.NewRows([]string{"bool"}).AddRow(true))
				mock.ExpectRollback()
			},
			expectedError: myErr.ErrInsufficientStock,
		},
		{
			name: "товар не найден",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(decreaseStockQuery)).
					WithArgs("p-1", 4).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(regexp.QuoteMeta(existsQuery)).
					WithArgs("p-1").
					WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			expectedError: myErr.ErrNotFound,
		},
		{
			name: "ошибка БД откатывает списание",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(decreaseStockQuery)).
					WithArgs("p-1", 4).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO basket (user_id, product_id, quantity)")).
					WithArgs("u-1", "p-1", 4).
					WillReturnError(errors.New("db error"))
				mock.ExpectRollback()
			},
			expectedError: myErr.ErrDBInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setup(t)
			defer cleanup()

			tt.mockBehavior(mock)

			qty, err := repo.AddItem(ctx, "u-1", "p-1", 4)
			if tt.expectedError != nil {
				assert.True(t, errors.Is(err, tt.expectedError))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedQty, qty)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSetQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("положительная дельта списывает остаток", func(t *testing.T) {
		repo, mock, cleanup := setup(t)
		defer cleanup()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectLineQuery)).
			WithArgs("u-1", "p-1").
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(3))
		mock.ExpectExec(regexp.QuoteMeta(decreaseStockQuery)).
			WithArgs("p-1", 4). // 7 - 3
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO basket (user_id, product_id, quantity)")).
			WithArgs("u-1", "p-1", 7).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		qty, err := repo.SetQuantity(ctx, "u-1", "p-1", 7)
		assert.NoError(t, err)
		assert.Equal(t, 7, qty)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("отрицательная дельта возвращает остаток", func(t *testing.T) {
		repo, mock, cleanup := setup(t)
		defer cleanup()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectLineQuery)).
			WithArgs("u-1", "p-1").
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(5))
		mock.ExpectExec(regexp.QuoteMeta(increaseStockQuery)).
			WithArgs("p-1", 3). // 5 - 2
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO basket (user_id, product_id, quantity)")).
			WithArgs("u-1", "p-1", 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		qty, err := repo.SetQuantity(ctx, "u-1", "p-1", 2)
		assert.NoError(t, err)
		assert.Equal(t, 2, qty)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ноль удаляет строку и возвращает весь резерв", func(t *testing.T) {
		repo, mock, cleanup := setup(t)
		defer cleanup()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectLineQuery)).
			WithArgs("u-1", "p-1").
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(5))
		mock.ExpectExec(regexp.QuoteMeta(increaseStockQuery)).
			WithArgs("p-1", 5).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(deleteLineQuery)).
			WithArgs("u-1", "p-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		qty, err := repo.SetQuantity(ctx, "u-1", "p-1", 0)
		assert.NoError(t, err)
		assert.Equal(t, 0, qty)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("нулевая дельта, товар исчез из каталога", func(t *testing.T) {
		repo, mock, cleanup := setup(t)
		defer cleanup()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectLineQuery)).
			WithArgs("u-1", "p-1").
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(3))
		mock.ExpectQuery(regexp.QuoteMeta(existsQuery)).
			WithArgs("p-1").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.SetQuantity(ctx, "u-1", "p-1", 3)
		assert.True(t, errors.Is(err, myErr.ErrNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("нулевая дельта, товар на месте", func(t *testing.T) {
		repo, mock, cleanup := setup(t)
		defer cleanup()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectLineQuery)).
			WithArgs("u-1", "p-1").
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(3))
		mock.ExpectQuery(regexp.QuoteMeta(existsQuery)).
			WithArgs("p-1").
			WillReturnRows(sqlmock.NewRows([]string{"bool"}).AddRow(true))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO basket (user_id, product_id, quantity)")).
			WithArgs("u-1", "p-1", 3).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		qty, err := repo.SetQuantity(ctx, "u-1", "p-1", 3)
		assert.NoError(t, err)
		assert.Equal(t, 3, qty)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("дельта больше остатка", func(t *testing.T) {
		repo, mock, cleanup := setup(t)
		defer cleanup()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectLineQuery)).
			WithArgs("u-1", "p-1").
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(3))
		mock.ExpectExec(regexp.QuoteMeta(decreaseStockQuery)).
			WithArgs("p-1", 97).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(existsQuery)).
			WithArgs("p-1").
			WillReturnRows(sqlmock.NewRows([]string{"bool"}).AddRow(true))
		mock.ExpectRollback()

		_, err := repo.SetQuantity(ctx, "u-1", "p-1", 100)
		assert.True(t, errors.Is(err, myErr.ErrInsufficientStock))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("успешное удаление возвращает резерв", func(t *testing.T) {
		repo, mock, cleanup := setup(t)
		defer cleanup()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectLineQuery)).
			WithArgs("u-1", "p-1").
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(4))
		mock.ExpectExec(regexp.QuoteMeta(increaseStockQuery)).
			WithArgs("p-1", 4).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(deleteLineQuery)).
			WithArgs("u-1", "p-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		released, err := repo.Remove(ctx, "u-1", "p-1")
		assert.NoError(t, err)
		assert.Equal(t, 4, released)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("отсутствующая строка это no-op", func(t *testing.T) {
		repo, mock, cleanup := setup(t)
		defer cleanup()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectLineQuery)).
			WithArgs("u-1", "p-1").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		released, err := repo.Remove(ctx, "u-1", "p-1")
		assert.NoError(t, err)
		assert.Equal(t, 0, released)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("товар удален из каталога, строка все равно чистится", func(t *testing.T) {
		repo, mock, cleanup := setup(t)
		defer cleanup()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectLineQuery)).
			WithArgs("u-1", "p-1").
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(4))
		mock.ExpectExec(regexp.QuoteMeta(increaseStockQuery)).
			WithArgs("p-1", 4).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(deleteLineQuery)).
			WithArgs("u-1", "p-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		released, err := repo.Remove(ctx, "u-1", "p-1")
		assert.NoError(t, err)
		assert.Equal(t, 4, released)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestQuantities(t *testing.T) {
	ctx := context.Background()

	repo, mock, cleanup := setup(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"product_id", "quantity"}).
		AddRow("p-1", 2).
		AddRow("p-2", 7)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT product_id, quantity FROM basket WHERE user_id = $1")).
		WithArgs("u-1").
		WillReturnRows(rows)

	items, err := repo.Quantities(ctx, "u-1")
	assert.NoError(t, err)
	assert.Equal(t, []Item{{ProductID: "p-1", Quantity: 2}, {ProductID: "p-2", Quantity: 7}}, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}
