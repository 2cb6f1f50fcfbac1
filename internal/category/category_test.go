package category

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	myErr "lavka-main/internal/types/errors"
	types "lavka-main/internal/types/category"
)

func setup(t *testing.T) (*CategoryDBRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("ошибка при создании mock db: %s", err)
	}

	logger := zaptest.NewLogger(t).Sugar()
	repo := &CategoryDBRepository{
		DB:     db,
		Logger: logger,
	}

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name          string
		mockBehavior  func(mock sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "успешное создание",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "name", "description"}).
					AddRow(1, "Электроника", "Гаджеты и техника")
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO category (name, description)")).
					WithArgs("Электроника", "Гаджеты и техника").
					WillReturnRows(rows)
			},
			expectedError: nil,
		},
		{
			name: "ошибка БД",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO category (name, description)")).
					WithArgs("Электроника", "Гаджеты и техника").
					WillReturnError(errors.New("db error"))
			},
			expectedError: myErr.ErrDBInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setup(t)
			defer cleanup()

			tt.mockBehavior(mock)

			c, err := repo.Create(types.CreateCategory{Name: "Электроника", Description: "Гаджеты и техника"})
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedError))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 1, c.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGetByID(t *testing.T) {
	repo, mock, cleanup := setup(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "name", "description"}).
		AddRow(7, "Книги", "")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, description FROM category WHERE id = $1")).
		WithArgs(7).
		WillReturnRows(rows)

	c, err := repo.GetByID(7)
	assert.NoError(t, err)
	assert.Equal(t, "Книги", c.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList(t *testing.T) {
	repo, mock, cleanup := setup(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "name", "description"}).
		AddRow(1, "Электроника", "").
		AddRow(2, "Книги", "")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, description FROM category ORDER BY id")).
		WillReturnRows(rows)

	categories, err := repo.List()
	assert.NoError(t, err)
	assert.Len(t, categories, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name          string
		mockBehavior  func(mock sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "успешное удаление",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM category WHERE id = $1")).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			expectedError: nil,
		},
		{
			name: "категория не найдена",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM category WHERE id = $1")).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError: myErr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setup(t)
			defer cleanup()

			tt.mockBehavior(mock)

			err := repo.Delete(1)
			if tt.expectedError != nil {
				assert.True(t, errors.Is(err, tt.expectedError))
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
