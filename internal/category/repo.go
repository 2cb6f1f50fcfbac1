package category

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	myErr "lavka-main/internal/types/errors"
	types "lavka-main/internal/types/category"
)

type CategoryDBRepository struct {
	DB     *sql.DB
	Logger *zap.SugaredLogger
}

func NewCategoryDBRepository(db *sql.DB, l *zap.SugaredLogger) *CategoryDBRepository {
	return &CategoryDBRepository{
		DB:     db,
		Logger: l,
	}
}

func (cr *CategoryDBRepository) Create(c types.CreateCategory) (*Category, error) {
	var newCat Category

	query := `
	INSERT INTO category (name, description)
	VALUES ($1, $2)
	RETURNING id, name, description
	`

	err := cr.DB.QueryRow(query, c.Name, c.Description).
		Scan(&newCat.ID, &newCat.Name, &newCat.Description)
	if err != nil {
		cr.Logger.Errorf("Ошибка при создании категории: %v", err)
		return nil, myErr.ErrDBInternal
	}

	return &newCat, nil
}

func (cr *CategoryDBRepository) GetByID(id int) (*Category, error) {
	var c Category

	query := `
	SELECT id, name, description
	FROM category
	WHERE id = $1
	`

	err := cr.DB.QueryRow(query, id).Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, myErr.ErrNotFound
		}
		cr.Logger.Errorf("Ошибка при получении категории: %v", err)
		return nil, myErr.ErrDBInternal
	}

	return &c, nil
}

func (cr *CategoryDBRepository) List() ([]Category, error) {
	query := `
	SELECT id, name, description
	FROM category
	ORDER BY id
	`

	rows, err := cr.DB.Query(query)
	if err != nil {
		cr.Logger.Errorf("Ошибка при получении списка категорий: %v", err)
		return nil, myErr.ErrDBInternal
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, myErr.ErrDBInternal
		}
		categories = append(categories, c)
	}

	return categories, nil
}

func (cr *CategoryDBRepository) Update(id int, c types.ChangeCategory) (*Category, error) {
	fields := []string{}
	args := []interface{}{}
	argID := 1

	if c.Name != "" {
		fields = append(fields, "name = $"+strconv.Itoa(argID))
		args = append(args, c.Name)
		argID++
	}
	if c.Description != "" {
		fields = append(fields, "description = $"+strconv.Itoa(argID))
		args = append(args, c.Description)
		argID++
	}

	if len(fields) == 0 {
		return cr.GetByID(id)
	}

	query := "UPDATE category SET " + strings.Join(fields, ", ") + " WHERE id = $" + strconv.Itoa(argID) // nolint:gosec
	args = append(args, id)

	res, err := cr.DB.Exec(query, args...)
	if err != nil {
		cr.Logger.Errorf("Ошибка при обновлении категории: %v", err)
		return nil, myErr.ErrDBInternal
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return nil, myErr.ErrDBInternal
	}
	if rowsAffected == 0 {
		return nil, myErr.ErrNotFound
	}

	return cr.GetByID(id)
}

func (cr *CategoryDBRepository) Delete(id int) error {
	res, err := cr.DB.Exec(`DELETE FROM category WHERE id = $1`, id)
	if err != nil {
		cr.Logger.Errorf("Ошибка при удалении категории: %v", err)
		return myErr.ErrDBInternal
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return myErr.ErrDBInternal
	}
	if rowsAffected == 0 {
		return myErr.ErrNotFound
	}

	return nil
}
