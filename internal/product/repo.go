package product

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"

	myErr "lavka-main/internal/types/errors"
	types "lavka-main/internal/types/product"
)

type ProductDBRepository struct {
	DB     *sql.DB
	Logger *zap.SugaredLogger
}

func NewProductDBRepository(db *sql.DB, l *zap.SugaredLogger) *ProductDBRepository {
	return &ProductDBRepository{
		DB:     db,
		Logger: l,
	}
}

const productColumns = "id, name, description, price, stock_quantity, category_id, is_active, created_at"

func scanProduct(row interface{ Scan(...interface{}) error }, p *Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.StockQuantity,
		&p.CategoryID,
		&p.IsActive,
		&p.CreatedAt,
	)
}

func (pr *ProductDBRepository) Create(cp types.CreateProduct) (*Product, error) {
	var newProduct Product

	query := `
	INSERT INTO product (
		name,
		description,
		price,
		stock_quantity,
		category_id
	) VALUES ($1, $2, $3, $4, $5)
	RETURNING ` + productColumns

	row := pr.DB.QueryRow(
		query,
		cp.Name,
		cp.Description,
		cp.Price,
		cp.StockQuantity,
		cp.CategoryID,
	)
	if err := scanProduct(row, &newProduct); err != nil {
		pr.Logger.Errorf("Ошибка при создании товара: %v", err)
		return nil, myErr.ErrDBInternal
	}

	return &newProduct, nil
}

func (pr *ProductDBRepository) GetByID(id string) (*Product, error) {
	var p Product

	query := `
	SELECT ` + productColumns + `
	FROM product
	WHERE id = $1
	`

	if err := scanProduct(pr.DB.QueryRow(query, id), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, myErr.ErrNotFound
		}
		pr.Logger.Errorf("Ошибка при получении товара по ID: %v", err)
		return nil, myErr.ErrDBInternal
	}

	return &p, nil
}

func (pr *ProductDBRepository) ListByCategory(categoryID int) ([]Product, error) {
	query := `
	SELECT ` + productColumns + `
	FROM product
	WHERE category_id = $1 AND is_active = TRUE
	ORDER BY created_at DESC
	`

	rows, err := pr.DB.Query(query, categoryID)
	if err != nil {
		pr.Logger.Errorf("Ошибка при получении товаров категории %d: %v", categoryID, err)
		return nil, myErr.ErrDBInternal
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, myErr.ErrDBInternal
		}
		products = append(products, p)
	}

	return products, nil
}

func (pr *ProductDBRepository) Update(id string, cp types.ChangeProduct) (*Product, error) {
	fields := []string{}
	args := []interface{}{}
	argID := 1

	// Динамически добавляем поля в обновление
	if cp.Name != "" {
		fields = append(fields, "name = $"+strconv.Itoa(argID))
		args = append(args, cp.Name)
		argID++
	}
	if cp.Description != "" {
		fields = append(fields, "description = $"+strconv.Itoa(argID))
		args = append(args, cp.Description)
		argID++
	}
	if cp.Price > 0 {
		fields = append(fields, "price = $"+strconv.Itoa(argID))
		args = append(args, cp.Price)
		argID++
	}
	if cp.CategoryID > 0 {
		fields = append(fields, "category_id = $"+strconv.Itoa(argID))
		args = append(args, cp.CategoryID)
		argID++
	}

	if len(fields) == 0 {
		return pr.GetByID(id)
	}

	query := "UPDATE product SET " + strings.Join(fields, ", ") + " WHERE id = $" + strconv.Itoa(argID) // nolint:gosec
	args = append(args, id)

	res, err := pr.DB.Exec(query, args...)
	if err != nil {
		pr.Logger.Errorf("Ошибка при обновлении товара: %v", err)
		return nil, myErr.ErrDBInternal
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return nil, myErr.ErrDBInternal
	}
	if rowsAffected == 0 {
		return nil, myErr.ErrNotFound
	}

	return pr.GetByID(id)
}

func (pr *ProductDBRepository) Delete(id string) error {
	res, err := pr.DB.Exec(`UPDATE product SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		pr.Logger.Errorf("Ошибка при деактивации товара: %v", err)
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

func (pr *ProductDBRepository) Search(query string) ([]Product, error) {
	query = strings.ToLower(query)
	sqlQuery := `
	SELECT ` + productColumns + `,
		(LENGTH(name) - LENGTH(REPLACE(LOWER(name), $1, ''))) AS score
	FROM product
	WHERE is_active = TRUE
	ORDER BY score DESC
	LIMIT 10
	`

	rows, err := pr.DB.Query(sqlQuery, query)
	if err != nil {
		pr.Logger.Errorf("Ошибка при поиске товаров: %v", err)
		return nil, myErr.ErrDBInternal
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		var score int
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.StockQuantity,
			&p.CategoryID,
			&p.IsActive,
			&p.CreatedAt,
			&score,
		)
		if err != nil {
			return nil, myErr.ErrDBInternal
		}
		products = append(products, p)
	}

	return products, nil
}

// DecreaseStock атомарно списывает qty единиц товара.
// Условие stock_quantity >= qty в самом UPDATE, поэтому
// два конкурентных списания не могут оба пройти по одному остатку.
func (pr *ProductDBRepository) DecreaseStock(id string, qty int) (bool, error) {
	query := `
	UPDATE product
	SET stock_quantity = stock_quantity - $2
	WHERE id = $1 AND stock_quantity >= $2
	`

	res, err := pr.DB.Exec(query, id, qty)
	if err != nil {
		pr.Logger.Errorf("Ошибка при списании остатка товара %s: %v", id, err)
		return false, myErr.ErrDBInternal
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, myErr.ErrDBInternal
	}

	return rowsAffected == 1, nil
}

// IncreaseStock атомарно возвращает qty единиц товара на склад
func (pr *ProductDBRepository) IncreaseStock(id string, qty int) (bool, error) {
	query := `
	UPDATE product
	SET stock_quantity = stock_quantity + $2
	WHERE id = $1
	`

	res, err := pr.DB.Exec(query, id, qty)
	if err != nil {
		pr.Logger.Errorf("Ошибка при возврате остатка товара %s: %v", id, err)
		return false, myErr.ErrDBInternal
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, myErr.ErrDBInternal
	}

	return rowsAffected == 1, nil
}

func (pr *ProductDBRepository) GetInfoForBasket(ids []string) ([]types.InfoForBasket, error) {
	if len(ids) == 0 {
		return []types.InfoForBasket{}, nil
	}

	query := `
	SELECT id, name, price, stock_quantity
	FROM product
	WHERE id = ANY($1)
	`

	rows, err := pr.DB.Query(query, pq.Array(ids))
	if err != nil {
		pr.Logger.Errorf("Ошибка при получении данных товаров для корзины: %v", err)
		return nil, myErr.ErrDBInternal
	}
	defer rows.Close()

	var infos []types.InfoForBasket
	for rows.Next() {
		var info types.InfoForBasket
		if err := rows.Scan(&info.ID, &info.Name, &info.Price, &info.StockQuantity); err != nil {
			return nil, myErr.ErrDBInternal
		}
		infos = append(infos, info)
	}

	return infos, nil
}
