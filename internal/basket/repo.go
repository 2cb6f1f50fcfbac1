package basket

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	myErr "lavka-main/internal/types/errors"
)

type BasketDBRepository struct {
	DB     *sql.DB
	Logger *zap.SugaredLogger
}

func NewBasketDBRepository(db *sql.DB, logger *zap.SugaredLogger) *BasketDBRepository {
	return &BasketDBRepository{
		DB:     db,
		Logger: logger,
	}
}

// AddItem списывает qty со склада и добавляет qty к строке корзины
// одной транзакцией. Условное списание сериализуется блокировкой
// строки товара в Postgres, поэтому два конкурентных добавления
// не могут оба пройти по одному остатку.
func (br *BasketDBRepository) AddItem(ctx context.Context, userID, productID string, qty int) (int, error) {
	tx, err := br.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, myErr.ErrDBInternal
	}
	defer tx.Rollback() // nolint:errcheck

	if err := decreaseStockTx(ctx, tx, productID, qty); err != nil {
		return 0, err
	}

	var newQuantity int
	err = tx.QueryRowContext(ctx, `
	INSERT INTO basket (user_id, product_id, quantity)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id, product_id)
	DO UPDATE SET quantity = basket.quantity + EXCLUDED.quantity
	RETURNING quantity
	`, userID, productID, qty).Scan(&newQuantity)
	if err != nil {
		br.Logger.Errorf("Ошибка при добавлении товара %s в корзину: %v", productID, err)
		return 0, myErr.ErrDBInternal
	}

	if err := tx.Commit(); err != nil {
		return 0, myErr.ErrDBInternal
	}

	return newQuantity, nil
}

// SetQuantity выставляет точное количество в строке корзины.
// Положительная дельта списывается со склада, отрицательная возвращается.
func (br *BasketDBRepository) SetQuantity(ctx context.Context, userID, productID string, newQuantity int) (int, error) {
	tx, err := br.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, myErr.ErrDBInternal
	}
	defer tx.Rollback() // nolint:errcheck

	var current int
	err = tx.QueryRowContext(ctx, `
	SELECT quantity FROM basket
	WHERE user_id = $1 AND product_id = $2
	FOR UPDATE
	`, userID, productID).Scan(&current)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			br.Logger.Errorf("Ошибка при чтении строки корзины: %v", err)
			return 0, myErr.ErrDBInternal
		}
		current = 0
	}

	delta := newQuantity - current
	switch {
	case delta > 0:
		if err := decreaseStockTx(ctx, tx, productID, delta); err != nil {
			return 0, err
		}
	case delta < 0:
		if err := br.increaseStockTx(ctx, tx, productID, -delta); err != nil {
			return 0, err
		}
	default:
		// Склад не трогаем, но исчезнувший товар все равно ошибка
		var exists bool
		err = tx.QueryRowContext(ctx, `
		SELECT TRUE FROM product WHERE id = $1
		`, productID).Scan(&exists)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, myErr.ErrNotFound
			}
			br.Logger.Errorf("Ошибка при проверке товара %s: %v", productID, err)
			return 0, myErr.ErrDBInternal
		}
	}

	if newQuantity == 0 {
		_, err = tx.ExecContext(ctx, `
		DELETE FROM basket WHERE user_id = $1 AND product_id = $2
		`, userID, productID)
	} else {
		_, err = tx.ExecContext(ctx, `
		INSERT INTO basket (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity
		`, userID, productID, newQuantity)
	}
	if err != nil {
		br.Logger.Errorf("Ошибка при обновлении строки корзины: %v", err)
		return 0, myErr.ErrDBInternal
	}

	if err := tx.Commit(); err != nil {
		return 0, myErr.ErrDBInternal
	}

	return newQuantity, nil
}

// Remove удаляет строку корзины и возвращает резерв на склад.
// Отсутствие строки не ошибка
func (br *BasketDBRepository) Remove(ctx context.Context, userID, productID string) (int, error) {
	tx, err := br.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, myErr.ErrDBInternal
	}
	defer tx.Rollback() // nolint:errcheck

	var reserved int
	err = tx.QueryRowContext(ctx, `
	SELECT quantity FROM basket
	WHERE user_id = $1 AND product_id = $2
	FOR UPDATE
	`, userID, productID).Scan(&reserved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		br.Logger.Errorf("Ошибка при чтении строки корзины: %v", err)
		return 0, myErr.ErrDBInternal
	}

	if err := br.increaseStockTx(ctx, tx, productID, reserved); err != nil {
		return 0, err
	}

	_, err = tx.ExecContext(ctx, `
	DELETE FROM basket WHERE user_id = $1 AND product_id = $2
	`, userID, productID)
	if err != nil {
		br.Logger.Errorf("Ошибка при удалении строки корзины: %v", err)
		return 0, myErr.ErrDBInternal
	}

	if err := tx.Commit(); err != nil {
		return 0, myErr.ErrDBInternal
	}

	return reserved, nil
}

func (br *BasketDBRepository) Quantities(ctx context.Context, userID string) ([]Item, error) {
	rows, err := br.DB.QueryContext(ctx, `
	SELECT product_id, quantity FROM basket
	WHERE user_id = $1
	`, userID)
	if err != nil {
		br.Logger.Errorf("Ошибка при получении корзины клиента %v: %v", userID, err)
		return nil, myErr.ErrDBInternal
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
			return nil, myErr.ErrDBInternal
		}
		items = append(items, item)
	}

	return items, nil
}

// decreaseStockTx условно списывает qty со склада внутри транзакции.
// При нулевом числе затронутых строк различает отсутствие товара
// и нехватку остатка.
func decreaseStockTx(ctx context.Context, tx *sql.Tx, productID string, qty int) error {
	res, err := tx.ExecContext(ctx, `
	UPDATE product
	SET stock_quantity = stock_quantity - $2
	WHERE id = $1 AND stock_quantity >= $2
	`, productID, qty)
	if err != nil {
		return myErr.ErrDBInternal
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return myErr.ErrDBInternal
	}
	if rowsAffected == 1 {
		return nil
	}

	var exists bool
	err = tx.QueryRowContext(ctx, `
	SELECT TRUE FROM product WHERE id = $1
	`, productID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return myErr.ErrNotFound
		}
		return myErr.ErrDBInternal
	}

	return myErr.ErrInsufficientStock
}

func (br *BasketDBRepository) increaseStockTx(ctx context.Context, tx *sql.Tx, productID string, qty int) error {
	res, err := tx.ExecContext(ctx, `
	UPDATE product
	SET stock_quantity = stock_quantity + $2
	WHERE id = $1
	`, productID, qty)
	if err != nil {
		return myErr.ErrDBInternal
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return myErr.ErrDBInternal
	}
	if rowsAffected == 0 {
		// Товар удален из каталога: возвращать резерв некуда,
		// строку корзины все равно чистим
		br.Logger.Warnf("Товар %s отсутствует, резерв %d не возвращен на склад", productID, qty)
	}

	return nil
}
