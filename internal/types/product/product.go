package product

// CreateProduct форма создания товара
type CreateProduct struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         int64  `json:"price"`
	StockQuantity int    `json:"stock_quantity"`
	CategoryID    int    `json:"category_id"`
}

// ChangeProduct поля товара доступные для изменения.
// Нулевые значения означают "не менять".
type ChangeProduct struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	CategoryID  int    `json:"category_id"`
}

// InfoForBasket срез данных товара для джойна с корзиной
type InfoForBasket struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	StockQuantity int    `json:"stock_quantity"`
}

// AdjustStock запрос на ручную корректировку остатка (приход/списание)
type AdjustStock struct {
	Delta int `json:"delta"`
}
