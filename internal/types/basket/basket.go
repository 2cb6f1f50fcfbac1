package basket

// Line строка корзины, обогащённая живыми данными товара.
// Проекция для выдачи, никогда не хранится.
type Line struct {
	ProductID         string `json:"product_id"`
	Name              string `json:"name"`
	UnitPrice         int64  `json:"unit_price"`
	QuantityRequested int    `json:"quantity_requested"`
	StockQuantity     int    `json:"stock_quantity"`
	LineTotal         int64  `json:"line_total"`
	Available         bool   `json:"available"`
}

// Summary агрегат по всем доступным строкам корзины
type Summary struct {
	ItemCount     int   `json:"item_count"`
	TotalQuantity int   `json:"total_quantity"`
	TotalPrice    int64 `json:"total_price"`
}

// View ответ ручки просмотра корзины
type View struct {
	Lines   []Line  `json:"lines"`
	Summary Summary `json:"summary"`
}

// AddItem тело запроса на добавление товара в корзину
type AddItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// SetQuantity тело запроса на установку точного количества
type SetQuantity struct {
	Quantity int `json:"quantity"`
}
