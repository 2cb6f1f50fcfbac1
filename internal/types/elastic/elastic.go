package elastic

// ElasticDoc - структура документа товара для хранения в ES
type ElasticDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    int    `json:"category,omitempty"`
	Price       int64  `json:"price"`
}
