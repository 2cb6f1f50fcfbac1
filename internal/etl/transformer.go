package etl

import (
	"lavka-main/internal/product"
	"lavka-main/internal/types/elastic"

	"go.uber.org/zap"
)

type Transformer struct {
	Logger *zap.SugaredLogger
}

func NewTransformer(logger *zap.SugaredLogger) *Transformer {
	return &Transformer{
		Logger: logger,
	}
}

// Transform - переводит товары из формата хранения в PostgreSQL в ElasticDoc для хранения в ES
// Принимает массив Product, возвращает массив ElasticDoc
func (t *Transformer) Transform(input []product.Product) []elastic.ElasticDoc {
	docs := make([]elastic.ElasticDoc, 0, len(input))
	for _, p := range input {
		docs = append(docs, elastic.ElasticDoc{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.CategoryID,
			Price:       p.Price,
		})
	}

	t.Logger.Infof("Transformed %d docs succesfully", len(input))

	return docs
}
