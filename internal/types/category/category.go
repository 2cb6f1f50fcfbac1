package category

// CreateCategory форма создания категории
type CreateCategory struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ChangeCategory поля категории доступные для изменения
type ChangeCategory struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
