package service

import "consistency-tracker/internal/model"

// CategoryService provides helpers around the fixed category table.
type CategoryService struct{}

func NewCategoryService() *CategoryService {
	return &CategoryService{}
}

func (s *CategoryService) List() []model.CategoryInfo {
	out := make([]model.CategoryInfo, len(model.Categories))
	copy(out, model.Categories)
	return out
}

// Parse validates a category name or label, using fallback for empty input.
func (s *CategoryService) Parse(raw string, fallback model.Category) (model.Category, error) {
	category, err := model.ParseCategory(raw, fallback)
	if err != nil {
		return "", invalid("%v", err)
	}
	return category, nil
}
