package repositories

import (
	"context"

	"gorm.io/gorm"

	gormModels "karaoke-events/kjhub/internal/models/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *gormModels.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return writeErr("failed to create category", err, "Category already exists")
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*gormModels.Category, error) {
	var category gormModels.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, readErr("failed to fetch category", err, "Category not found")
	}
	return &category, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]gormModels.Category, error) {
	var categories []gormModels.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, readErr("failed to list categories", err, "")
	}
	return categories, nil
}
