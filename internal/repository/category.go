package repository

import (
	"context"
	"errors"

	"bizrate/internal/cache"
	"bizrate/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	List(ctx context.Context, limit, offset int) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("Category with this name already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateCategoryList(ctx)
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

// List pages the categories in memory on top of a cached full list. The
// catalog is small enough that one key covers every page and stays trivially
// invalidatable.
func (r *categoryRepository) List(ctx context.Context, limit, offset int) ([]models.Category, error) {
	var all []models.Category
	err := cache.Aside(ctx, cache.CategoryListKey, &all, cache.CategoryListTTL, func() error {
		return r.db.WithContext(ctx).Order("id").Find(&all).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if offset >= len(all) {
		return []models.Category{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCategoryList(ctx)
	return nil
}

// Delete removes the category; its businesses go with it via the FK cascade.
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Category{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCategoryList(ctx)
	return nil
}
