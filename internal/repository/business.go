package repository

import (
	"context"
	"errors"

	"bizrate/internal/cache"
	"bizrate/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BusinessFilter narrows a business listing. Zero values mean "no filter".
type BusinessFilter struct {
	Search     string
	CategoryID uint
	Limit      int
	Offset     int
}

// BusinessRepository defines the interface for business data operations
type BusinessRepository interface {
	Create(ctx context.Context, business *models.Business) error
	GetByID(ctx context.Context, id uint) (*models.Business, error)
	GetBySupervisor(ctx context.Context, supervisorID uint) (*models.Business, error)
	List(ctx context.Context, filter BusinessFilter) ([]*models.Business, error)
	Update(ctx context.Context, business *models.Business) error
	Delete(ctx context.Context, id uint) error
}

type businessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository creates a new business repository
func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

// applyDetails adds the reviews_count subquery so every read path carries the
// computed count in a single query.
func (r *businessRepository) applyDetails(db *gorm.DB) *gorm.DB {
	return db.Select("businesses.*, " +
		"(SELECT COUNT(*) FROM reviews WHERE reviews.business_id = businesses.id) as reviews_count")
}

func (r *businessRepository) Create(ctx context.Context, business *models.Business) error {
	if err := r.db.WithContext(ctx).Create(business).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("Business with this name already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *businessRepository) GetByID(ctx context.Context, id uint) (*models.Business, error) {
	var business models.Business
	err := cache.Aside(ctx, cache.BusinessKey(id), &business, cache.BusinessTTL, func() error {
		return r.applyDetails(r.db.WithContext(ctx)).
			Preload("Category").
			First(&business, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Business", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &business, nil
}

func (r *businessRepository) GetBySupervisor(ctx context.Context, supervisorID uint) (*models.Business, error) {
	var business models.Business
	err := r.applyDetails(r.db.WithContext(ctx)).
		Where("supervisor_id = ?", supervisorID).
		First(&business).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &business, nil
}

func (r *businessRepository) List(ctx context.Context, filter BusinessFilter) ([]*models.Business, error) {
	query := r.applyDetails(r.db.WithContext(ctx))

	if filter.Search != "" {
		// LOWER/LIKE rather than ILIKE keeps the search portable to the
		// sqlite test database.
		query = query.Where("LOWER(businesses.name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	if filter.CategoryID != 0 {
		query = query.Where("businesses.category_id = ?", filter.CategoryID)
	}

	var businesses []*models.Business
	err := query.
		Limit(filter.Limit).
		Offset(filter.Offset).
		Order("businesses.id").
		Find(&businesses).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return businesses, nil
}

func (r *businessRepository) Update(ctx context.Context, business *models.Business) error {
	// Omit associations so a preloaded Category is not written back.
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(business).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateBusiness(ctx, business.ID)
	return nil
}

// Delete removes the business; its reviews (and their votes and replies) go
// with it via the FK cascades.
func (r *businessRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Business{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateBusiness(ctx, id)
	return nil
}
