package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bizrate/internal/cache"
	"bizrate/internal/models"
	"bizrate/internal/observability"
)

// ReviewRepository owns review persistence. Every mutation recomputes the
// owning business's average rating inside the same transaction, so readers
// never observe a review without its aggregate effect.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	ListByBusiness(ctx context.Context, businessID uint, limit, offset int) ([]models.Review, error)
	ListByBusinessChrono(ctx context.Context, businessID uint, limit, offset int) ([]models.Review, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Review, error)
	Update(ctx context.Context, review *models.Review, ratingChanged bool) error
	Delete(ctx context.Context, review *models.Review) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// votesCountSelect annotates each review row with its vote total.
const votesCountSelect = "reviews.*, " +
	"(SELECT COUNT(*) FROM review_votes WHERE review_votes.review_id = reviews.id) AS votes_count"

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return recomputeAverage(tx, review.BusinessID)
	})
	if err != nil {
		return models.NewInternalError(fmt.Errorf("failed to create review: %w", err))
	}
	cache.InvalidateBusiness(ctx, review.BusinessID)
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Select(votesCountSelect).
		First(&review, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Review", id)
		}
		return nil, models.NewInternalError(fmt.Errorf("failed to get review: %w", err))
	}
	return &review, nil
}

// ListByBusiness returns a business's reviews ordered by vote count, most
// endorsed first. Ties fall back to recency.
func (r *reviewRepository) ListByBusiness(ctx context.Context, businessID uint, limit, offset int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Select(votesCountSelect).
		Where("reviews.business_id = ?", businessID).
		Order("votes_count DESC, reviews.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("failed to list reviews: %w", err))
	}
	return reviews, nil
}

// ListByBusinessChrono returns a business's reviews newest first, without the
// vote ordering. Used for the supervisor feed.
func (r *reviewRepository) ListByBusinessChrono(ctx context.Context, businessID uint, limit, offset int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Select(votesCountSelect).
		Where("reviews.business_id = ?", businessID).
		Order("reviews.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("failed to list reviews: %w", err))
	}
	return reviews, nil
}

func (r *reviewRepository) ListAll(ctx context.Context, limit, offset int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Select(votesCountSelect).
		Order("reviews.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("failed to list reviews: %w", err))
	}
	return reviews, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review, ratingChanged bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(review).Error; err != nil {
			return err
		}
		if ratingChanged {
			return recomputeAverage(tx, review.BusinessID)
		}
		return nil
	})
	if err != nil {
		return models.NewInternalError(fmt.Errorf("failed to update review: %w", err))
	}
	if ratingChanged {
		cache.InvalidateBusiness(ctx, review.BusinessID)
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Review{}, review.ID).Error; err != nil {
			return err
		}
		return recomputeAverage(tx, review.BusinessID)
	})
	if err != nil {
		return models.NewInternalError(fmt.Errorf("failed to delete review: %w", err))
	}
	cache.InvalidateBusiness(ctx, review.BusinessID)
	return nil
}

// recomputeAverage rewrites the business's stored average from the surviving
// reviews, rounded to one decimal. A business with no reviews goes back to 0.
func recomputeAverage(tx *gorm.DB, businessID uint) error {
	start := time.Now()
	defer observability.ObserveRecompute(start)

	var avg *float64
	err := tx.Model(&models.Review{}).
		Where("business_id = ?", businessID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return err
	}

	rating := 0.0
	if avg != nil {
		rating = math.Round(*avg*10) / 10
	}
	return tx.Model(&models.Business{}).
		Where("id = ?", businessID).
		Update("average_rating", rating).Error
}
