package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bizrate/internal/models"
)

type VoteRepository interface {
	Get(ctx context.Context, reviewID, userID uint) (*models.ReviewVote, error)
	Create(ctx context.Context, vote *models.ReviewVote) error
	Delete(ctx context.Context, reviewID, userID uint) error
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Get returns (nil, nil) when the user has not voted on the review.
func (r *voteRepository) Get(ctx context.Context, reviewID, userID uint) (*models.ReviewVote, error) {
	var vote models.ReviewVote
	err := r.db.WithContext(ctx).
		Where("review_id = ? AND user_id = ?", reviewID, userID).
		First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(fmt.Errorf("failed to get vote: %w", err))
	}
	return &vote, nil
}

func (r *voteRepository) Create(ctx context.Context, vote *models.ReviewVote) error {
	if err := r.db.WithContext(ctx).Create(vote).Error; err != nil {
		// The unique (review, user) index catches the race between two
		// concurrent up-votes from the same user.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("You have already voted on this review")
		}
		return models.NewInternalError(fmt.Errorf("failed to create vote: %w", err))
	}
	return nil
}

func (r *voteRepository) Delete(ctx context.Context, reviewID, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("review_id = ? AND user_id = ?", reviewID, userID).
		Delete(&models.ReviewVote{})
	if result.Error != nil {
		return models.NewInternalError(fmt.Errorf("failed to delete vote: %w", result.Error))
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundMessageError("Vote not found")
	}
	return nil
}
