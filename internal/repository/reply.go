package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bizrate/internal/models"
)

type ReplyRepository interface {
	Create(ctx context.Context, reply *models.ReviewReply) error
	GetByID(ctx context.Context, id uint) (*models.ReviewReply, error)
	GetByReview(ctx context.Context, reviewID uint) (*models.ReviewReply, error)
	GetByReviewIDs(ctx context.Context, reviewIDs []uint) (map[uint]models.ReviewReply, error)
	Update(ctx context.Context, reply *models.ReviewReply) error
	Delete(ctx context.Context, id uint) error
}

type replyRepository struct {
	db *gorm.DB
}

func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

func (r *replyRepository) Create(ctx context.Context, reply *models.ReviewReply) error {
	if err := r.db.WithContext(ctx).Create(reply).Error; err != nil {
		return models.NewInternalError(fmt.Errorf("failed to create reply: %w", err))
	}
	return nil
}

func (r *replyRepository) GetByID(ctx context.Context, id uint) (*models.ReviewReply, error) {
	var reply models.ReviewReply
	err := r.db.WithContext(ctx).First(&reply, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Reply", id)
		}
		return nil, models.NewInternalError(fmt.Errorf("failed to get reply: %w", err))
	}
	return &reply, nil
}

// GetByReview returns (nil, nil) when the review has no reply yet.
func (r *replyRepository) GetByReview(ctx context.Context, reviewID uint) (*models.ReviewReply, error) {
	var reply models.ReviewReply
	err := r.db.WithContext(ctx).Where("review_id = ?", reviewID).First(&reply).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(fmt.Errorf("failed to get reply: %w", err))
	}
	return &reply, nil
}

// GetByReviewIDs batch-loads replies for a page of reviews, keyed by review ID.
func (r *replyRepository) GetByReviewIDs(ctx context.Context, reviewIDs []uint) (map[uint]models.ReviewReply, error) {
	result := make(map[uint]models.ReviewReply, len(reviewIDs))
	if len(reviewIDs) == 0 {
		return result, nil
	}
	var replies []models.ReviewReply
	err := r.db.WithContext(ctx).Where("review_id IN ?", reviewIDs).Find(&replies).Error
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("failed to list replies: %w", err))
	}
	for _, reply := range replies {
		result[reply.ReviewID] = reply
	}
	return result, nil
}

func (r *replyRepository) Update(ctx context.Context, reply *models.ReviewReply) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(reply).Error; err != nil {
		return models.NewInternalError(fmt.Errorf("failed to update reply: %w", err))
	}
	return nil
}

func (r *replyRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.ReviewReply{}, id)
	if result.Error != nil {
		return models.NewInternalError(fmt.Errorf("failed to delete reply: %w", result.Error))
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Reply", id)
	}
	return nil
}
