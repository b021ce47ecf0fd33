package service

import (
	"context"
	"fmt"

	"bizrate/internal/authz"
	"bizrate/internal/models"
	"bizrate/internal/observability"
	"bizrate/internal/repository"
)

type ReviewService struct {
	reviewRepo   repository.ReviewRepository
	businessRepo repository.BusinessRepository
	replyRepo    repository.ReplyRepository
}

type CreateReviewInput struct {
	User       *models.User
	BusinessID uint
	Rating     int
	Title      string
	Body       string
}

type UpdateReviewInput struct {
	User     *models.User
	ReviewID uint
	Rating   *int
	Title    *string
	Body     *string
}

type DeleteReviewInput struct {
	User     *models.User
	ReviewID uint
}

// ReviewWithReply pairs a review with its supervisor reply, if one exists.
type ReviewWithReply struct {
	models.Review
	Reply *models.ReviewReply `json:"reply,omitempty"`
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	businessRepo repository.BusinessRepository,
	replyRepo repository.ReplyRepository,
) *ReviewService {
	return &ReviewService{
		reviewRepo:   reviewRepo,
		businessRepo: businessRepo,
		replyRepo:    replyRepo,
	}
}

func (s *ReviewService) CreateReview(ctx context.Context, in CreateReviewInput) (*models.Review, error) {
	if _, err := s.businessRepo.GetByID(ctx, in.BusinessID); err != nil {
		return nil, err
	}
	if !authz.CanSubmitReview(in.User.Role) {
		return nil, models.NewForbiddenError("Supervisors cannot submit reviews")
	}
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}
	if in.Title == "" || in.Body == "" {
		return nil, models.NewValidationError("Title and body are required")
	}

	review := &models.Review{
		Rating:     in.Rating,
		Title:      in.Title,
		Body:       in.Body,
		UserID:     in.User.ID,
		BusinessID: in.BusinessID,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	observability.ReviewWrites.WithLabelValues("create").Inc()

	return s.reviewRepo.GetByID(ctx, review.ID)
}

func (s *ReviewService) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	return s.reviewRepo.GetByID(ctx, id)
}

// ListBusinessReviews returns a business's reviews ordered by vote count with
// their supervisor replies attached. A business that exists but has no
// reviews yet reports not found, matching the per-business browse contract;
// the admin-wide listing has no such rule.
func (s *ReviewService) ListBusinessReviews(ctx context.Context, businessID uint, limit, offset int) ([]ReviewWithReply, error) {
	if _, err := s.businessRepo.GetByID(ctx, businessID); err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByBusiness(ctx, businessID, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, models.NewNotFoundMessageError("No reviews found for this business")
	}

	return s.attachReplies(ctx, reviews)
}

// ListAllReviews is the admin-wide listing; an empty platform yields an empty
// page, not an error.
func (s *ReviewService) ListAllReviews(ctx context.Context, limit, offset int) ([]models.Review, error) {
	return s.reviewRepo.ListAll(ctx, limit, offset)
}

func (s *ReviewService) UpdateReview(ctx context.Context, in UpdateReviewInput) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, in.ReviewID)
	if err != nil {
		return nil, err
	}
	if !authz.CanEditReview(in.User, review) {
		return nil, models.NewForbiddenError("You can only edit your own reviews")
	}

	ratingChanged := false
	if in.Rating != nil && *in.Rating != review.Rating {
		if err := validateRating(*in.Rating); err != nil {
			return nil, err
		}
		review.Rating = *in.Rating
		ratingChanged = true
	}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, models.NewValidationError("Title cannot be empty")
		}
		review.Title = *in.Title
	}
	if in.Body != nil {
		if *in.Body == "" {
			return nil, models.NewValidationError("Body cannot be empty")
		}
		review.Body = *in.Body
	}

	if err := s.reviewRepo.Update(ctx, review, ratingChanged); err != nil {
		return nil, err
	}
	observability.ReviewWrites.WithLabelValues("update").Inc()

	return s.reviewRepo.GetByID(ctx, review.ID)
}

func (s *ReviewService) DeleteReview(ctx context.Context, in DeleteReviewInput) error {
	review, err := s.reviewRepo.GetByID(ctx, in.ReviewID)
	if err != nil {
		return err
	}
	if !authz.CanDeleteReview(in.User, review) {
		return models.NewForbiddenError("You can only delete your own reviews")
	}

	if err := s.reviewRepo.Delete(ctx, review); err != nil {
		return err
	}
	observability.ReviewWrites.WithLabelValues("delete").Inc()
	return nil
}

func (s *ReviewService) attachReplies(ctx context.Context, reviews []models.Review) ([]ReviewWithReply, error) {
	ids := make([]uint, len(reviews))
	for i, review := range reviews {
		ids[i] = review.ID
	}
	replies, err := s.replyRepo.GetByReviewIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]ReviewWithReply, len(reviews))
	for i, review := range reviews {
		result[i] = ReviewWithReply{Review: review}
		if reply, ok := replies[review.ID]; ok {
			r := reply
			result[i].Reply = &r
		}
	}
	return result, nil
}

func validateRating(rating int) error {
	if rating < models.MinRating || rating > models.MaxRating {
		return models.NewValidationError(
			fmt.Sprintf("Rating must be between %d and %d", models.MinRating, models.MaxRating))
	}
	return nil
}
