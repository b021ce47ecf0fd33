package service

import (
	"context"

	"bizrate/internal/authz"
	"bizrate/internal/models"
	"bizrate/internal/repository"
)

type ReplyService struct {
	replyRepo    repository.ReplyRepository
	reviewRepo   repository.ReviewRepository
	businessRepo repository.BusinessRepository
}

type CreateReplyInput struct {
	User     *models.User
	ReviewID uint
	Body     string
}

type UpdateReplyInput struct {
	User    *models.User
	ReplyID uint
	Body    string
}

type DeleteReplyInput struct {
	User    *models.User
	ReplyID uint
}

func NewReplyService(
	replyRepo repository.ReplyRepository,
	reviewRepo repository.ReviewRepository,
	businessRepo repository.BusinessRepository,
) *ReplyService {
	return &ReplyService{
		replyRepo:    replyRepo,
		reviewRepo:   reviewRepo,
		businessRepo: businessRepo,
	}
}

// CreateReply posts the supervisor's answer to a review. The caller must be
// the supervisor assigned to the review's business, and the review must not
// have been answered already.
func (s *ReplyService) CreateReply(ctx context.Context, in CreateReplyInput) (*models.ReviewReply, error) {
	review, err := s.reviewRepo.GetByID(ctx, in.ReviewID)
	if err != nil {
		return nil, err
	}
	business, err := s.businessRepo.GetByID(ctx, review.BusinessID)
	if err != nil {
		return nil, err
	}
	if !authz.CanReply(in.User, business) {
		return nil, models.NewForbiddenError("You can only reply to reviews of your assigned business")
	}
	if in.Body == "" {
		return nil, models.NewValidationError("Body is required")
	}

	existing, err := s.replyRepo.GetByReview(ctx, in.ReviewID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("This review already has a reply")
	}

	reply := &models.ReviewReply{
		ReviewID:     in.ReviewID,
		SupervisorID: in.User.ID,
		Body:         in.Body,
	}
	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *ReplyService) UpdateReply(ctx context.Context, in UpdateReplyInput) (*models.ReviewReply, error) {
	reply, err := s.replyRepo.GetByID(ctx, in.ReplyID)
	if err != nil {
		return nil, err
	}
	if !authz.CanEditReply(in.User, reply) {
		return nil, models.NewForbiddenError("You can only edit your own replies")
	}
	if in.Body == "" {
		return nil, models.NewValidationError("Body is required")
	}

	reply.Body = in.Body
	if err := s.replyRepo.Update(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *ReplyService) DeleteReply(ctx context.Context, in DeleteReplyInput) error {
	reply, err := s.replyRepo.GetByID(ctx, in.ReplyID)
	if err != nil {
		return err
	}
	if !authz.CanDeleteReply(in.User, reply) {
		return models.NewForbiddenError("You cannot delete this reply")
	}
	return s.replyRepo.Delete(ctx, in.ReplyID)
}

// SupervisorReviews returns the review feed for the supervisor's assigned
// business, newest first, with existing replies attached. A supervisor with
// no business assignment has no feed.
func (s *ReplyService) SupervisorReviews(ctx context.Context, supervisorID uint, limit, offset int) ([]ReviewWithReply, error) {
	business, err := s.businessRepo.GetBySupervisor(ctx, supervisorID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, models.NewNotFoundMessageError("No business assigned to this supervisor")
	}

	reviews, err := s.reviewRepo.ListByBusinessChrono(ctx, business.ID, limit, offset)
	if err != nil {
		return nil, err
	}

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
