package service

import (
	"context"

	"bizrate/internal/models"
	"bizrate/internal/observability"
	"bizrate/internal/repository"
)

// VoteService manages the helpful-vote ledger. A vote request carries a
// direction: up creates the row, down removes it. Re-voting up conflicts,
// un-voting something never voted on is not found.
type VoteService struct {
	voteRepo   repository.VoteRepository
	reviewRepo repository.ReviewRepository
}

type VoteInput struct {
	UserID    uint
	ReviewID  uint
	Direction int
}

func NewVoteService(voteRepo repository.VoteRepository, reviewRepo repository.ReviewRepository) *VoteService {
	return &VoteService{voteRepo: voteRepo, reviewRepo: reviewRepo}
}

// Vote applies one vote request and returns whether a row was created (true
// for an up-vote, false for a removed vote).
func (s *VoteService) Vote(ctx context.Context, in VoteInput) (bool, error) {
	if in.Direction != models.VoteUp && in.Direction != models.VoteDown {
		return false, models.NewValidationError("Vote must be 0 or 1")
	}
	if _, err := s.reviewRepo.GetByID(ctx, in.ReviewID); err != nil {
		return false, err
	}

	if in.Direction == models.VoteUp {
		existing, err := s.voteRepo.Get(ctx, in.ReviewID, in.UserID)
		if err != nil {
			return false, err
		}
		if existing != nil {
			observability.VoteOutcomes.WithLabelValues("duplicate").Inc()
			return false, models.NewConflictError("You have already voted on this review")
		}
		if err := s.voteRepo.Create(ctx, &models.ReviewVote{ReviewID: in.ReviewID, UserID: in.UserID}); err != nil {
			return false, err
		}
		observability.VoteOutcomes.WithLabelValues("created").Inc()
		return true, nil
	}

	if err := s.voteRepo.Delete(ctx, in.ReviewID, in.UserID); err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == "NOT_FOUND" {
			observability.VoteOutcomes.WithLabelValues("missing").Inc()
			return false, models.NewNotFoundMessageError("You have not voted on this review")
		}
		return false, err
	}
	observability.VoteOutcomes.WithLabelValues("removed").Inc()
	return false, nil
}
