package service

import (
	"context"
	"testing"

	"bizrate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reviewRepoStub is a stub for repository.ReviewRepository.
type reviewRepoStub struct {
	createFn               func(context.Context, *models.Review) error
	getByIDFn              func(context.Context, uint) (*models.Review, error)
	listByBusinessFn       func(context.Context, uint, int, int) ([]models.Review, error)
	listByBusinessChronoFn func(context.Context, uint, int, int) ([]models.Review, error)
	listAllFn              func(context.Context, int, int) ([]models.Review, error)
	updateFn               func(context.Context, *models.Review, bool) error
	deleteFn               func(context.Context, *models.Review) error
}

func (s *reviewRepoStub) Create(ctx context.Context, r *models.Review) error {
	return s.createFn(ctx, r)
}
func (s *reviewRepoStub) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	return s.getByIDFn(ctx, id)
}
func (s *reviewRepoStub) ListByBusiness(ctx context.Context, businessID uint, limit, offset int) ([]models.Review, error) {
	return s.listByBusinessFn(ctx, businessID, limit, offset)
}
func (s *reviewRepoStub) ListByBusinessChrono(ctx context.Context, businessID uint, limit, offset int) ([]models.Review, error) {
	return s.listByBusinessChronoFn(ctx, businessID, limit, offset)
}
func (s *reviewRepoStub) ListAll(ctx context.Context, limit, offset int) ([]models.Review, error) {
	return s.listAllFn(ctx, limit, offset)
}
func (s *reviewRepoStub) Update(ctx context.Context, r *models.Review, ratingChanged bool) error {
	return s.updateFn(ctx, r, ratingChanged)
}
func (s *reviewRepoStub) Delete(ctx context.Context, r *models.Review) error {
	return s.deleteFn(ctx, r)
}

func noopReviewRepo() *reviewRepoStub {
	return &reviewRepoStub{
		createFn: func(_ context.Context, _ *models.Review) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Review, error) {
			return &models.Review{ID: id, Rating: 4, Title: "Solid", Body: "ok", UserID: 1, BusinessID: 7}, nil
		},
		listByBusinessFn:       func(_ context.Context, _ uint, _, _ int) ([]models.Review, error) { return nil, nil },
		listByBusinessChronoFn: func(_ context.Context, _ uint, _, _ int) ([]models.Review, error) { return nil, nil },
		listAllFn:              func(_ context.Context, _, _ int) ([]models.Review, error) { return nil, nil },
		updateFn:               func(_ context.Context, _ *models.Review, _ bool) error { return nil },
		deleteFn:               func(_ context.Context, _ *models.Review) error { return nil },
	}
}

// replyRepoStub is a stub for repository.ReplyRepository.
type replyRepoStub struct {
	createFn         func(context.Context, *models.ReviewReply) error
	getByIDFn        func(context.Context, uint) (*models.ReviewReply, error)
	getByReviewFn    func(context.Context, uint) (*models.ReviewReply, error)
	getByReviewIDsFn func(context.Context, []uint) (map[uint]models.ReviewReply, error)
	updateFn         func(context.Context, *models.ReviewReply) error
	deleteFn         func(context.Context, uint) error
}

func (s *replyRepoStub) Create(ctx context.Context, r *models.ReviewReply) error {
	return s.createFn(ctx, r)
}
func (s *replyRepoStub) GetByID(ctx context.Context, id uint) (*models.ReviewReply, error) {
	return s.getByIDFn(ctx, id)
}
func (s *replyRepoStub) GetByReview(ctx context.Context, reviewID uint) (*models.ReviewReply, error) {
	return s.getByReviewFn(ctx, reviewID)
}
func (s *replyRepoStub) GetByReviewIDs(ctx context.Context, reviewIDs []uint) (map[uint]models.ReviewReply, error) {
	return s.getByReviewIDsFn(ctx, reviewIDs)
}
func (s *replyRepoStub) Update(ctx context.Context, r *models.ReviewReply) error {
	return s.updateFn(ctx, r)
}
func (s *replyRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopReplyRepo() *replyRepoStub {
	return &replyRepoStub{
		createFn:      func(_ context.Context, _ *models.ReviewReply) error { return nil },
		getByIDFn:     func(_ context.Context, id uint) (*models.ReviewReply, error) { return &models.ReviewReply{ID: id}, nil },
		getByReviewFn: func(_ context.Context, _ uint) (*models.ReviewReply, error) { return nil, nil },
		getByReviewIDsFn: func(_ context.Context, _ []uint) (map[uint]models.ReviewReply, error) {
			return map[uint]models.ReviewReply{}, nil
		},
		updateFn: func(_ context.Context, _ *models.ReviewReply) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

func TestReviewService_CreateReview(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	user := &models.User{ID: 1, Role: models.RoleUser}

	t.Run("missing business propagates not found", func(t *testing.T) {
		t.Parallel()
		businessRepo := noopBusinessRepo()
		businessRepo.getByIDFn = func(_ context.Context, id uint) (*models.Business, error) {
			return nil, models.NewNotFoundError("Business", id)
		}
		svc := NewReviewService(noopReviewRepo(), businessRepo, noopReplyRepo())
		_, err := svc.CreateReview(ctx, CreateReviewInput{User: user, BusinessID: 99, Rating: 4, Title: "t", Body: "b"})
		assertNotFoundError(t, err)
	})

	t.Run("supervisors cannot review", func(t *testing.T) {
		t.Parallel()
		supervisor := &models.User{ID: 9, Role: models.RoleSupervisor}
		svc := NewReviewService(noopReviewRepo(), noopBusinessRepo(), noopReplyRepo())
		_, err := svc.CreateReview(ctx, CreateReviewInput{User: supervisor, BusinessID: 7, Rating: 4, Title: "t", Body: "b"})
		assertForbiddenError(t, err)
	})

	t.Run("rating out of bounds", func(t *testing.T) {
		t.Parallel()
		svc := NewReviewService(noopReviewRepo(), noopBusinessRepo(), noopReplyRepo())
		for _, rating := range []int{0, 6, -1} {
			_, err := svc.CreateReview(ctx, CreateReviewInput{User: user, BusinessID: 7, Rating: rating, Title: "t", Body: "b"})
			assertValidationError(t, err)
		}
	})

	t.Run("title and body required", func(t *testing.T) {
		t.Parallel()
		svc := NewReviewService(noopReviewRepo(), noopBusinessRepo(), noopReplyRepo())
		_, err := svc.CreateReview(ctx, CreateReviewInput{User: user, BusinessID: 7, Rating: 4})
		assertValidationError(t, err)
	})

	t.Run("admins can review", func(t *testing.T) {
		t.Parallel()
		admin := &models.User{ID: 2, Role: models.RoleAdmin}
		reviewRepo := noopReviewRepo()
		reviewRepo.createFn = func(_ context.Context, r *models.Review) error {
			r.ID = 42
			return nil
		}
		svc := NewReviewService(reviewRepo, noopBusinessRepo(), noopReplyRepo())
		review, err := svc.CreateReview(ctx, CreateReviewInput{User: admin, BusinessID: 7, Rating: 5, Title: "t", Body: "b"})
		require.NoError(t, err)
		assert.Equal(t, uint(42), review.ID)
	})
}

func TestReviewService_ListBusinessReviews(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("business with no reviews reports not found", func(t *testing.T) {
		t.Parallel()
		svc := NewReviewService(noopReviewRepo(), noopBusinessRepo(), noopReplyRepo())
		_, err := svc.ListBusinessReviews(ctx, 7, 20, 0)
		assertNotFoundError(t, err)
	})

	t.Run("attaches replies to their reviews", func(t *testing.T) {
		t.Parallel()
		reviewRepo := noopReviewRepo()
		reviewRepo.listByBusinessFn = func(_ context.Context, _ uint, _, _ int) ([]models.Review, error) {
			return []models.Review{{ID: 1, BusinessID: 7}, {ID: 2, BusinessID: 7}}, nil
		}
		replyRepo := noopReplyRepo()
		replyRepo.getByReviewIDsFn = func(_ context.Context, ids []uint) (map[uint]models.ReviewReply, error) {
			assert.Equal(t, []uint{1, 2}, ids)
			return map[uint]models.ReviewReply{2: {ID: 10, ReviewID: 2, Body: "reply"}}, nil
		}
		svc := NewReviewService(reviewRepo, noopBusinessRepo(), replyRepo)
		reviews, err := svc.ListBusinessReviews(ctx, 7, 20, 0)
		require.NoError(t, err)
		require.Len(t, reviews, 2)
		assert.Nil(t, reviews[0].Reply)
		require.NotNil(t, reviews[1].Reply)
		assert.Equal(t, "reply", reviews[1].Reply.Body)
	})

	t.Run("admin-wide listing of empty platform is empty, not an error", func(t *testing.T) {
		t.Parallel()
		svc := NewReviewService(noopReviewRepo(), noopBusinessRepo(), noopReplyRepo())
		reviews, err := svc.ListAllReviews(ctx, 20, 0)
		require.NoError(t, err)
		assert.Empty(t, reviews)
	})
}

func TestReviewService_UpdateReview(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("only the owner may edit", func(t *testing.T) {
		t.Parallel()
		admin := &models.User{ID: 2, Role: models.RoleAdmin}
		svc := NewReviewService(noopReviewRepo(), noopBusinessRepo(), noopReplyRepo())
		_, err := svc.UpdateReview(ctx, UpdateReviewInput{User: admin, ReviewID: 1})
		assertForbiddenError(t, err)
	})

	t.Run("rating change flags the recompute", func(t *testing.T) {
		t.Parallel()
		owner := &models.User{ID: 1, Role: models.RoleUser}
		var flagged bool
		reviewRepo := noopReviewRepo()
		reviewRepo.updateFn = func(_ context.Context, _ *models.Review, ratingChanged bool) error {
			flagged = ratingChanged
			return nil
		}
		svc := NewReviewService(reviewRepo, noopBusinessRepo(), noopReplyRepo())
		newRating := 2
		_, err := svc.UpdateReview(ctx, UpdateReviewInput{User: owner, ReviewID: 1, Rating: &newRating})
		require.NoError(t, err)
		assert.True(t, flagged)
	})

	t.Run("same rating skips the recompute", func(t *testing.T) {
		t.Parallel()
		owner := &models.User{ID: 1, Role: models.RoleUser}
		var flagged bool
		reviewRepo := noopReviewRepo()
		reviewRepo.updateFn = func(_ context.Context, _ *models.Review, ratingChanged bool) error {
			flagged = ratingChanged
			return nil
		}
		svc := NewReviewService(reviewRepo, noopBusinessRepo(), noopReplyRepo())
		sameRating := 4
		newTitle := "Edited"
		_, err := svc.UpdateReview(ctx, UpdateReviewInput{User: owner, ReviewID: 1, Rating: &sameRating, Title: &newTitle})
		require.NoError(t, err)
		assert.False(t, flagged)
	})
}

func TestReviewService_DeleteReview(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("owner can delete", func(t *testing.T) {
		t.Parallel()
		owner := &models.User{ID: 1, Role: models.RoleUser}
		svc := NewReviewService(noopReviewRepo(), noopBusinessRepo(), noopReplyRepo())
		require.NoError(t, svc.DeleteReview(ctx, DeleteReviewInput{User: owner, ReviewID: 1}))
	})

	t.Run("admin can delete another user's review", func(t *testing.T) {
		t.Parallel()
		admin := &models.User{ID: 2, Role: models.RoleAdmin}
		svc := NewReviewService(noopReviewRepo(), noopBusinessRepo(), noopReplyRepo())
		require.NoError(t, svc.DeleteReview(ctx, DeleteReviewInput{User: admin, ReviewID: 1}))
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		t.Parallel()
		stranger := &models.User{ID: 3, Role: models.RoleUser}
		svc := NewReviewService(noopReviewRepo(), noopBusinessRepo(), noopReplyRepo())
		err := svc.DeleteReview(ctx, DeleteReviewInput{User: stranger, ReviewID: 1})
		assertForbiddenError(t, err)
	})
}
