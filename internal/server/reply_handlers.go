package server

import (
	"bizrate/internal/models"
	"bizrate/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetBusinessReviews handles GET /api/review-replies/business/:id. It is the
// public read side of the reply surface: reviews for a business with their
// replies attached.
func (s *Server) GetBusinessReviews(c *fiber.Ctx) error {
	businessID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	reviews, err := s.reviewService.ListBusinessReviews(c.Context(), businessID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(reviews)
}

// GetSupervisorReviews handles GET /api/review-replies/supervisor/reviews.
// It returns the review feed for the caller's assigned business, newest first.
func (s *Server) GetSupervisorReviews(c *fiber.Ctx) error {
	user := s.currentUser(c)
	if user.Role != models.RoleSupervisor {
		return models.RespondWithError(c, models.NewForbiddenError("Supervisor access required"))
	}

	p := parsePagination(c, 20)
	reviews, err := s.replyService.SupervisorReviews(c.Context(), user.ID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(reviews)
}

// CreateReply handles POST /api/review-replies/reviews/:id
func (s *Server) CreateReply(c *fiber.Ctx) error {
	reviewID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	reply, err := s.replyService.CreateReply(c.Context(), service.CreateReplyInput{
		User:     s.currentUser(c),
		ReviewID: reviewID,
		Body:     req.Body,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

// UpdateReply handles PATCH /api/review-replies/replies/:id
func (s *Server) UpdateReply(c *fiber.Ctx) error {
	replyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	reply, err := s.replyService.UpdateReply(c.Context(), service.UpdateReplyInput{
		User:    s.currentUser(c),
		ReplyID: replyID,
		Body:    req.Body,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(reply)
}

// DeleteReply handles DELETE /api/review-replies/replies/:id
func (s *Server) DeleteReply(c *fiber.Ctx) error {
	replyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.replyService.DeleteReply(c.Context(), service.DeleteReplyInput{
		User:    s.currentUser(c),
		ReplyID: replyID,
	}); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
