package server

import (
	"bizrate/internal/models"
	"bizrate/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReview handles POST /api/reviews/:businessID
func (s *Server) CreateReview(c *fiber.Ctx) error {
	businessID, err := s.parseID(c, "businessID")
	if err != nil {
		return nil
	}

	var req struct {
		Rating int    `json:"rating"`
		Title  string `json:"title"`
		Body   string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	review, err := s.reviewService.CreateReview(c.Context(), service.CreateReviewInput{
		User:       s.currentUser(c),
		BusinessID: businessID,
		Rating:     req.Rating,
		Title:      req.Title,
		Body:       req.Body,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// GetReviewsForBusiness handles GET /api/reviews/:businessID
func (s *Server) GetReviewsForBusiness(c *fiber.Ctx) error {
	businessID, err := s.parseID(c, "businessID")
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

// GetAllReviews handles GET /api/reviews (admin)
func (s *Server) GetAllReviews(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	reviews, err := s.reviewService.ListAllReviews(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(reviews)
}

// UpdateReview handles PATCH /api/reviews/:id
func (s *Server) UpdateReview(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Rating *int    `json:"rating"`
		Title  *string `json:"title"`
		Body   *string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	review, err := s.reviewService.UpdateReview(c.Context(), service.UpdateReviewInput{
		User:     s.currentUser(c),
		ReviewID: id,
		Rating:   req.Rating,
		Title:    req.Title,
		Body:     req.Body,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(review)
}

// DeleteReview handles DELETE /api/reviews/:id
func (s *Server) DeleteReview(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.reviewService.DeleteReview(c.Context(), service.DeleteReviewInput{
		User:     s.currentUser(c),
		ReviewID: id,
	}); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
