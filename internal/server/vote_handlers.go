package server

import (
	"bizrate/internal/models"
	"bizrate/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Vote handles POST /api/votes. Direction 1 records a helpful vote,
// direction 0 withdraws one.
func (s *Server) Vote(c *fiber.Ctx) error {
	var req struct {
		ReviewID  uint `json:"review_id"`
		Direction int  `json:"direction"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	created, err := s.voteService.Vote(c.Context(), service.VoteInput{
		UserID:    s.currentUser(c).ID,
		ReviewID:  req.ReviewID,
		Direction: req.Direction,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if created {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Vote recorded"})
	}
	return c.JSON(fiber.Map{"message": "Vote removed"})
}
