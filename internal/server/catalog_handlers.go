package server

import (
	"bizrate/internal/models"
	"bizrate/internal/repository"
	"bizrate/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateCategory handles POST /api/categories
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	category, err := s.catalogService.CreateCategory(c.Context(), service.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// GetCategories handles GET /api/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	categories, err := s.catalogService.ListCategories(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(categories)
}

// GetCategory handles GET /api/categories/:id
func (s *Server) GetCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	category, err := s.catalogService.GetCategory(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(category)
}

// UpdateCategory handles PATCH /api/categories/:id (admin)
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Icon        *string `json:"icon"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	category, err := s.catalogService.UpdateCategory(c.Context(), service.UpdateCategoryInput{
		CategoryID:  id,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(category)
}

// DeleteCategory handles DELETE /api/categories/:id (admin)
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.catalogService.DeleteCategory(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateBusiness handles POST /api/businesses
func (s *Server) CreateBusiness(c *fiber.Ctx) error {
	var req struct {
		Name         string `json:"name"`
		Description  string `json:"description"`
		Location     string `json:"location"`
		Logo         string `json:"logo"`
		Phone        string `json:"phone"`
		Website      string `json:"website"`
		CategoryID   uint   `json:"category_id"`
		SupervisorID *uint  `json:"supervisor_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	business, err := s.catalogService.CreateBusiness(c.Context(), service.CreateBusinessInput{
		Name:         req.Name,
		Description:  req.Description,
		Location:     req.Location,
		Logo:         req.Logo,
		Phone:        req.Phone,
		Website:      req.Website,
		CategoryID:   req.CategoryID,
		SupervisorID: req.SupervisorID,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(business)
}

// GetBusinesses handles GET /api/businesses
func (s *Server) GetBusinesses(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	filter := repository.BusinessFilter{
		Search:     c.Query("search"),
		CategoryID: uint(c.QueryInt("category_id", 0)),
		Limit:      p.Limit,
		Offset:     p.Offset,
	}

	businesses, err := s.catalogService.ListBusinesses(c.Context(), filter)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(businesses)
}

// GetBusinessesByCategory handles GET /api/businesses/category/:id
func (s *Server) GetBusinessesByCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	// 404 for an unknown category, unlike the query-parameter filter which
	// just matches nothing.
	if _, err := s.catalogService.GetCategory(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}

	p := parsePagination(c, 20)
	businesses, err := s.catalogService.ListBusinesses(c.Context(), repository.BusinessFilter{
		CategoryID: id,
		Limit:      p.Limit,
		Offset:     p.Offset,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(businesses)
}

// GetBusiness handles GET /api/businesses/:id
func (s *Server) GetBusiness(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	business, err := s.catalogService.GetBusiness(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(business)
}

// UpdateBusiness handles PATCH /api/businesses/:id (admin)
func (s *Server) UpdateBusiness(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name         *string `json:"name"`
		Description  *string `json:"description"`
		Location     *string `json:"location"`
		Logo         *string `json:"logo"`
		Phone        *string `json:"phone"`
		Website      *string `json:"website"`
		CategoryID   *uint   `json:"category_id"`
		SupervisorID *uint   `json:"supervisor_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	business, err := s.catalogService.UpdateBusiness(c.Context(), service.UpdateBusinessInput{
		BusinessID:   id,
		Name:         req.Name,
		Description:  req.Description,
		Location:     req.Location,
		Logo:         req.Logo,
		Phone:        req.Phone,
		Website:      req.Website,
		CategoryID:   req.CategoryID,
		SupervisorID: req.SupervisorID,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(business)
}

// DeleteBusiness handles DELETE /api/businesses/:id (admin)
func (s *Server) DeleteBusiness(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.catalogService.DeleteBusiness(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
