package server

import (
	"verdant/internal/models"
	"verdant/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateContribution handles POST /api/contributions
func (s *Server) CreateContribution(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Description string   `json:"description"`
		Images      []string `json:"images"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	contribution, err := s.contributionService.Create(c.Context(), service.CreateContributionInput{
		UserID:      userID,
		Description: req.Description,
		Images:      req.Images,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(contribution)
}

// GetContributions handles GET /api/contributions
func (s *Server) GetContributions(c *fiber.Ctx) error {
	q := parsePageQuery(c, service.DefaultPageLimit)

	page, err := s.contributionService.List(c.Context(), q.Page, q.Limit)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(page)
}

// SearchContributions handles GET /api/contributions/search?q=...
func (s *Server) SearchContributions(c *fiber.Ctx) error {
	q := parsePageQuery(c, service.DefaultPageLimit)

	page, err := s.contributionService.Search(c.Context(), c.Query("q"), q.Page, q.Limit)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(page)
}

// GetMyContributions handles GET /api/contributions/me
func (s *Server) GetMyContributions(c *fiber.Ctx) error {
	userID := currentUserID(c)
	q := parsePageQuery(c, service.DefaultPageLimit)

	page, err := s.contributionService.ListByOwner(c.Context(), userID, q.Page, q.Limit)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(page)
}

// GetUserContributions handles GET /api/users/:id/contributions
func (s *Server) GetUserContributions(c *fiber.Ctx) error {
	ownerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	q := parsePageQuery(c, service.DefaultPageLimit)

	page, svcErr := s.contributionService.ListByOwner(c.Context(), ownerID, q.Page, q.Limit)
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.JSON(page)
}

// GetContribution handles GET /api/contributions/:id
func (s *Server) GetContribution(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	contribution, svcErr := s.contributionService.Get(c.Context(), id)
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.JSON(contribution)
}

// UpdateContribution handles PUT /api/contributions/:id
func (s *Server) UpdateContribution(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	// Pointer fields distinguish "absent" from "present but empty": an
	// absent field leaves the stored value alone.
	var req struct {
		Description *string   `json:"description"`
		Images      *[]string `json:"images"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	contribution, svcErr := s.contributionService.Update(c.Context(), service.UpdateContributionInput{
		UserID:         userID,
		ContributionID: id,
		Description:    req.Description,
		Images:         req.Images,
	})
	if svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.JSON(contribution)
}

// DeleteContribution handles DELETE /api/contributions/:id
func (s *Server) DeleteContribution(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.contributionService.Delete(c.Context(), service.DeleteContributionInput{
		UserID:         userID,
		ContributionID: id,
	}); svcErr != nil {
		return models.RespondWithAppError(c, svcErr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
