package server

import (
	"errors"
	"strconv"

	"verdant/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// maxPaginationLimit caps the page size a client can request.
const maxPaginationLimit = 100

// pageQuery holds parsed page/limit query parameters. Absent parameters
// take their defaults; malformed ones become -1 so the service layer
// rejects them as validation errors instead of silently defaulting.
type pageQuery struct {
	Page  int
	Limit int
}

func parsePageQuery(c *fiber.Ctx, defaultLimit int) pageQuery {
	return pageQuery{
		Page:  intQuery(c, "page", 1),
		Limit: clampLimit(intQuery(c, "limit", defaultLimit)),
	}
}

// intQuery parses a query parameter as an integer. Absent means the
// default; unparseable means -1.
func intQuery(c *fiber.Ctx, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}

func clampLimit(limit int) int {
	if limit > maxPaginationLimit {
		return maxPaginationLimit
	}
	return limit
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID reads the authenticated user ID set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}
