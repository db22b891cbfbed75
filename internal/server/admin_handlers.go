package server

import (
	"log/slog"

	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ClearFeedCache handles POST /api/admin/cache/clear
// @Summary Drop every cached global feed page
// @Tags admin
// @Security BearerAuth
// @Success 204
// @Router /admin/cache/clear [post]
func (s *Server) ClearFeedCache(c *fiber.Ctx) error {
	if err := s.feedService.ClearCache(c.UserContext()); err != nil {
		return models.RespondWithAppError(c, err)
	}
	middleware.Logger.InfoContext(c.UserContext(), "feed cache cleared",
		slog.Uint64("by_user_id", uint64(middleware.UserID(c))),
	)
	return c.SendStatus(fiber.StatusNoContent)
}
