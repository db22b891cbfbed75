package server

import (
	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// FollowAuthor handles POST /api/profiles/:username/follow
// @Summary Follow an author
// @Description Idempotent: following an author twice succeeds.
// @Tags follow
// @Produce json
// @Security BearerAuth
// @Param username path string true "Author username"
// @Success 200 {object} object{following=bool,author=models.User}
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /profiles/{username}/follow [post]
func (s *Server) FollowAuthor(c *fiber.Ctx) error {
	author, err := s.followService.Follow(c.UserContext(), middleware.UserID(c), c.Params("username"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"following": true,
		"author":    author,
	})
}

// UnfollowAuthor handles DELETE /api/profiles/:username/follow
// @Summary Unfollow an author
// @Tags follow
// @Produce json
// @Security BearerAuth
// @Param username path string true "Author username"
// @Success 200 {object} object{following=bool,author=models.User}
// @Failure 404 {object} models.ErrorResponse
// @Router /profiles/{username}/follow [delete]
func (s *Server) UnfollowAuthor(c *fiber.Ctx) error {
	author, err := s.followService.Unfollow(c.UserContext(), middleware.UserID(c), c.Params("username"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"following": false,
		"author":    author,
	})
}
