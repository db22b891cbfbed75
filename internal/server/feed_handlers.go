package server

import (
	"fmt"

	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// @Summary Global feed
// @Description Every post, newest first. Pages are cached for FEED_CACHE_TTL_SECONDS and may lag behind writes.
// @Tags feeds
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Success 200 {object} service.PostPage
// @Header 200 {string} X-Feed-Cache "HIT or MISS"
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	body, hit, err := s.feedService.Global(c.UserContext(), requestedPage(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if hit {
		c.Set(middleware.FeedCacheHeader, "HIT")
	} else {
		c.Set(middleware.FeedCacheHeader, "MISS")
	}
	c.Set(fiber.HeaderCacheControl, fmt.Sprintf("public, max-age=%d", int(s.feedService.CacheWindow().Seconds())))
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(body)
}

// GetGroupPosts handles GET /api/groups/:slug/posts
// @Summary Group feed
// @Tags feeds
// @Produce json
// @Param slug path string true "Group slug"
// @Param page query int false "Page number (1-based)"
// @Success 200 {object} service.GroupFeed
// @Failure 404 {object} models.ErrorResponse
// @Router /groups/{slug}/posts [get]
func (s *Server) GetGroupPosts(c *fiber.Ctx) error {
	feed, err := s.feedService.Group(c.UserContext(), c.Params("slug"), requestedPage(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(feed)
}

// GetProfile handles GET /api/profiles/:username
// @Summary Author feed and profile
// @Tags feeds
// @Produce json
// @Param username path string true "Author username"
// @Param page query int false "Page number (1-based)"
// @Success 200 {object} service.AuthorFeed
// @Failure 404 {object} models.ErrorResponse
// @Router /profiles/{username} [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	feed, err := s.feedService.Author(c.UserContext(), c.Params("username"), requestedPage(c), middleware.UserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(feed)
}

// GetFollowFeed handles GET /api/follow
// @Summary Followed feed
// @Description Posts by every author the caller follows.
// @Tags feeds
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Success 200 {object} service.PostPage
// @Failure 401 {object} models.ErrorResponse
// @Router /follow [get]
func (s *Server) GetFollowFeed(c *fiber.Ctx) error {
	page, err := s.feedService.Followed(c.UserContext(), middleware.UserID(c), requestedPage(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(page)
}
