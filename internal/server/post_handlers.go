package server

import (
	"io"
	"strconv"
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postForm struct {
	Text        string                    `json:"text"`
	GroupID     *uint                     `json:"group_id"`
	RemoveImage bool                      `json:"remove_image"`
	Image       *service.UploadImageInput `json:"-"`
}

// parsePostForm reads a post from a JSON body or, when an image is attached,
// from a multipart form with text, group_id and image fields.
func parsePostForm(c *fiber.Ctx) (postForm, error) {
	var form postForm
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := c.BodyParser(&form); err != nil {
			return form, models.NewValidationError("Invalid request body")
		}
		return form, nil
	}

	form.Text = c.FormValue("text")
	form.RemoveImage = c.FormValue("remove_image") == "true"
	if raw := strings.TrimSpace(c.FormValue("group_id")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			return form, models.NewValidationError("Invalid group ID")
		}
		groupID := uint(id)
		form.GroupID = &groupID
	}

	mf, err := c.MultipartForm()
	if err != nil {
		return form, models.NewValidationError("Invalid multipart form")
	}
	files := mf.File["image"]
	if len(files) == 0 {
		return form, nil
	}
	file := files[0]
	f, err := file.Open()
	if err != nil {
		return form, models.NewInternalError(err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return form, models.NewInternalError(err)
	}
	form.Image = &service.UploadImageInput{
		Filename:    file.Filename,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Content:     content,
	}
	return form, nil
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body object{text=string,group_id=int} true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	form, err := parsePostForm(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:  middleware.UserID(c),
		Text:    form.Text,
		GroupID: form.GroupID,
		Image:   form.Image,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
// @Summary Post detail with comments
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} service.PostDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(detail)
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Edit a post
// @Description Only the author may edit. The group is replaced; omit group_id to detach.
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{text=string,group_id=int,remove_image=bool} true "Post"
// @Success 200 {object} models.Post
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	form, err := parsePostForm(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:      middleware.UserID(c),
		PostID:      id,
		Text:        form.Text,
		GroupID:     form.GroupID,
		Image:       form.Image,
		RemoveImage: form.RemoveImage,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post
// @Tags posts
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), middleware.UserID(c), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
