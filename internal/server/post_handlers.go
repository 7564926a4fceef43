package server

import (
	"github.com/Sudip2708/poustovnik-english/internal/i18n"
	"github.com/Sudip2708/poustovnik-english/internal/models"
	"github.com/Sudip2708/poustovnik-english/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Home handles GET / and GET /home: the global post listing, newest first,
// five posts per page.
func (s *Server) Home(c *fiber.Ctx) error {
	page, err := s.postService.ListPage(c.Context(), pageQuery(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"posts":       page.Items,
		"page":        page.Page,
		"per_page":    page.PerPage,
		"total":       page.Total,
		"total_pages": page.TotalPages,
		"locale":      currentLocale(c),
	})
}

// GetPost handles GET /post/:id. If this visitor requested a translation of
// this post, it is attached to the response exactly once; the read consumes
// the stash.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}

	resp := fiber.Map{
		"post":   post,
		"locale": currentLocale(c),
	}

	if vid := viewerID(c); vid != "" {
		translation, err := s.sessions.TakeTranslation(c.Context(), vid, post.ID)
		if err == nil && translation != nil {
			resp["translation"] = translation
		}
	}

	return c.JSON(resp)
}

// GetUserPosts handles GET /user/:username: that author's posts, newest
// first, five per page. Unknown usernames are a 404.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	username := c.Params("username")

	user, page, err := s.postService.ListByAuthorPage(c.Context(), username, pageQuery(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"user":        user,
		"posts":       page.Items,
		"page":        page.Page,
		"per_page":    page.PerPage,
		"total":       page.Total,
		"total_pages": page.TotalPages,
	})
}

// CreatePost handles POST /post/new. The post records the locale it was
// written under.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title   string `json:"title" form:"title"`
		Content string `json:"content" form:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Create(c.Context(), service.CreatePostInput{
		UserID:   currentUserID(c),
		Title:    req.Title,
		Content:  req.Content,
		Language: currentLocale(c),
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": i18n.T(currentLocale(c), "post_created"),
		"post":    post,
	})
}

// UpdatePost handles POST /post/:id/update. Owner only.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title   string `json:"title" form:"title"`
		Content string `json:"content" form:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Update(c.Context(), service.UpdatePostInput{
		UserID:  currentUserID(c),
		PostID:  id,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": i18n.T(currentLocale(c), "post_updated"),
		"post":    post,
	})
}

// DeletePost handles POST /post/:id/delete. Owner only; hard delete.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.Delete(c.Context(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: id,
	}); err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": i18n.T(currentLocale(c), "post_deleted"),
	})
}
