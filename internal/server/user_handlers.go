package server

import (
	"io"

	"github.com/Sudip2708/poustovnik-english/internal/i18n"
	"github.com/Sudip2708/poustovnik-english/internal/models"
	"github.com/Sudip2708/poustovnik-english/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAccount handles GET /account
func (s *Server) GetAccount(c *fiber.Ctx) error {
	user, err := s.userService.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"user":            user,
		"profile_picture": "/static/profile_pictures/" + user.ProfilePicture,
		"locale":          currentLocale(c),
	})
}

// UpdateAccount handles POST /account. Accepts multipart form data with
// username, email and an optional "picture" file which is resized into the
// profile picture bounding box.
func (s *Server) UpdateAccount(c *fiber.Ctx) error {
	username := c.FormValue("username")
	email := c.FormValue("email")

	in := service.UpdateAccountInput{
		UserID:   currentUserID(c),
		Username: username,
		Email:    email,
	}

	if fh, err := c.FormFile("picture"); err == nil && fh != nil {
		if fh.Size > service.MaxPictureUploadBytes {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("File too large"))
		}
		f, err := fh.Open()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Unreadable upload"))
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Unreadable upload"))
		}
		in.PictureContent = content
		in.PictureFilename = fh.Filename
	}

	user, err := s.userService.UpdateAccount(c.Context(), in)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":         i18n.T(currentLocale(c), "account_updated"),
		"user":            user,
		"profile_picture": "/static/profile_pictures/" + user.ProfilePicture,
	})
}
