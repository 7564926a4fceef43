package server

import (
	"log/slog"

	"github.com/Sudip2708/poustovnik-english/internal/i18n"
	"github.com/Sudip2708/poustovnik-english/internal/mail"
	"github.com/Sudip2708/poustovnik-english/internal/models"
	"github.com/Sudip2708/poustovnik-english/internal/service"

	"github.com/gofiber/fiber/v2"
)

// redirectWithMessage sets a 302 redirect and carries the localized outcome
// message in the body, so API clients see the flash text and browsers follow
// the Location header.
func redirectWithMessage(c *fiber.Ctx, target, message string) error {
	c.Set(fiber.HeaderLocation, target)
	return c.Status(fiber.StatusFound).JSON(fiber.Map{
		"message":  message,
		"redirect": target,
	})
}

// RegisterForm handles GET /register. Signed-in visitors are sent home.
func (s *Server) RegisterForm(c *fiber.Ctx) error {
	if currentSession(c) != nil {
		return c.Redirect("/", fiber.StatusFound)
	}
	return c.JSON(fiber.Map{"locale": currentLocale(c)})
}

// Register handles POST /register. A new account is created but not signed
// in; the visitor is sent to the login page.
func (s *Server) Register(c *fiber.Ctx) error {
	if currentSession(c) != nil {
		return c.Redirect("/", fiber.StatusFound)
	}

	var req struct {
		Username        string `json:"username" form:"username"`
		Email           string `json:"email" form:"email"`
		Password        string `json:"password" form:"password"`
		ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	_, err := s.userService.Register(c.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return redirectWithMessage(c, "/login", i18n.T(currentLocale(c), "account_created"))
}

// LoginForm handles GET /login. Signed-in visitors are sent home.
func (s *Server) LoginForm(c *fiber.Ctx) error {
	if currentSession(c) != nil {
		return c.Redirect("/", fiber.StatusFound)
	}
	return c.JSON(fiber.Map{
		"locale": currentLocale(c),
		"next":   safeNextPath(c.Query("next")),
	})
}

// Login handles POST /login. Wrong password and unknown email produce the
// same outcome. On success the session cookie is set and the visitor goes to
// the requested ?next path (relative only) or home.
func (s *Server) Login(c *fiber.Ctx) error {
	if currentSession(c) != nil {
		return c.Redirect("/", fiber.StatusFound)
	}

	var req struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
		Remember bool   `json:"remember" form:"remember"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	locale := currentLocale(c)
	user, err := s.userService.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		if models.StatusForError(err) == fiber.StatusUnauthorized {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(i18n.T(locale, "login_failed")))
		}
		return respondAppError(c, err)
	}

	sess, err := s.sessions.Create(c.Context(), user.ID, locale, req.Remember)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	s.setSessionCookie(c, sess)

	next := safeNextPath(c.Query("next", c.FormValue("next")))
	return c.Redirect(next, fiber.StatusFound)
}

// Logout handles GET /logout
func (s *Server) Logout(c *fiber.Ctx) error {
	if sess := currentSession(c); sess != nil {
		if err := s.sessions.Destroy(c.Context(), sess.ID); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
	}
	s.clearSessionCookie(c)
	return c.Redirect("/", fiber.StatusFound)
}

// ResetRequestForm handles GET /reset_password.
func (s *Server) ResetRequestForm(c *fiber.Ctx) error {
	if currentSession(c) != nil {
		return c.Redirect("/", fiber.StatusFound)
	}
	return c.JSON(fiber.Map{"locale": currentLocale(c)})
}

// RequestPasswordReset handles POST /reset_password. The response is the
// same whether or not the address belongs to an account, so this channel
// cannot be used to enumerate users.
func (s *Server) RequestPasswordReset(c *fiber.Ctx) error {
	if currentSession(c) != nil {
		return c.Redirect("/", fiber.StatusFound)
	}

	var req struct {
		Email string `json:"email" form:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	locale := currentLocale(c)
	user, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return respondAppError(c, err)
	}

	if user != nil {
		token, err := s.resetTokens.Issue(user.ID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
		subject, body := mail.BuildResetEmail(locale, mail.ResetLink(s.config.BaseURL, token))
		if err := s.mailer.Send(c.Context(), user.Email, subject, body); err != nil {
			slog.ErrorContext(c.UserContext(), "reset email dispatch failed", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": i18n.T(locale, "reset_email_failed"),
			})
		}
	}

	return c.JSON(fiber.Map{"message": i18n.T(locale, "reset_email_sent")})
}

// VerifyPasswordReset handles GET /reset_password/:token. Any verification
// failure, including a deleted account, produces the same uniform outcome.
func (s *Server) VerifyPasswordReset(c *fiber.Ctx) error {
	locale := currentLocale(c)
	token := c.Params("token")

	if _, err := s.resolveResetToken(c, token); err != nil {
		return redirectWithMessage(c, "/reset_password", i18n.T(locale, "reset_token_invalid"))
	}
	return c.JSON(fiber.Map{"token": token})
}

// CompletePasswordReset handles POST /reset_password/:token
func (s *Server) CompletePasswordReset(c *fiber.Ctx) error {
	locale := currentLocale(c)

	user, err := s.resolveResetToken(c, c.Params("token"))
	if err != nil {
		return redirectWithMessage(c, "/reset_password", i18n.T(locale, "reset_token_invalid"))
	}

	var req struct {
		Password        string `json:"password" form:"password"`
		ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.userService.ResetPassword(c.Context(), service.ResetPasswordInput{
		UserID:          user.ID,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}); err != nil {
		return respondAppError(c, err)
	}

	return redirectWithMessage(c, "/login", i18n.T(locale, "password_updated"))
}

// resolveResetToken verifies a reset token and loads the user it names.
// Token failures and a missing user are indistinguishable to the caller.
func (s *Server) resolveResetToken(c *fiber.Ctx, token string) (*models.User, error) {
	userID, err := s.resetTokens.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}
