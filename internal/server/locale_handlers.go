package server

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Sudip2708/poustovnik-english/internal/i18n"
	"github.com/Sudip2708/poustovnik-english/internal/models"
	"github.com/Sudip2708/poustovnik-english/internal/session"

	"github.com/gofiber/fiber/v2"
)

// ChangeLanguage handles GET /change_language: flips the active locale for
// this visitor only and sends them back where they came from.
func (s *Server) ChangeLanguage(c *fiber.Ctx) error {
	next := i18n.Toggle(currentLocale(c))

	if sess := currentSession(c); sess != nil {
		if err := s.sessions.SetLocale(c.Context(), sess.ID, next); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
	} else {
		c.Cookie(&fiber.Cookie{
			Name:     LocaleCookie,
			Value:    next,
			MaxAge:   int(session.RememberTTL.Seconds()),
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   s.config.Env == "production",
			Path:     "/",
		})
	}

	return c.Redirect(refererPath(c), fiber.StatusFound)
}

// TranslatePost handles GET /translate/:id: translates the post into the
// visitor's active locale, stashes the result for this visitor, and sends
// them to the post view, which renders the translation exactly once.
func (s *Server) TranslatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}

	locale := currentLocale(c)
	title, err := s.translator.Translate(c.Context(), post.Title, locale)
	if err == nil {
		var content string
		content, err = s.translator.Translate(c.Context(), post.Content, locale)
		if err == nil {
			err = s.sessions.StashTranslation(c.Context(), viewerID(c), &models.TranslatedPost{
				PostID:  post.ID,
				Title:   title,
				Content: content,
				Target:  locale,
			})
		}
	}
	if err != nil {
		slog.WarnContext(c.UserContext(), "post translation failed", "post_id", post.ID, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": i18n.T(locale, "translation_failed"),
		})
	}

	return c.Redirect(fmt.Sprintf("/post/%d", post.ID), fiber.StatusFound)
}

// refererPath returns the same-site path of the Referer header, or "/".
func refererPath(c *fiber.Ctx) string {
	ref := c.Get(fiber.HeaderReferer)
	if ref == "" {
		return "/"
	}
	// Strip scheme and host so the redirect can never leave the site.
	if i := strings.Index(ref, "://"); i >= 0 {
		rest := ref[i+3:]
		if j := strings.Index(rest, "/"); j >= 0 {
			return safeNextPath(rest[j:])
		}
		return "/"
	}
	return safeNextPath(ref)
}
