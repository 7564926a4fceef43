package server

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/Sudip2708/poustovnik-english/internal/i18n"
	"github.com/Sudip2708/poustovnik-english/internal/middleware"
	"github.com/Sudip2708/poustovnik-english/internal/models"
	"github.com/Sudip2708/poustovnik-english/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// SessionCookie carries the server-side session id.
	SessionCookie = "session_id"
	// ViewerCookie identifies anonymous visitors, so locale and translation
	// state stays per-visitor even before login.
	ViewerCookie = "viewer_id"
	// LocaleCookie carries the anonymous visitor's locale choice.
	LocaleCookie = "locale"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// pageQuery extracts the 1-based ?page parameter.
func pageQuery(c *fiber.Ctx) int {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	return page
}

// respondAppError maps an AppError code to its HTTP status and writes the
// standard error payload.
func respondAppError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}

func (s *Server) setSessionCookie(c *fiber.Ctx, sess *session.Session) {
	maxAge := int(session.DefaultTTL.Seconds())
	if sess.Remember {
		maxAge = int(session.RememberTTL.Seconds())
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		MaxAge:   maxAge,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   s.config.Env == "production",
		Path:     "/",
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   s.config.Env == "production",
		Path:     "/",
	})
}

// SessionMiddleware resolves the visitor's session and active locale exactly
// once per request. Signed-in requests get "userID" and "session" locals;
// every request gets "locale" and "viewerID" locals. Anonymous visitors are
// tagged with a viewer cookie so translation and locale state stays scoped to
// them.
func (s *Server) SessionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		locale := i18n.DefaultLocale
		viewerID := c.Cookies(ViewerCookie)

		if sid := c.Cookies(SessionCookie); sid != "" {
			sess, err := s.sessions.Get(c.Context(), sid)
			if err == nil {
				c.Locals("userID", sess.UserID)
				c.Locals("session", sess)
				ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, sess.UserID)
				c.SetUserContext(ctx)
				if i18n.Supported(sess.Locale) {
					locale = sess.Locale
				}
				c.Locals("locale", locale)
				c.Locals("viewerID", sess.ID)
				return c.Next()
			}
			if !errors.Is(err, session.ErrNotFound) {
				return models.RespondWithError(c, fiber.StatusInternalServerError,
					models.NewInternalError(err))
			}
			s.clearSessionCookie(c)
		}

		if viewerID == "" {
			viewerID = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     ViewerCookie,
				Value:    viewerID,
				MaxAge:   int(session.RememberTTL.Seconds()),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
				Secure:   s.config.Env == "production",
				Path:     "/",
			})
		}
		if l := c.Cookies(LocaleCookie); i18n.Supported(l) {
			locale = l
		}
		c.Locals("locale", locale)
		c.Locals("viewerID", viewerID)
		return c.Next()
	}
}

// LoginRequired gates routes on a live session. Requests without one are
// redirected to the login page with the original path in ?next, never
// rejected with a bare 403.
func (s *Server) LoginRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals("userID").(uint); !ok {
			target := "/login?next=" + url.QueryEscape(c.OriginalURL())
			return c.Redirect(target, fiber.StatusFound)
		}
		return c.Next()
	}
}

// currentUserID returns the signed-in user's id. Only valid behind
// LoginRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// currentSession returns the live session, or nil for anonymous requests.
func currentSession(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals("session").(*session.Session)
	return sess
}

// currentLocale returns the request's active locale.
func currentLocale(c *fiber.Ctx) string {
	locale, _ := c.Locals("locale").(string)
	if locale == "" {
		return i18n.DefaultLocale
	}
	return locale
}

// viewerID identifies the visitor for translation stashing, whether or not
// they are signed in.
func viewerID(c *fiber.Ctx) string {
	id, _ := c.Locals("viewerID").(string)
	return id
}

// safeNextPath accepts only relative same-site paths for post-login
// redirects, so ?next can never send the visitor off-site.
func safeNextPath(next string) string {
	if next == "" {
		return "/"
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
