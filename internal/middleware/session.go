package middleware

import (
	"strings"
	"time"

	"tyrezone/internal/services"
	"tyrezone/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const (
	// SessionCookie carries the visitor session token for browser clients.
	SessionCookie = "tz_session"
	// SessionHeader returns a newly issued token to API clients.
	SessionHeader = "X-Session-Token"

	sessionIDKey = "session_id"
)

// Session identifies the visitor. The token is read from "Authorization: Bearer
// <token>" and then from the session cookie. A missing or invalid token starts a
// new session, whose token is sent back in SessionHeader and the cookie.
func Session(sessions *services.SessionService, secureCookie bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Cookies(SessionCookie)
		}

		var session services.Session
		var err error
		if token != "" {
			session, err = sessions.Validate(token)
			if err != nil {
				logger.Debug(c.UserContext()).Err(err).Msg("Session token rejected, issuing a new one")
			}
		}
		if token == "" || err != nil {
			session, err = sessions.Issue()
			if err != nil {
				logger.Error(c.UserContext()).Err(err).Msg("Failed to issue session")
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": "Could not start session",
					"error":   err.Error(),
				})
			}
			SetSession(c, session, secureCookie)
		}

		c.Locals(sessionIDKey, session.ID)
		c.SetUserContext(logger.WithSession(c.UserContext(), session.ID))
		return c.Next()
	}
}

// SetSession hands a newly issued session to the client in SessionHeader and
// the session cookie.
func SetSession(c *fiber.Ctx, session services.Session, secureCookie bool) {
	c.Set(SessionHeader, session.Token)
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HTTPOnly: true,
		Secure:   secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// SessionID returns the visitor session resolved by Session.
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(sessionIDKey).(string)
	return id
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
