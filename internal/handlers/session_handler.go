package handlers

import (
	"tyrezone/internal/middleware"
	"tyrezone/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler exposes the visitor session to API clients.
type SessionHandler struct {
	sessions     *services.SessionService
	secureCookie bool
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *services.SessionService, secureCookie bool) *SessionHandler {
	return &SessionHandler{
		sessions:     sessions,
		secureCookie: secureCookie,
	}
}

// RegisterRoutes registers the session routes with the Fiber app.
func (h *SessionHandler) RegisterRoutes(router fiber.Router) {
	sessionRoutes := router.Group("/session")
	sessionRoutes.Get("/", h.HandleGetSession)
	sessionRoutes.Post("/", h.HandleNewSession)
}

// HandleGetSession returns the id of the current session.
func (h *SessionHandler) HandleGetSession(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"sessionId": middleware.SessionID(c),
	})
}

// HandleNewSession starts a fresh session with an empty cart.
func (h *SessionHandler) HandleNewSession(c *fiber.Ctx) error {
	session, err := h.sessions.Issue()
	if err != nil {
		return respondError(c, "Could not start session", err)
	}
	middleware.SetSession(c, session, h.secureCookie)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"sessionId": session.ID,
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
	})
}
