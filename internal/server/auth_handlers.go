package server

import (
	"quill/internal/models"
	"quill/internal/session"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) setSessionCookie(c *fiber.Ctx, value string, maxAge int) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    value,
		MaxAge:   maxAge,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   s.config.Env == "production" || s.config.Env == "prod",
		Path:     "/",
	})
}

// Register handles POST /api/register.
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	// The session is written before we answer, so the client can act as
	// this user on its very next request.
	cookie, err := s.sessions.Issue(c.UserContext(), session.VisitorFromUser(user))
	if err != nil {
		return respondError(c, err)
	}
	s.setSessionCookie(c, cookie, int(session.TTL.Seconds()))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": user,
	})
}

// Login handles POST /api/login.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	cookie, err := s.sessions.Issue(c.UserContext(), session.VisitorFromUser(user))
	if err != nil {
		return respondError(c, err)
	}
	s.setSessionCookie(c, cookie, int(session.TTL.Seconds()))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user": user,
	})
}

// Logout handles POST /api/logout. Logging out when not logged in is a no-op.
func (s *Server) Logout(c *fiber.Ctx) error {
	if cookie := c.Cookies(session.CookieName); cookie != "" {
		if err := s.sessions.Destroy(c.UserContext(), cookie); err != nil {
			return respondError(c, err)
		}
	}
	s.setSessionCookie(c, "", -1)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "logged out",
	})
}

// CurrentSession handles GET /api/session, reporting the resolved visitor.
func (s *Server) CurrentSession(c *fiber.Ctx) error {
	visitor := s.visitor(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"logged_in": visitor.ID != 0,
		"visitor":   visitor,
	})
}
