package server

import (
	"inkwell/internal/auth"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SignupForm handles GET /signup
func (s *Server) SignupForm(c *fiber.Ctx) error {
	return s.views.Render(c, "signup", nil)
}

// Signup handles POST /signup
// @Summary User signup
// @Description Register a new user account
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param email formData string true "Email"
// @Param gender formData string true "Gender"
// @Param password formData string true "Password"
// @Success 302
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username" form:"username"`
		Email    string `json:"email" form:"email"`
		Gender   string `json:"gender" form:"gender"`
		Password string `json:"password" form:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Email == "" || req.Gender == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username, email, gender, and password are required"))
	}

	_, err := s.auth.Register(c.Context(), auth.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Gender:   req.Gender,
		Password: req.Password,
	})
	if err != nil {
		if models.IsConflict(err) {
			return models.RespondWithError(c, fiber.StatusConflict, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Redirect("/login", fiber.StatusFound)
}

// LoginForm handles GET /login
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return s.views.Render(c, "login", nil)
}

// Login handles POST /login
// @Summary User login
// @Description Authenticate and start a session
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Success 302
// @Failure 401 {object} models.ErrorResponse
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, token, err := s.auth.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		if models.IsUnauthorized(err) {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	s.setSessionCookie(c, token)
	c.Locals("currentUser", user)
	return c.Redirect("/post", fiber.StatusFound)
}

// Logout handles GET /logout
// @Summary Log out
// @Description Revoke the current session and clear the cookie
// @Tags auth
// @Success 302
// @Router /logout [get]
func (s *Server) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(auth.CookieName); token != "" {
		if err := s.auth.Logout(c.Context(), token); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}
	c.ClearCookie(auth.CookieName)
	return c.Redirect("/", fiber.StatusFound)
}
