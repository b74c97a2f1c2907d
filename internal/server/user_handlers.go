package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Profile handles GET and POST /profile and renders the current user's
// dashboard with their own posts.
func (s *Server) Profile(c *fiber.Ctx) error {
	user := s.currentUser(c)

	posts, err := s.postRepo.ListByOwner(c.Context(), user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return s.views.Render(c, "dashboard", fiber.Map{
		"user":  user,
		"posts": posts,
	})
}
