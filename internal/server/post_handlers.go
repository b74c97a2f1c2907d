package server

import (
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// Home handles GET / and renders the public feed.
func (s *Server) Home(c *fiber.Ctx) error {
	posts, err := s.postRepo.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return s.views.Render(c, "index", fiber.Map{
		"posts": posts,
		"user":  s.currentUser(c),
	})
}

// Blogs handles GET and POST /blogs with the same full listing as the feed.
func (s *Server) Blogs(c *fiber.Ctx) error {
	posts, err := s.postRepo.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return s.views.Render(c, "view", fiber.Map{
		"posts": posts,
		"user":  s.currentUser(c),
	})
}

// NewPostForm handles GET /post
func (s *Server) NewPostForm(c *fiber.Ctx) error {
	return s.views.Render(c, "post", fiber.Map{
		"user": s.currentUser(c),
	})
}

// CreatePost handles POST /post
// @Summary Create a post
// @Description Create a new blog post owned by the current user
// @Tags posts
// @Accept x-www-form-urlencoded
// @Produce json
// @Param title formData string true "Title"
// @Param content formData string true "Content"
// @Param author formData string false "Display author name"
// @Success 302
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /post [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	user := s.currentUser(c)

	var req struct {
		Title   string `json:"title" form:"title"`
		Content string `json:"content" form:"content"`
		Author  string `json:"author" form:"author"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	// The author display name comes from the form, not the account.
	post := &models.Post{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
		UserID:  user.ID,
	}
	if err := s.postRepo.Create(c.Context(), post); err != nil {
		if models.IsConflict(err) {
			return models.RespondWithError(c, fiber.StatusConflict, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Redirect("/", fiber.StatusFound)
}

// EditForm handles GET /edit/:postId
func (s *Server) EditForm(c *fiber.Ctx) error {
	id, err := parseID(c.Params("postId"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	// Any logged-in user can open the edit form for any post.
	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		if models.IsNotFound(err) {
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return s.views.Render(c, "edit", fiber.Map{
		"post": post,
		"user": s.currentUser(c),
	})
}

// EditPost handles POST /edit/:postId
// @Summary Edit a post
// @Description Apply the edit form to a post; absent fields follow form semantics
// @Tags posts
// @Accept x-www-form-urlencoded
// @Produce json
// @Param postId path int true "Post ID"
// @Param title formData string false "Title"
// @Param content formData string false "Content"
// @Success 302
// @Failure 404 {object} models.ErrorResponse
// @Router /edit/{postId} [post]
func (s *Server) EditPost(c *fiber.Ctx) error {
	id, err := parseID(c.Params("postId"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	in := repository.UpdatePostInput{}
	args := c.Context().PostArgs()
	if args.Has("title") {
		title := string(args.Peek("title"))
		in.Title = &title
	}
	if args.Has("content") {
		content := string(args.Peek("content"))
		in.Content = &content
	}

	if _, err := s.postRepo.Update(c.Context(), id, in); err != nil {
		if models.IsNotFound(err) {
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		}
		if models.IsConflict(err) {
			return models.RespondWithError(c, fiber.StatusConflict, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Redirect("/profile", fiber.StatusFound)
}

// DeletePost handles GET and POST /delete
// @Summary Delete a post
// @Description Delete the post named by the post_id query parameter
// @Tags posts
// @Produce json
// @Param post_id query int true "Post ID"
// @Success 302
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /delete [get]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	raw := c.Query("post_id")
	if raw == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Missing post_id parameter"))
	}

	id, err := parseID(raw)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post_id parameter"))
	}

	if err := s.postRepo.Delete(c.Context(), id); err != nil {
		if models.IsNotFound(err) {
			return models.RespondWithError(c, fiber.StatusNotFound, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Redirect("/profile", fiber.StatusFound)
}
