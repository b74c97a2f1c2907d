package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) ListByOwner(ctx context.Context, userID uint) ([]*models.Post, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByTitle(ctx context.Context, title string) (*models.Post, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Update(ctx context.Context, id uint, in repository.UpdatePostInput) (*models.Post, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func loggedInApp(s *Server, user *models.User) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if user != nil {
			c.Locals("currentUser", user)
		}
		return c.Next()
	})
	return app
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHome(t *testing.T) {
	mockRepo := new(MockPostRepository)
	s := &Server{postRepo: mockRepo, views: NewJSONRenderer()}

	mockRepo.On("List", mock.Anything).Return([]*models.Post{
		{ID: 1, Title: "First"},
		{ID: 2, Title: "Second"},
	}, nil)

	app := loggedInApp(s, nil)
	app.Get("/", s.Home)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockRepo.AssertExpectations(t)
}

func TestCreatePost(t *testing.T) {
	user := &models.User{ID: 4, Username: "amara"}

	tests := []struct {
		name           string
		form           url.Values
		mockSetup      func(m *MockPostRepository)
		expectedStatus int
	}{
		{
			name: "Success Redirects Home",
			form: url.Values{
				"title":   {"New Post"},
				"content": {"Hello world"},
				"author":  {"Amara O."},
			},
			mockSetup: func(m *MockPostRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
					return p.Title == "New Post" && p.Author == "Amara O." && p.UserID == user.ID
				})).Return(nil)
			},
			expectedStatus: http.StatusFound,
		},
		{
			name: "Duplicate Title",
			form: url.Values{
				"title":   {"New Post"},
				"content": {"Hello again"},
			},
			mockSetup: func(m *MockPostRepository) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(models.NewConflictError("A post with New Post already exists"))
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockPostRepository)
			tt.mockSetup(mockRepo)
			s := &Server{postRepo: mockRepo, views: NewJSONRenderer()}

			app := loggedInApp(s, user)
			app.Post("/post", s.CreatePost)

			resp, err := app.Test(formRequest(http.MethodPost, "/post", tt.form))
			assert.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestEditPost_FieldPresence(t *testing.T) {
	user := &models.User{ID: 4, Username: "amara"}

	tests := []struct {
		name     string
		form     url.Values
		expected repository.UpdatePostInput
	}{
		{
			name: "Both Fields Present",
			form: url.Values{"title": {"Renamed"}, "content": {"Rewritten"}},
			expected: repository.UpdatePostInput{
				Title:   strPointer("Renamed"),
				Content: strPointer("Rewritten"),
			},
		},
		{
			name:     "Title Only",
			form:     url.Values{"title": {"Renamed"}},
			expected: repository.UpdatePostInput{Title: strPointer("Renamed")},
		},
		{
			name:     "Content Only",
			form:     url.Values{"content": {"Rewritten"}},
			expected: repository.UpdatePostInput{Content: strPointer("Rewritten")},
		},
		{
			name:     "Neither Field",
			form:     url.Values{},
			expected: repository.UpdatePostInput{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockPostRepository)
			mockRepo.On("Update", mock.Anything, uint(9), tt.expected).
				Return(&models.Post{ID: 9}, nil)
			s := &Server{postRepo: mockRepo, views: NewJSONRenderer()}

			app := loggedInApp(s, user)
			app.Post("/edit/:postId", s.EditPost)

			resp, err := app.Test(formRequest(http.MethodPost, "/edit/9", tt.form))
			assert.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, http.StatusFound, resp.StatusCode)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestEditPost_NotFound(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockRepo.On("Update", mock.Anything, uint(42), mock.Anything).
		Return(nil, models.NewNotFoundError("Post", uint(42)))
	s := &Server{postRepo: mockRepo, views: NewJSONRenderer()}

	app := loggedInApp(s, &models.User{ID: 1})
	app.Post("/edit/:postId", s.EditPost)

	resp, err := app.Test(formRequest(http.MethodPost, "/edit/42", url.Values{"title": {"x"}}))
	assert.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEditForm(t *testing.T) {
	t.Run("Renders Any Post For Any User", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockRepo.On("GetByID", mock.Anything, uint(7)).
			Return(&models.Post{ID: 7, Title: "Someone Else's", UserID: 99}, nil)
		s := &Server{postRepo: mockRepo, views: NewJSONRenderer()}

		app := loggedInApp(s, &models.User{ID: 1})
		app.Get("/edit/:postId", s.EditForm)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/edit/7", nil))
		assert.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Unknown Post", func(t *testing.T) {
		mockRepo := new(MockPostRepository)
		mockRepo.On("GetByID", mock.Anything, uint(404)).
			Return(nil, models.NewNotFoundError("Post", uint(404)))
		s := &Server{postRepo: mockRepo, views: NewJSONRenderer()}

		app := loggedInApp(s, &models.User{ID: 1})
		app.Get("/edit/:postId", s.EditForm)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/edit/404", nil))
		assert.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeletePost(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		mockSetup      func(m *MockPostRepository)
		expectedStatus int
		expectedError  string
	}{
		{
			name:   "Success Redirects To Profile",
			target: "/delete?post_id=3",
			mockSetup: func(m *MockPostRepository) {
				m.On("Delete", mock.Anything, uint(3)).Return(nil)
			},
			expectedStatus: http.StatusFound,
		},
		{
			name:           "Missing Parameter",
			target:         "/delete",
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Missing post_id parameter",
		},
		{
			name:           "Malformed Parameter",
			target:         "/delete?post_id=abc",
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "Unknown Post",
			target: "/delete?post_id=777",
			mockSetup: func(m *MockPostRepository) {
				m.On("Delete", mock.Anything, uint(777)).
					Return(models.NewNotFoundError("Post", uint(777)))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockPostRepository)
			tt.mockSetup(mockRepo)
			s := &Server{postRepo: mockRepo, views: NewJSONRenderer()}

			// No session guard on delete.
			app := loggedInApp(s, nil)
			app.Get("/delete", s.DeletePost)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedError != "" {
				var body models.ErrorResponse
				assert.NoError(t, decodeBody(resp.Body, &body))
				assert.Equal(t, tt.expectedError, body.Error)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func strPointer(s string) *string { return &s }
