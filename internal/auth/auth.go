// Package auth implements registration, credential checks, and cookie
// session lifecycle on top of the user repository and the Redis session
// store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer   = "inkwell-api"
	tokenAudience = "inkwell-web"
)

// CookieName is the name of the session cookie set on login and refreshed on
// every authenticated request.
const CookieName = "inkwell_session"

// Service provides authentication and session management.
type Service struct {
	users    repository.UserRepository
	sessions *session.Store
	secret   []byte
}

// NewService wires the auth service to its user storage and session store.
func NewService(users repository.UserRepository, sessions *session.Store, cfg *config.Config) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		secret:   []byte(cfg.SessionSecret),
	}
}

// RegisterInput carries the signup form fields.
type RegisterInput struct {
	Username string
	Email    string
	Gender   string
	Password string
}

// Register creates a user account with a bcrypt password hash. Username and
// email are checked by lookup before the insert; the repository's
// unique-violation mapping backstops the race.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	span, ctx := observability.NewSpan(ctx, "auth.register")
	defer span.End()
	span.AddAttributes(attribute.String("user.name", in.Username))

	existing, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if existing == nil {
		existing, err = s.users.GetByEmail(ctx, in.Email)
		if err != nil {
			span.SetError(err)
			return nil, err
		}
	}
	if existing != nil {
		return nil, models.NewConflictError("user or email already exist")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		span.SetError(err)
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Gender:   in.Gender,
		Password: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		span.SetError(err)
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the credentials and, on success, issues a session
// and returns the signed cookie token for it.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	span, ctx := observability.NewSpan(ctx, "auth.authenticate")
	defer span.End()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		span.SetError(err)
		return nil, "", err
	}
	if user == nil {
		observability.AuthFailures.WithLabelValues("unknown_user").Inc()
		return nil, "", models.NewUnauthorizedError("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		observability.AuthFailures.WithLabelValues("bad_password").Inc()
		return nil, "", models.NewUnauthorizedError("Invalid credentials")
	}

	sid, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		span.SetError(err)
		return nil, "", err
	}

	token, err := s.signToken(user.ID, sid)
	if err != nil {
		span.SetError(err)
		return nil, "", models.NewInternalError(err)
	}

	observability.SessionsIssued.Inc()
	span.AddAttributes(attribute.Int("user.id", int(user.ID)))
	return user, token, nil
}

// ResolveSession validates a cookie token against the session store and
// returns the logged-in user plus a re-signed token carrying a fresh 24h
// expiry. The store TTL is touched on every hit, so the session window
// slides with activity. Any validation failure yields an anonymous result
// rather than an error.
func (s *Service) ResolveSession(ctx context.Context, tokenString string) (*models.User, string, error) {
	if tokenString == "" {
		return nil, "", nil
	}

	userID, sid, ok := s.parseToken(tokenString)
	if !ok {
		return nil, "", nil
	}

	boundID, found, err := s.sessions.Resolve(ctx, sid)
	if err != nil {
		return nil, "", err
	}
	if !found || boundID != userID {
		return nil, "", nil
	}

	if err := s.sessions.Touch(ctx, sid); err != nil {
		return nil, "", err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, "", nil
		}
		return nil, "", err
	}

	refreshed, err := s.signToken(user.ID, sid)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	return user, refreshed, nil
}

// Logout revokes the session named by the cookie token. The signature is
// checked but expiry is not, so a stale cookie still tears down its session.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return nil
	}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.Parse(tokenString, s.keyFunc)
	if err != nil {
		return nil
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	sid, _ := claims["sid"].(string)
	return s.sessions.Revoke(ctx, sid)
}

func (s *Service) signToken(userID uint, sid string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"sid": sid,
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"iat": now.Unix(),
		"exp": now.Add(session.TTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(tokenString string) (userID uint, sid string, ok bool) {
	token, err := jwt.Parse(tokenString, s.keyFunc,
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return 0, "", false
	}

	claims, claimsOK := token.Claims.(jwt.MapClaims)
	if !claimsOK {
		return 0, "", false
	}

	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, "", false
	}

	sid, _ = claims["sid"].(string)
	if sid == "" {
		return 0, "", false
	}
	return uint(id), sid, true
}

func (s *Service) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	if len(s.secret) == 0 {
		return nil, errors.New("session secret not configured")
	}
	return s.secret, nil
}
