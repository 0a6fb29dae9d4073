package service

import (
	"context"
	"strings"
	"time"

	ierr "erp/internal/errors"
	"erp/internal/logger"
	"erp/internal/model"
	"erp/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type LoginUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	ExpiresAt string `json:"expiresAt"`
}

// UserService covers operator sign-in and the startup admin seed.
type UserService interface {
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error)
	EnsureAdmin(ctx context.Context, username, password string) error
}

type userService struct {
	repo   repository.UserRepository
	secret []byte
	logger *logger.Logger
	now    func() time.Time
}

// NewUserService returns a new instance of UserService
func NewUserService(repo repository.UserRepository, secret []byte, log *logger.Logger) UserService {
	return &userService{repo: repo, secret: secret, logger: log, now: time.Now}
}

var errInvalidCredentials = ierr.NewError("invalid credentials").
	WithHint("Invalid username or password").
	Mark(ierr.ErrUnauthenticated)

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	expiresAt := s.now().Add(tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"exp":  expiresAt.Unix(),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to generate token").
			Mark(ierr.ErrSystem)
	}

	return &TokenResponse{
		Token:     tokenString,
		Role:      user.Role,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	}, nil
}

// EnsureAdmin creates the admin account when it does not exist yet. Existing accounts are left untouched.
func (s *userService) EnsureAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		s.logger.Warnw("admin credentials not configured, skipping admin seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to hash password").
			Mark(ierr.ErrSystem)
	}

	created, err := s.repo.CreateIfAbsent(ctx, &model.User{
		Username: username,
		Password: string(hashed),
		Role:     model.RoleAdmin,
	})
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	s.logger.Infow("admin user seeded", "username", username)
	return nil
}
