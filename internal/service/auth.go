package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/snnyvrz/bookreviews/internal/apperror"
	"github.com/snnyvrz/bookreviews/internal/auth"
	"github.com/snnyvrz/bookreviews/internal/model"
	"github.com/snnyvrz/bookreviews/internal/repository"
	"gorm.io/gorm"
)

const minPasswordLength = 8

var validate = validator.New()

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	User      model.User
}

type AuthService struct {
	users    repository.UserRepository
	tokens   *auth.TokenManager
	denylist auth.Denylist
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, denylist auth.Denylist) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		denylist: denylist,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if err := validateRegistration(username, email, in.Password); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, apperror.Conflict("USERNAME_TAKEN", "username already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Internal("USER_LOOKUP_FAILED", "failed to register user", err)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("EMAIL_TAKEN", "email already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Internal("USER_LOOKUP_FAILED", "failed to register user", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal("USER_CREATE_FAILED", "failed to register user", err)
	}

	user := model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("USER_EXISTS", "username or email already in use")
		}
		return nil, apperror.Internal("USER_CREATE_FAILED", "failed to register user", err)
	}

	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			auth.BurnPasswordCheck(password)
			return nil, invalidCredentials()
		}
		return nil, apperror.Internal("LOGIN_FAILED", "failed to log in", err)
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, invalidCredentials()
	}

	return s.issue(*user)
}

// Authenticate validates a bearer token and checks it has not been revoked.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperror.Unauthorized("TOKEN_EXPIRED", "token has expired")
		}
		return nil, apperror.Unauthorized("INVALID_TOKEN", "invalid token")
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperror.Internal("TOKEN_CHECK_FAILED", "failed to verify token", err)
	}
	if revoked {
		return nil, apperror.Unauthorized("TOKEN_REVOKED", "token has been revoked")
	}

	return claims, nil
}

func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.denylist.Revoke(ctx, claims.ID, claims.TTL(time.Now())); err != nil {
		return apperror.Internal("LOGOUT_FAILED", "failed to revoke token", err)
	}
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("USER_NOT_FOUND", "user no longer exists")
		}
		return nil, apperror.Internal("USER_FETCH_FAILED", "failed to fetch user", err)
	}
	return user, nil
}

func (s *AuthService) issue(user model.User) (*Session, error) {
	token, claims, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, apperror.Internal("TOKEN_ISSUE_FAILED", "failed to issue token", err)
	}

	return &Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user,
	}, nil
}

func validateRegistration(username, email, password string) error {
	var fields []apperror.FieldError

	if l := len(username); l < 3 || l > 32 {
		fields = append(fields, apperror.FieldError{
			Field:   "username",
			Rule:    "len",
			Message: "username must be between 3 and 32 characters",
		})
	}
	if err := validate.Var(email, "required,email"); err != nil {
		fields = append(fields, apperror.FieldError{
			Field:   "email",
			Rule:    "email",
			Message: "email is invalid",
		})
	}
	if len(password) < minPasswordLength {
		fields = append(fields, apperror.FieldError{
			Field:   "password",
			Rule:    "min",
			Message: "password must be at least 8 characters",
		})
	}

	if len(fields) > 0 {
		return apperror.Validation("VALIDATION_FAILED", "validation failed", fields...)
	}
	return nil
}

func invalidCredentials() *apperror.Error {
	return apperror.Unauthorized("INVALID_CREDENTIALS", "invalid username or password")
}
