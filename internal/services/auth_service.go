package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/filevaultapp/filevault-backend/internal/errors"
	"github.com/filevaultapp/filevault-backend/internal/models"
	"github.com/filevaultapp/filevault-backend/internal/repository"
	"github.com/filevaultapp/filevault-backend/internal/validator"
)

// bcryptCost is the work factor for password hashing
const bcryptCost = 12

// minPasswordLength is the minimum accepted password length
const minPasswordLength = 8

// AuthService implements registration, login, and profile lookup
type AuthService struct {
	users  repository.UserRepository
	secret []byte
	expiry time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(users repository.UserRepository, secret []byte, expiry time.Duration) *AuthService {
	return &AuthService{users: users, secret: secret, expiry: expiry}
}

// issueToken signs a JWT for the given user
func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(user.ID), 10),
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
		"jti":   uuid.New().String(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Register creates a new member account and returns a signed token
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthPayload, error) {
	if err := validator.ValidateEmail(email); err != nil {
		return nil, invalidInput(err.Error())
	}
	name = validator.SanitizeString(name, 100)
	if name == "" {
		return nil, invalidInput("name is required")
	}
	if len(password) < minPasswordLength {
		return nil, invalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     models.RoleMember,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, apperrors.NewAppError(apperrors.ErrDuplicateEntry, "email already registered", apperrors.CodeDuplicateEntry)
		}
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthPayload{Token: token, User: *toUserSummary(user)}, nil
}

// Login verifies credentials and returns a signed token. The same error is
// returned for an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "invalid email or password", apperrors.CodeUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "invalid email or password", apperrors.CodeUnauthorized)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthPayload{Token: token, User: *toUserSummary(user)}, nil
}

// Profile returns the account behind a user id
func (s *AuthService) Profile(ctx context.Context, userID uint) (*UserSummary, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrNotFound, "user not found", apperrors.CodeNotFound)
		}
		return nil, err
	}
	return toUserSummary(user), nil
}
