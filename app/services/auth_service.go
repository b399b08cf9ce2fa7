package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/cakeshop/app/models"
	"github.com/shashiranjanraj/cakeshop/app/repositories"
	"github.com/shashiranjanraj/cakeshop/pkg/auth"
)

// UserStore is the persistence the auth service needs.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// RegisterInput is the body of POST /api/auth/register.
type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginInput is the body of POST /api/auth/login.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string        `json:"token"`
	User  auth.Identity `json:"user"`
}

// Register creates an account. Role defaults to "user".
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (auth.Identity, error) {
	if in.Username == "" || in.Password == "" {
		return auth.Identity{}, fail(ErrValidation, "username & password required")
	}
	role := in.Role
	if role == "" {
		role = auth.RoleUser
	}
	if role != auth.RoleUser && role != auth.RoleAdmin {
		return auth.Identity{}, fail(ErrValidation, "role must be admin or user")
	}

	_, err := s.users.FindByUsername(ctx, in.Username)
	switch {
	case err == nil:
		return auth.Identity{}, fail(ErrConflict, "username taken")
	case !errors.Is(err, repositories.ErrNotFound):
		return auth.Identity{}, fmt.Errorf("register: lookup %q: %w", in.Username, err)
	}

	user := &models.User{Username: in.Username, Password: in.Password, Role: role}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return auth.Identity{}, fail(ErrConflict, "username taken")
		}
		return auth.Identity{}, fmt.Errorf("register: create: %w", err)
	}
	return user.Identity(), nil
}

// Login checks the credentials and issues a token. Unknown users and wrong
// passwords fail with the same message.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if in.Username == "" || in.Password == "" {
		return nil, fail(ErrValidation, "username & password required")
	}

	user, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fail(ErrInvalidCredentials, "Invalid credentials")
		}
		return nil, fmt.Errorf("login: lookup %q: %w", in.Username, err)
	}
	if !user.CheckPassword(in.Password) {
		return nil, fail(ErrInvalidCredentials, "Invalid credentials")
	}

	id := user.Identity()
	token, err := auth.GenerateToken(id)
	if err != nil {
		return nil, fmt.Errorf("login: sign token: %w", err)
	}
	return &LoginResult{Token: token, User: id}, nil
}

// Authenticate resolves an Authorization header to the caller's current
// identity. The role comes from the database, not from the token.
func (s *AuthService) Authenticate(ctx context.Context, header string) (auth.Identity, error) {
	raw, err := auth.ParseBearer(header)
	if err != nil {
		return auth.Identity{}, fail(ErrUnauthorized, err.Error())
	}
	claims, err := auth.ValidateToken(raw)
	if err != nil {
		return auth.Identity{}, fail(ErrUnauthorized, "Invalid or expired token")
	}

	user, err := s.users.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return auth.Identity{}, fail(ErrUnauthorized, "User not found")
		}
		return auth.Identity{}, fmt.Errorf("authenticate: load user %d: %w", claims.ID, err)
	}
	return user.Identity(), nil
}
