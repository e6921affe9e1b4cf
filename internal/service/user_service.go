package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"spareeye/backend/internal/auth"
	app_errors "spareeye/backend/internal/errors"
	"spareeye/backend/internal/model"
	"spareeye/backend/internal/repository"
)

const minPasswordLength = 8

// SignUpInput is the payload for creating an account.
type SignUpInput struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// SignInInput is the payload for exchanging credentials for a token.
type SignInInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordInput is validated by the service so the client sees the
// same messages regardless of which rule failed.
type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// Session is a freshly issued token and the account it belongs to.
type Session struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type UserService struct {
	repo   repository.UserRepository
	tokens *auth.TokenManager
}

func NewUserService(repo repository.UserRepository, tokens *auth.TokenManager) *UserService {
	return &UserService{repo: repo, tokens: tokens}
}

func (s *UserService) SignUp(ctx context.Context, in *SignUpInput) (*Session, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:             uuid.NewString(),
		Username:       strings.TrimSpace(in.Username),
		Email:          strings.TrimSpace(in.Email),
		Role:           "user",
		HashedPassword: hash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username %q is taken", app_errors.ErrConflict, user.Username)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	slog.Info("Registered user", "user_id", user.ID, "username", user.Username)

	return s.session(user)
}

func (s *UserService) SignIn(ctx context.Context, in *SignInInput) (*Session, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid username or password", app_errors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !auth.CheckPassword(user.HashedPassword, in.Password) {
		return nil, fmt.Errorf("%w: invalid username or password", app_errors.ErrUnauthorized)
	}
	return s.session(user)
}

func (s *UserService) GetProfile(ctx context.Context, caller auth.Identity) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, caller.UserID)
	if err != nil {
		return nil, mapRepoError(err, "user", caller.UserID)
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, caller auth.Identity, in *ChangePasswordInput) error {
	switch {
	case in.OldPassword == "":
		return fmt.Errorf("%w: Old password is required", app_errors.ErrValidation)
	case in.NewPassword == "":
		return fmt.Errorf("%w: New password is required", app_errors.ErrValidation)
	case len(in.NewPassword) < minPasswordLength:
		return fmt.Errorf("%w: New password must be at least %d characters long", app_errors.ErrValidation, minPasswordLength)
	}

	user, err := s.repo.GetUserByID(ctx, caller.UserID)
	if err != nil {
		return mapRepoError(err, "user", caller.UserID)
	}
	if !auth.CheckPassword(user.HashedPassword, in.OldPassword) {
		return fmt.Errorf("%w: Old password is incorrect", app_errors.ErrValidation)
	}
	if in.OldPassword == in.NewPassword {
		return fmt.Errorf("%w: New password must be different from the old password", app_errors.ErrValidation)
	}

	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return mapRepoError(err, "user", user.ID)
	}
	slog.Info("Password changed", "user_id", user.ID)
	return nil
}

// ListUsers returns every username, sorted.
func (s *UserService) ListUsers(ctx context.Context) ([]string, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Username
	}
	return names, nil
}

func (s *UserService) GetUser(ctx context.Context, caller auth.Identity, userID string) (*model.User, error) {
	if userID != caller.UserID {
		return nil, fmt.Errorf("%w: cannot read another user's account", app_errors.ErrPermission)
	}
	return s.GetProfile(ctx, caller)
}

func (s *UserService) session(user *model.User) (*Session, error) {
	token, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}
