package repository

import (
	"context"
	"slices"
	"strings"

	"spareeye/backend/internal/model"
)

// RequestRepository stores diagnosis requests. Implementations do not enforce
// ownership; that is the service layer's job.
type RequestRepository interface {
	CreateRequest(ctx context.Context, req *model.DiagnosisRequest) error
	GetRequest(ctx context.Context, id string) (*model.DiagnosisRequest, error)
	// ListRequests returns the owner's requests, newest first.
	ListRequests(ctx context.Context, owner string) ([]*model.DiagnosisRequest, error)
	UpdateRequest(ctx context.Context, req *model.DiagnosisRequest) error
	DeleteRequest(ctx context.Context, id string) error
}

// UserRepository stores accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdatePassword(ctx context.Context, userID, hashedPassword string) error
}

// SettingsRepository stores per-user preferences.
type SettingsRepository interface {
	GetSettings(ctx context.Context, userID string) (*model.Settings, error)
	// SaveSettings inserts or replaces the user's settings.
	SaveSettings(ctx context.Context, settings *model.Settings) error
}

// Repository defines the interface for data storage operations.
// This interface makes it easy to switch database implementations.
type Repository interface {
	RequestRepository
	UserRepository
	SettingsRepository
}

func sortUsers(users []*model.User) {
	slices.SortFunc(users, func(a, b *model.User) int {
		return strings.Compare(a.Username, b.Username)
	})
}
