package interfaces

import (
	"context"

	"spareeye/backend/internal/auth"
	"spareeye/backend/internal/model"
	"spareeye/backend/internal/service"
	"spareeye/backend/internal/speech"
	"spareeye/backend/internal/uploads"
)

// This file defines the interfaces for our core services.
// The API layer depends on these instead of concrete implementations so
// handlers can be tested against mocks.

// RequestService defines the contract for diagnosis requests, uploads and analysis.
type RequestService interface {
	Create(ctx context.Context, caller auth.Identity, in *service.CreateRequestInput) (*model.DiagnosisRequest, error)
	List(ctx context.Context, caller auth.Identity) ([]*model.DiagnosisRequest, error)
	Get(ctx context.Context, caller auth.Identity, id string) (*model.DiagnosisRequest, error)
	Update(ctx context.Context, caller auth.Identity, id string, in *service.UpdateRequestInput) (*model.DiagnosisRequest, error)
	Delete(ctx context.Context, caller auth.Identity, id string) (*model.DiagnosisRequest, error)
	Upload(ctx context.Context, caller auth.Identity, files []uploads.File) ([]string, error)
	Analyze(ctx context.Context, caller auth.Identity, in *service.AnalyzeInput) (*service.AnalyzeResult, error)
}

// UserService defines the contract for accounts and sessions.
type UserService interface {
	SignUp(ctx context.Context, in *service.SignUpInput) (*service.Session, error)
	SignIn(ctx context.Context, in *service.SignInInput) (*service.Session, error)
	GetProfile(ctx context.Context, caller auth.Identity) (*model.User, error)
	ChangePassword(ctx context.Context, caller auth.Identity, in *service.ChangePasswordInput) error
	ListUsers(ctx context.Context) ([]string, error)
	GetUser(ctx context.Context, caller auth.Identity, userID string) (*model.User, error)
}

// SettingsService defines the contract for per-user preferences.
type SettingsService interface {
	Get(ctx context.Context, caller auth.Identity, userID string) (*model.Settings, error)
	Update(ctx context.Context, caller auth.Identity, userID string, in *service.UpdateSettingsInput) (*model.Settings, error)
}

// SpeechService defines the contract for text-to-speech.
type SpeechService interface {
	Synthesize(ctx context.Context, caller auth.Identity, in *service.SpeechInput) (*speech.Audio, error)
}
