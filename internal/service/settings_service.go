package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"spareeye/backend/internal/auth"
	app_errors "spareeye/backend/internal/errors"
	"spareeye/backend/internal/model"
	"spareeye/backend/internal/repository"
)

// UpdateSettingsInput lists the only fields a client may change. Nil fields
// keep their stored value.
type UpdateSettingsInput struct {
	Theme         *string `json:"theme" validate:"omitempty,oneof=light dark"`
	AIVoice       *string `json:"aiVoice" validate:"omitempty,oneof=male female"`
	Notifications *bool   `json:"notifications"`
	AutoUpdates   *bool   `json:"autoUpdates"`
}

type SettingsService struct {
	repo repository.SettingsRepository
}

func NewSettingsService(repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// Get returns the user's settings, creating the defaults on first read.
func (s *SettingsService) Get(ctx context.Context, caller auth.Identity, userID string) (*model.Settings, error) {
	if userID != caller.UserID {
		return nil, fmt.Errorf("%w: cannot read another user's settings", app_errors.ErrPermission)
	}
	return s.load(ctx, userID)
}

// Update applies the allowed fields and upserts the result.
func (s *SettingsService) Update(ctx context.Context, caller auth.Identity, userID string, in *UpdateSettingsInput) (*model.Settings, error) {
	if userID != caller.UserID {
		return nil, fmt.Errorf("%w: cannot change another user's settings", app_errors.ErrPermission)
	}

	settings, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Theme != nil {
		settings.Theme = *in.Theme
	}
	if in.AIVoice != nil {
		settings.AIVoice = *in.AIVoice
	}
	if in.Notifications != nil {
		settings.Notifications = *in.Notifications
	}
	if in.AutoUpdates != nil {
		settings.AutoUpdates = *in.AutoUpdates
	}
	settings.UpdatedAt = time.Now().UTC()

	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return settings, nil
}

func (s *SettingsService) load(ctx context.Context, userID string) (*model.Settings, error) {
	settings, err := s.repo.GetSettings(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	slog.Info("No settings found, creating defaults", "user_id", userID)
	settings = model.DefaultSettings(userID)
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save default settings: %w", err)
	}
	return settings, nil
}
