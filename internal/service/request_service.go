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
	"spareeye/backend/internal/llm"
	"spareeye/backend/internal/model"
	"spareeye/backend/internal/repository"
	"spareeye/backend/internal/resolver"
	"spareeye/backend/internal/uploads"
)

// CreateRequestInput is the payload of a new diagnosis request.
type CreateRequestInput struct {
	Name        string            `json:"name" validate:"max=200"`
	CarDetails  *model.CarDetails `json:"carDetails"`
	Image       string            `json:"image" validate:"max=2048"`
	ImageURLs   []string          `json:"imageUrls" validate:"max=50,dive,max=2048"`
	Description string            `json:"description" validate:"max=5000"`
	Messages    []model.Message   `json:"messages" validate:"dive"`
}

// UpdateRequestInput is a partial update; nil fields are left untouched.
type UpdateRequestInput struct {
	Name        *string           `json:"name" validate:"omitempty,max=200"`
	CarDetails  *model.CarDetails `json:"carDetails"`
	Image       *string           `json:"image" validate:"omitempty,max=2048"`
	ImageURLs   *[]string         `json:"imageUrls" validate:"omitempty,max=50,dive,max=2048"`
	Description *string           `json:"description" validate:"omitempty,max=5000"`
	Messages    *[]model.Message  `json:"messages" validate:"omitempty,dive"`
}

// AnalyzeInput is one analyze call: optional text, previously obtained image
// references and fresh in-memory uploads.
type AnalyzeInput struct {
	UserText  string
	ImageURLs []string
	Files     []uploads.File
}

// AnalyzeResult is what the analyze operation returns. It is not persisted.
type AnalyzeResult struct {
	Result           *model.AnalysisResult `json:"result"`
	ImageURLs        []string              `json:"imageUrls"`
	SkippedImageURLs []string              `json:"skippedImageUrls,omitempty"`
}

// RequestService orchestrates diagnosis requests: owner-scoped CRUD, image
// uploads and the analyze flow.
type RequestService struct {
	repo     repository.RequestRepository
	store    *uploads.Store
	resolver *resolver.Resolver
	llm      llm.DiagnosisProvider
}

func NewRequestService(repo repository.RequestRepository, store *uploads.Store, res *resolver.Resolver, llmProvider llm.DiagnosisProvider) *RequestService {
	return &RequestService{repo: repo, store: store, resolver: res, llm: llmProvider}
}

func (s *RequestService) Create(ctx context.Context, caller auth.Identity, in *CreateRequestInput) (*model.DiagnosisRequest, error) {
	now := time.Now().UTC()
	req := &model.DiagnosisRequest{
		ID:          uuid.NewString(),
		Owner:       caller.UserID,
		Name:        in.Name,
		CarDetails:  in.CarDetails,
		Image:       in.Image,
		ImageURLs:   in.ImageURLs,
		Description: in.Description,
		Messages:    in.Messages,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := prepareRequest(caller, req, now); err != nil {
		return nil, err
	}

	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	slog.Info("Created diagnosis request", "request_id", req.ID, "owner", req.Owner)
	return req, nil
}

func (s *RequestService) List(ctx context.Context, caller auth.Identity) ([]*model.DiagnosisRequest, error) {
	requests, err := s.repo.ListRequests(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

func (s *RequestService) Get(ctx context.Context, caller auth.Identity, id string) (*model.DiagnosisRequest, error) {
	return s.getOwned(ctx, caller, id)
}

func (s *RequestService) Update(ctx context.Context, caller auth.Identity, id string, in *UpdateRequestInput) (*model.DiagnosisRequest, error) {
	req, err := s.getOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		req.Name = *in.Name
	}
	if in.CarDetails != nil {
		req.CarDetails = in.CarDetails
	}
	if in.Image != nil {
		req.Image = *in.Image
	}
	if in.ImageURLs != nil {
		req.ImageURLs = *in.ImageURLs
	}
	if in.Description != nil {
		req.Description = *in.Description
	}
	if in.Messages != nil {
		req.Messages = *in.Messages
	}

	now := time.Now().UTC()
	if err := prepareRequest(caller, req, now); err != nil {
		return nil, err
	}
	req.UpdatedAt = now

	if err := s.repo.UpdateRequest(ctx, req); err != nil {
		return nil, mapRepoError(err, "request", id)
	}
	return req, nil
}

func (s *RequestService) Delete(ctx context.Context, caller auth.Identity, id string) (*model.DiagnosisRequest, error) {
	req, err := s.getOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteRequest(ctx, id); err != nil {
		return nil, mapRepoError(err, "request", id)
	}
	slog.Info("Deleted diagnosis request", "request_id", id, "owner", caller.UserID)
	return req, nil
}

// Upload stores a batch of images for the caller and returns their references.
func (s *RequestService) Upload(ctx context.Context, caller auth.Identity, files []uploads.File) ([]string, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no images were uploaded", app_errors.ErrValidation)
	}
	return s.store.Save(caller.UserID, files)
}

// Analyze resolves every image input and asks the provider for a diagnosis.
// Fresh uploads are persisted, but no request record is created or changed.
func (s *RequestService) Analyze(ctx context.Context, caller auth.Identity, in *AnalyzeInput) (*AnalyzeResult, error) {
	res, err := s.resolver.Resolve(ctx, caller.UserID, in.ImageURLs, in.Files)
	if err != nil {
		return nil, err
	}

	result, err := s.llm.Diagnose(ctx, &llm.AnalyzeInput{Text: in.UserText, Images: res.Images})
	if err != nil {
		slog.Error("Diagnosis failed", "owner", caller.UserID, "images", len(res.Images), "error", err)
		return nil, err
	}

	return &AnalyzeResult{
		Result:           result,
		ImageURLs:        res.References,
		SkippedImageURLs: res.Skipped,
	}, nil
}

func (s *RequestService) getOwned(ctx context.Context, caller auth.Identity, id string) (*model.DiagnosisRequest, error) {
	req, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "request", id)
	}
	if req.Owner != caller.UserID {
		return nil, fmt.Errorf("%w: request %s belongs to another user", app_errors.ErrPermission, id)
	}
	return req, nil
}

// prepareRequest validates a request about to be written and fills message
// timestamps.
func prepareRequest(caller auth.Identity, req *model.DiagnosisRequest, now time.Time) error {
	for i := range req.Messages {
		msg := &req.Messages[i]
		if msg.Role != model.RoleUser && msg.Role != model.RoleAssistant {
			return fmt.Errorf("%w: message %d has invalid role %q", app_errors.ErrValidation, i, msg.Role)
		}
		if strings.TrimSpace(msg.Text) == "" {
			return fmt.Errorf("%w: message %d has no text", app_errors.ErrValidation, i)
		}
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = now
		}
	}
	return resolver.CheckOwnership(caller.UserID, req.ImageReferences())
}

// mapRepoError translates repository errors into domain errors.
func mapRepoError(err error, kind, id string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s %s", app_errors.ErrNotFound, kind, id)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%w: %s %s already exists", app_errors.ErrConflict, kind, id)
	default:
		return fmt.Errorf("failed to access %s %s: %w", kind, id, err)
	}
}
