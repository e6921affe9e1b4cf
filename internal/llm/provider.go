package llm

import (
	"context"

	"spareeye/backend/internal/model"
)

// SystemPrompt is the fixed instruction sent with every diagnosis call.
const SystemPrompt = "You are an expert in diagnosing damaged mechanical parts from images. " +
	"Return JSON with: diagnosis, severity, likely_part_name, repair_steps[], tools_needed[], safety_notes[], recommended_websites[]."

// DefaultPrompt replaces a blank user text.
const DefaultPrompt = "Analyze these images and describe the issue."

// AnalyzeInput is one diagnosis call: the user's text plus resolved images.
type AnalyzeInput struct {
	Text   string
	Images []model.ResolvedImage
}

// DiagnosisProvider defines the interface for the inference service that
// produces a structured diagnosis.
type DiagnosisProvider interface {
	Diagnose(ctx context.Context, in *AnalyzeInput) (*model.AnalysisResult, error)
}
