package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisResult_DecodesMixedResources(t *testing.T) {
	raw := `{
		"diagnosis": "Cracked brake rotor",
		"severity": "high",
		"likely_part_name": "Front brake rotor",
		"repair_steps": ["Lift the car", "Remove the caliper"],
		"tools_needed": ["Jack"],
		"safety_notes": ["Use jack stands"],
		"recommended_websites": [
			"https://example.com/rotors",
			{"label": "Parts store", "url": "https://parts.example.com"}
		]
	}`

	var result AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(raw), &result))

	assert.Equal(t, "Front brake rotor", result.LikelyPartName)
	assert.Equal(t, []string{"Lift the car", "Remove the caliper"}, result.RepairSteps)
	require.Len(t, result.RecommendedWebsites, 2)
	assert.Equal(t, Resource{URL: "https://example.com/rotors"}, result.RecommendedWebsites[0])
	assert.Equal(t, Resource{Label: "Parts store", URL: "https://parts.example.com"}, result.RecommendedWebsites[1])
}

func TestResource_RejectsInvalidShapes(t *testing.T) {
	var r Resource
	assert.Error(t, json.Unmarshal([]byte(`42`), &r))
}

func TestDiagnosisRequest_ImageReferences(t *testing.T) {
	req := &DiagnosisRequest{
		Image:     "/uploads/u1/a.jpg",
		ImageURLs: []string{"/uploads/u1/b.png", "https://cdn.example.com/c.jpg"},
		Messages: []Message{
			{Role: RoleUser, Text: "hi", ImageURLs: []string{"/uploads/u1/d.webp"}},
			{Role: RoleAssistant, Text: "ok", Links: []Link{{Label: "x", URL: "https://x", Image: "/uploads/u1/e.jpg"}}},
		},
	}

	assert.Equal(t, []string{
		"/uploads/u1/a.jpg",
		"/uploads/u1/b.png",
		"https://cdn.example.com/c.jpg",
		"/uploads/u1/d.webp",
		"/uploads/u1/e.jpg",
	}, req.ImageReferences())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings("u1")
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, "dark", s.Theme)
	assert.Equal(t, "male", s.AIVoice)
	assert.False(t, s.Notifications)
	assert.False(t, s.AutoUpdates)
}
