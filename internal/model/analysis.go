package model

import (
	"bytes"
	"encoding/json"
)

// AnalysisResult is the structured output of one diagnosis call. It is never
// persisted on its own; callers attach it to a request's messages if they want to.
type AnalysisResult struct {
	Diagnosis           string     `json:"diagnosis"`
	Severity            string     `json:"severity"`
	LikelyPartName      string     `json:"likely_part_name"`
	RepairSteps         []string   `json:"repair_steps"`
	ToolsNeeded         []string   `json:"tools_needed"`
	SafetyNotes         []string   `json:"safety_notes"`
	RecommendedWebsites []Resource `json:"recommended_websites"`
}

// Resource is a recommended external resource. Models answer with either a bare
// URL string or a link object, so both shapes decode into it.
type Resource struct {
	Label string `json:"label,omitempty"`
	URL   string `json:"url"`
	Image string `json:"image,omitempty"`
}

// UnmarshalJSON accepts `"https://..."` as well as `{"label": ..., "url": ...}`.
func (r *Resource) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Resource{URL: s}
		return nil
	}

	type plain Resource
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Resource(p)
	return nil
}
