package model

import (
	"time"
)

// Message roles accepted in a request's conversation thread.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CarDetails describes the vehicle a request is about. Every field is optional.
type CarDetails struct {
	CarType  string `json:"carType,omitempty" bson:"carType,omitempty"`
	CarModel string `json:"carModel,omitempty" bson:"carModel,omitempty"`
	CarMade  string `json:"carMade,omitempty" bson:"carMade,omitempty"`
	CarYear  string `json:"carYear,omitempty" bson:"carYear,omitempty"`
}

// Link is a labeled external resource attached to a message.
type Link struct {
	Label string `json:"label,omitempty" bson:"label,omitempty"`
	URL   string `json:"url,omitempty" bson:"url,omitempty"`
	Image string `json:"image,omitempty" bson:"image,omitempty"`
}

// Message is a single entry of a request's conversation thread.
type Message struct {
	Role      string    `json:"role" bson:"role" validate:"required,oneof=user assistant"`
	Text      string    `json:"text" bson:"text" validate:"required"`
	ImageURLs []string  `json:"imageUrls" bson:"imageUrls"`
	Links     []Link    `json:"links" bson:"links"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// DiagnosisRequest is a user-submitted record describing a vehicle part issue.
// It is owned exclusively by the user who created it.
type DiagnosisRequest struct {
	ID          string      `json:"id" bson:"_id"`
	Owner       string      `json:"owner" bson:"owner"`
	Name        string      `json:"name,omitempty" bson:"name,omitempty"`
	CarDetails  *CarDetails `json:"carDetails,omitempty" bson:"carDetails,omitempty"`
	Image       string      `json:"image,omitempty" bson:"image,omitempty"`
	ImageURLs   []string    `json:"imageUrls" bson:"imageUrls"`
	Description string      `json:"description,omitempty" bson:"description,omitempty"`
	Messages    []Message   `json:"messages" bson:"messages"`
	CreatedAt   time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// ImageReferences returns every image reference carried by the request,
// including the ones attached to individual messages.
func (r *DiagnosisRequest) ImageReferences() []string {
	refs := make([]string, 0, len(r.ImageURLs)+1)
	if r.Image != "" {
		refs = append(refs, r.Image)
	}
	refs = append(refs, r.ImageURLs...)
	for _, msg := range r.Messages {
		refs = append(refs, msg.ImageURLs...)
		for _, link := range msg.Links {
			if link.Image != "" {
				refs = append(refs, link.Image)
			}
		}
	}
	return refs
}

// ResolvedImage is an image ready to be sent to an inference provider: either
// inline bytes with a declared media type, or a remote URL the provider fetches
// itself.
type ResolvedImage struct {
	MediaType string
	Data      []byte
	URL       string
}

// IsInline reports whether the image carries its own bytes.
func (i ResolvedImage) IsInline() bool {
	return i.URL == ""
}

// User is an account that can own requests and settings.
type User struct {
	ID             string    `json:"id" bson:"_id"`
	Username       string    `json:"username" bson:"username"`
	Email          string    `json:"email,omitempty" bson:"email,omitempty"`
	Role           string    `json:"role" bson:"role"`
	HashedPassword string    `json:"-" bson:"hashedPassword"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Settings holds per-user application preferences.
type Settings struct {
	UserID        string    `json:"user" bson:"_id"`
	Theme         string    `json:"theme" bson:"theme"`
	AIVoice       string    `json:"aiVoice" bson:"aiVoice"`
	Notifications bool      `json:"notifications" bson:"notifications"`
	AutoUpdates   bool      `json:"autoUpdates" bson:"autoUpdates"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// DefaultSettings returns the settings a user starts with.
func DefaultSettings(userID string) *Settings {
	now := time.Now().UTC()
	return &Settings{
		UserID:    userID,
		Theme:     "dark",
		AIVoice:   "male",
		CreatedAt: now,
		UpdatedAt: now,
	}
}
