package api

import (
	"github.com/itchan-dev/chanengine/shared/domain"
)

// Request DTOs

type CreateThreadRequest struct {
	Subject  *string `json:"subject,omitempty"`
	Content  string  `json:"content"`
	Name     string  `json:"name,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
	// Token lets a client retry a create without duplicating it.
	Token string `json:"token,omitempty" validate:"omitempty,uuid"`
}

// SetFlagRequest toggles isPinned or isLocked.
type SetFlagRequest struct {
	Value *bool `json:"value" validate:"required"`
}

// Response DTOs

type CreateThreadResponse struct {
	Thread domain.Thread `json:"thread"`
	Op     domain.Post   `json:"op"`
}

// ThreadResponse is the full thread view
type ThreadResponse struct {
	Thread domain.ThreadSummary `json:"thread"`
	Posts  []domain.Post        `json:"posts"`
}
