package api

// Request DTOs

type CreatePostRequest struct {
	Content  string  `json:"content"`
	Name     string  `json:"name,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
	Sage     bool    `json:"sage,omitempty"`
	Token    string  `json:"token,omitempty" validate:"omitempty,uuid"`
}
