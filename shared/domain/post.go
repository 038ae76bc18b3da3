package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is immutable once created. The OP of a thread is a Post with IsOp set
// and Number == FirstPostNumber.
type Post struct {
	Board        BoardCode    `json:"boardCode"`
	ThreadNumber ThreadNumber `json:"threadNumber"`
	Number       PostNumber   `json:"postNumber"`
	Name         AuthorName   `json:"name"`
	Content      PostText     `json:"content"`
	ImageURL     *ImageURL    `json:"imageUrl,omitempty"`
	IsOp         bool         `json:"isOp"`
	Sage         bool         `json:"sage,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

func (p *Post) HasImage() bool {
	return p.ImageURL != nil && *p.ImageURL != ""
}

// to iterate thru layers: handler -> service -> storage
type PostCreationData struct {
	Board        BoardCode
	ThreadNumber ThreadNumber // ignored for OP creation
	Name         AuthorName
	Content      PostText
	ImageURL     *ImageURL
	Sage         bool
	// Token makes creation idempotent: retrying with the same token returns
	// the already persisted post instead of creating a second one.
	Token uuid.UUID
}

func (d *PostCreationData) HasImage() bool {
	return d.ImageURL != nil && *d.ImageURL != ""
}

type PostListOptions struct {
	After PostNumber // exclusive; 0 starts from the OP
	Limit int        // 0 means no limit
}
