package api

import (
	"github.com/itchan-dev/chanengine/shared/domain"
)

// Request DTOs

type CreateBoardRequest struct {
	Code        string `json:"code" validate:"required,alphanum"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	IsNSFW      bool   `json:"isNSFW,omitempty"`
}

// Response DTOs

// BoardListResponse wraps the board directory
type BoardListResponse struct {
	Boards     []domain.Board `json:"boards"`
	TotalPosts int64          `json:"totalPosts"`
}

// BoardThreadsResponse is one page of a board listing
type BoardThreadsResponse struct {
	Board   domain.Board           `json:"board"`
	Threads []domain.ThreadSummary `json:"threads"`
	Page    int                    `json:"page"`
	HasMore bool                   `json:"hasMore"`
}

type PopularThreadsResponse struct {
	Threads []domain.ThreadSummary `json:"threads"`
}

type ReconcileResponse struct {
	domain.ReconcileReport
}
