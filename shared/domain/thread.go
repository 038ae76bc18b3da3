package domain

import (
	"time"
)

// to iterate thru layers: handler -> service -> storage
type ThreadCreationData struct {
	Board   BoardCode
	Subject *ThreadTitle
	Op      PostCreationData
}

// Thread is the aggregate kept in sync with its posts.
type Thread struct {
	Board        BoardCode    `json:"boardCode"`
	Number       ThreadNumber `json:"threadNumber"`
	Subject      *ThreadTitle `json:"subject,omitempty"`
	IsPinned     bool         `json:"isPinned"`
	IsLocked     bool         `json:"isLocked"`
	Replies      int          `json:"replies"`
	Images       int          `json:"images"`
	LastBumpTime time.Time    `json:"lastBumpTime"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// ThreadSummary is what a board page needs to render one thread without a
// second round trip.
type ThreadSummary struct {
	Thread
	Op            Post   `json:"op"`
	RecentReplies []Post `json:"recentReplies"`
}

type ThreadListOptions struct {
	Page     int // 1-indexed
	PageSize int
}

type ThreadPage struct {
	Threads []ThreadSummary
	HasMore bool
}

// BumpPolicy decides whether an accepted reply moves lastBumpTime.
type BumpPolicy struct {
	BumpLimit int  // replies beyond this count stop bumping; 0 disables the limit
	AllowSage bool // honor Post.Sage
}

// Bumps reports whether a reply arriving when the thread already has
// `replies` replies should bump it.
func (p BumpPolicy) Bumps(replies int, sage bool) bool {
	if p.AllowSage && sage {
		return false
	}
	if p.BumpLimit > 0 && replies >= p.BumpLimit {
		return false
	}
	return true
}

type ReconcileReport struct {
	ThreadsRepaired int64 `json:"threadsRepaired"`
	BoardsRepaired  int64 `json:"boardsRepaired"`
}
