package domain

import (
	"time"
)

// to iterate thru layers: handler -> service -> storage
type BoardCreationData struct {
	Code        BoardCode
	Name        BoardName
	Description string
	IsNSFW      bool
}

type Board struct {
	Code        BoardCode `json:"code"`
	Name        BoardName `json:"name"`
	Description string    `json:"description"`
	IsNSFW      bool      `json:"isNSFW"`
	PostCount   int64     `json:"postCount"` // every accepted post, including those of deleted threads
	CreatedAt   time.Time `json:"createdAt"`
}

// TotalPosts sums postCount over boards.
func TotalPosts(boards []Board) int64 {
	var total int64
	for _, b := range boards {
		total += b.PostCount
	}
	return total
}
