package apiclient

import (
	"slices"

	"github.com/itchan-dev/chanengine/shared/domain"
)

// SortByReplies returns a copy of threads ordered by reply count, most first.
// Ties keep the server order. The input is not modified, so page boundaries
// obtained from the server stay valid.
func SortByReplies(threads []domain.ThreadSummary) []domain.ThreadSummary {
	sorted := slices.Clone(threads)
	slices.SortStableFunc(sorted, func(a, b domain.ThreadSummary) int {
		return b.Replies - a.Replies
	})
	return sorted
}
