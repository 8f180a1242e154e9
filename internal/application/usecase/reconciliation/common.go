// Package reconciliation contains reconciliation review use cases.
package reconciliation

const (
	defaultReviewLimit = 50
	maxReviewLimit     = 200
)

// clampReviewWindow bounds the limit and offset of a review listing.
func clampReviewWindow(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultReviewLimit
	}
	if limit > maxReviewLimit {
		limit = maxReviewLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
