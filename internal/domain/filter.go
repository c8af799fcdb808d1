package domain

// PageSize is the fixed page size for diary lists.
const PageSize = 10

// DiaryFilter defines parameters for the paginated diary lists.
type DiaryFilter struct {
	// Title performs a case-insensitive substring match on the title.
	// nil or empty string means no filter.
	Title *string

	// AuthorNickname matches against the denormalized author nickname.
	AuthorNickname *string

	// Status restricts the review-queue list to one moderation state.
	// Ignored by the public approved feed, which always pins approved.
	Status *ModerationStatus

	// Page is the 1-based page number.
	Page int
}

// Normalize applies defaults and clamps values.
func (f *DiaryFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
}

// Offset returns the number of rows to skip for the current page.
func (f *DiaryFilter) Offset() int {
	return (f.Page - 1) * PageSize
}

// TotalPages converts a row count into a page count.
func TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}
