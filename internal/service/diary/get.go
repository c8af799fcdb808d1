package diary

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wanderlog/traveldiary-backend/internal/domain"
	"github.com/wanderlog/traveldiary-backend/pkg/ctxutil"
)

// Page is one page of a diary list.
type Page struct {
	Diaries []domain.Diary
	Page    int
	Pages   int
}

// Get returns a single diary. Diaries the viewer may not see are
// reported as not found so their existence does not leak.
func (s *Service) Get(ctx context.Context, diaryID uuid.UUID) (*domain.Diary, error) {
	if diaryID == uuid.Nil {
		return nil, domain.NewValidationError("diary_id", "required")
	}

	d, err := s.diaries.GetByID(ctx, diaryID)
	if err != nil {
		return nil, fmt.Errorf("get diary: %w", err)
	}
	if !domain.CanView(d, identityFromCtx(ctx)) {
		return nil, domain.ErrNotFound
	}

	return d, nil
}

// ListApproved returns a page of the public feed, optionally filtered
// by title and author nickname substrings. Open to anonymous callers.
func (s *Service) ListApproved(ctx context.Context, f domain.DiaryFilter) (*Page, error) {
	f.Normalize()

	diaries, total, err := s.diaries.ListApproved(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list approved diaries: %w", err)
	}

	return &Page{Diaries: diaries, Page: f.Page, Pages: domain.TotalPages(total)}, nil
}

// ListMine returns all diaries of the authenticated account in every
// moderation state, including rejected ones with their reasons.
func (s *Service) ListMine(ctx context.Context) ([]domain.Diary, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	diaries, err := s.diaries.ListByAuthor(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list own diaries: %w", err)
	}

	return diaries, nil
}

// ListForReview returns a page of the moderation queue, optionally
// restricted to one status. Moderators only.
func (s *Service) ListForReview(ctx context.Context, f domain.DiaryFilter) (*Page, error) {
	viewer := identityFromCtx(ctx)
	if viewer.IsAnonymous() {
		return nil, domain.ErrUnauthorized
	}
	if !viewer.Role.CanModerate() {
		return nil, domain.ErrForbidden
	}

	if f.Status != nil && !f.Status.IsValid() {
		return nil, domain.NewValidationError("status", "must be pending, approved or rejected")
	}

	f.Normalize()

	diaries, total, err := s.diaries.ListForReview(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list review queue: %w", err)
	}

	return &Page{Diaries: diaries, Page: f.Page, Pages: domain.TotalPages(total)}, nil
}
