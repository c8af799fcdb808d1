package diary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/wanderlog/traveldiary-backend/internal/domain"
)

// Approve marks a diary approved. Moderators only. Approving an
// already approved diary is a conflict.
func (s *Service) Approve(ctx context.Context, diaryID uuid.UUID) (*domain.Diary, error) {
	reviewer, err := s.moderatorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if diaryID == uuid.Nil {
		return nil, domain.NewValidationError("diary_id", "required")
	}

	var approved *domain.Diary
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		d, err := s.diaries.GetByIDForUpdate(ctx, diaryID)
		if err != nil {
			return fmt.Errorf("get diary: %w", err)
		}
		if err := d.Approve(); err != nil {
			return err
		}

		approved, err = s.diaries.Update(ctx, d)
		if err != nil {
			return fmt.Errorf("update diary: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "diary approved",
		slog.String("diary_id", diaryID.String()),
		slog.String("reviewer_id", reviewer.AccountID.String()),
	)

	return approved, nil
}

// Reject marks a diary rejected with a reason the author will see.
// Moderators only. Rejecting an approved diary is a conflict;
// rejecting a rejected one replaces the reason.
func (s *Service) Reject(ctx context.Context, input RejectInput) (*domain.Diary, error) {
	reviewer, err := s.moderatorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(input.Reason)

	var rejected *domain.Diary
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		d, err := s.diaries.GetByIDForUpdate(ctx, input.DiaryID)
		if err != nil {
			return fmt.Errorf("get diary: %w", err)
		}
		if err := d.Reject(reason); err != nil {
			return err
		}

		rejected, err = s.diaries.Update(ctx, d)
		if err != nil {
			return fmt.Errorf("update diary: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "diary rejected",
		slog.String("diary_id", input.DiaryID.String()),
		slog.String("reviewer_id", reviewer.AccountID.String()),
	)

	return rejected, nil
}

// moderatorFromCtx resolves the caller and checks moderation rights.
// The transport layer already gates these routes; the check here keeps
// the rule enforced even for internal callers.
func (s *Service) moderatorFromCtx(ctx context.Context) (domain.Identity, error) {
	viewer := identityFromCtx(ctx)
	if viewer.IsAnonymous() {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	if !viewer.Role.CanModerate() {
		return domain.Identity{}, domain.ErrForbidden
	}
	return viewer, nil
}
