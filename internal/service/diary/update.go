package diary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wanderlog/traveldiary-backend/internal/domain"
	"github.com/wanderlog/traveldiary-backend/pkg/ctxutil"
)

// Update applies an owner edit. New media is transformed and placed
// before the transaction; files the edit replaces are superseded in
// the ledger and removed only after the transaction commits, so a
// failed edit leaves the previous media intact. Any successful edit
// re-queues the diary for moderation.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*domain.Diary, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	ledger := s.newLedger()
	for _, p := range input.ImagePaths {
		ledger.Consume(p)
	}
	if input.VideoPath != nil {
		ledger.Consume(*input.VideoPath)
	}

	if err := input.Validate(); err != nil {
		ledger.Abort()
		return nil, err
	}

	// Produce replacement media before opening the transaction to keep
	// image decoding out of the row lock window.
	patch := &domain.Diary{}
	if err := s.assembleMedia(ctx, ledger, patch, input.ImagePaths, input.VideoPath, input.VideoURL); err != nil {
		ledger.Abort()
		return nil, err
	}

	var updated *domain.Diary
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		d, err := s.diaries.GetByIDForUpdate(ctx, input.DiaryID)
		if err != nil {
			return fmt.Errorf("get diary: %w", err)
		}
		if err := d.EditableBy(accountID); err != nil {
			return err
		}

		if input.Title != nil {
			d.Title = strings.TrimSpace(*input.Title)
		}
		if input.Body != nil {
			d.Body = strings.TrimSpace(*input.Body)
		}

		if len(patch.Images) > 0 {
			for _, rel := range d.Images {
				ledger.Supersede(rel)
			}
			d.Images = patch.Images
		}

		replaceVideo := patch.VideoRef != nil || input.ClearVideo
		if replaceVideo {
			if d.VideoKind == domain.VideoKindFile && d.VideoRef != nil {
				ledger.Supersede(*d.VideoRef)
			}
			d.VideoRef = patch.VideoRef
			d.VideoKind = patch.VideoKind
		}

		d.ResetForReview()

		updated, err = s.diaries.Update(ctx, d)
		if err != nil {
			return fmt.Errorf("update diary: %w", err)
		}
		return nil
	})
	if err != nil {
		ledger.Abort()
		return nil, err
	}
	ledger.Commit()

	s.log.InfoContext(ctx, "diary updated",
		slog.String("diary_id", updated.ID.String()),
		slog.String("author_id", accountID.String()),
	)

	return updated, nil
}
