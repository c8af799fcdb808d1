package diary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/wanderlog/traveldiary-backend/internal/domain"
	"github.com/wanderlog/traveldiary-backend/pkg/ctxutil"
)

// Delete logically deletes a diary. Allowed for the owner and for
// administrators. Media files are intentionally kept: the row still
// references them and the sweeper honors those references.
func (s *Service) Delete(ctx context.Context, diaryID uuid.UUID) error {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if diaryID == uuid.Nil {
		return domain.NewValidationError("diary_id", "required")
	}

	role := domain.Role(ctxutil.RoleFromCtx(ctx))

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		d, err := s.diaries.GetByIDForUpdate(ctx, diaryID)
		if err != nil {
			return fmt.Errorf("get diary: %w", err)
		}
		if err := d.DeletableBy(accountID, role); err != nil {
			return err
		}
		if err := s.diaries.SetDeleted(ctx, diaryID); err != nil {
			return fmt.Errorf("delete diary: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "diary deleted",
		slog.String("diary_id", diaryID.String()),
		slog.String("account_id", accountID.String()),
		slog.String("role", role.String()),
	)

	return nil
}
