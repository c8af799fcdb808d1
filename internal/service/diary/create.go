package diary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wanderlog/traveldiary-backend/internal/domain"
	"github.com/wanderlog/traveldiary-backend/pkg/ctxutil"
)

// Create submits a new diary. Uploaded media is transformed and placed
// before the database transaction; the file ledger guarantees that a
// failure at any point, including validation, leaves no staged uploads
// and no orphaned derived files behind, while a success removes only
// the raw uploads.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Diary, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	// Raw uploads never outlive the request, so consume them before
	// validation: a rejected submission must still clean its staging.
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

	d := &domain.Diary{
		Title: strings.TrimSpace(input.Title),
		Body:  strings.TrimSpace(input.Body),
	}

	if err := s.assembleMedia(ctx, ledger, d, input.ImagePaths, input.VideoPath, input.VideoURL); err != nil {
		ledger.Abort()
		return nil, err
	}

	var created *domain.Diary
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		author, err := s.accounts.GetByID(ctx, accountID)
		if err != nil {
			return fmt.Errorf("resolve author: %w", err)
		}
		d.SetAuthor(author)
		d.Status = domain.StatusPending

		created, err = s.diaries.Create(ctx, d)
		if err != nil {
			return fmt.Errorf("create diary: %w", err)
		}
		return nil
	})
	if err != nil {
		ledger.Abort()
		return nil, err
	}
	ledger.Commit()

	s.log.InfoContext(ctx, "diary submitted",
		slog.String("diary_id", created.ID.String()),
		slog.String("author_id", accountID.String()),
		slog.Int("images", len(created.Images)),
		slog.Bool("has_video", created.HasVideo()),
	)

	return created, nil
}

// assembleMedia turns staged uploads into stored media references on
// d, staging every produced file in the ledger.
func (s *Service) assembleMedia(ctx context.Context, ledger FileLedger, d *domain.Diary, imagePaths []string, videoPath, videoURL *string) error {
	for _, raw := range imagePaths {
		derivedAbs, err := s.transform.Transform(ctx, raw)
		if err != nil {
			return fmt.Errorf("transform image: %w", err)
		}
		rel, err := s.store.Rel(derivedAbs)
		if err != nil {
			return err
		}
		ledger.Stage(rel)
		d.Images = append(d.Images, rel)
	}

	switch {
	case videoPath != nil:
		rel, err := s.store.PlaceVideo(*videoPath)
		if err != nil {
			return err
		}
		ledger.Stage(rel)
		d.VideoRef = &rel
		d.VideoKind = domain.VideoKindFile
	case videoURL != nil:
		url := strings.TrimSpace(*videoURL)
		d.VideoRef = &url
		d.VideoKind = domain.VideoKindURL
	}

	return nil
}
