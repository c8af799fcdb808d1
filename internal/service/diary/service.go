// Package diary implements the diary submission, listing and
// moderation operations. It owns the stage/commit/abort choreography
// that keeps the media tree consistent with the database: files are
// produced before the transaction, recorded in a ledger, and the
// ledger is resolved by the transaction outcome.
package diary

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/wanderlog/traveldiary-backend/internal/domain"
	"github.com/wanderlog/traveldiary-backend/pkg/ctxutil"
)

type diaryRepo interface {
	Create(ctx context.Context, d *domain.Diary) (*domain.Diary, error)
	Update(ctx context.Context, d *domain.Diary) (*domain.Diary, error)
	SetDeleted(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Diary, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Diary, error)
	ListApproved(ctx context.Context, f domain.DiaryFilter) ([]domain.Diary, int, error)
	ListForReview(ctx context.Context, f domain.DiaryFilter) ([]domain.Diary, int, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]domain.Diary, error)
}

type accountRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type transformer interface {
	Transform(ctx context.Context, rawPath string) (string, error)
}

type mediaStore interface {
	Rel(abs string) (string, error)
	PlaceVideo(stagedAbs string) (string, error)
}

// FileLedger reconciles files produced or consumed by one submission
// with the transaction outcome. Exported so the composition root can
// supply the ledger factory.
type FileLedger interface {
	Consume(abs string)
	Stage(rel string)
	Supersede(rel string)
	Commit()
	Abort()
}

// Service provides diary operations.
type Service struct {
	diaries   diaryRepo
	accounts  accountRepo
	tx        txManager
	transform transformer
	store     mediaStore
	newLedger func() FileLedger
	log       *slog.Logger
}

// NewService creates a new Diary service. newLedger is called once per
// mutating request to obtain a fresh file ledger.
func NewService(
	log *slog.Logger,
	diaries diaryRepo,
	accounts accountRepo,
	tx txManager,
	transform transformer,
	store mediaStore,
	newLedger func() FileLedger,
) *Service {
	return &Service{
		diaries:   diaries,
		accounts:  accounts,
		tx:        tx,
		transform: transform,
		store:     store,
		newLedger: newLedger,
		log:       log.With("service", "diary"),
	}
}

// identityFromCtx builds the viewer identity from the request context.
// Anonymous callers yield the zero Identity.
func identityFromCtx(ctx context.Context) domain.Identity {
	id, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.Identity{}
	}
	return domain.Identity{
		AccountID: id,
		Role:      domain.Role(ctxutil.RoleFromCtx(ctx)),
	}
}
