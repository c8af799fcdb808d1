// Package account implements the Account repository using PostgreSQL.
// Accounts are owned by the identity service; this repository is
// read-only and exists to resolve author snapshots and roles.
package account

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/wanderlog/traveldiary-backend/internal/adapter/postgres"
	"github.com/wanderlog/traveldiary-backend/internal/domain"
)

// Repo provides account lookups backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new account repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getByIDSQL = `
SELECT id, nickname, avatar_url, role, created_at
FROM accounts
WHERE id = $1`

// GetByID returns an account by primary key. When called inside a
// transaction context the read participates in that transaction, so an
// author snapshot taken here cannot race a concurrent profile change.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		accID     uuid.UUID
		nickname  string
		avatarURL pgtype.Text
		role      string
		createdAt time.Time
	)

	err := querier.QueryRow(ctx, getByIDSQL, id).Scan(&accID, &nickname, &avatarURL, &role, &createdAt)
	if err != nil {
		return nil, postgres.MapError(err, "account", id)
	}

	acc := domain.Account{
		ID:        accID,
		Nickname:  nickname,
		Role:      domain.Role(role),
		CreatedAt: createdAt,
	}
	if avatarURL.Valid {
		acc.AvatarURL = &avatarURL.String
	}

	return &acc, nil
}
