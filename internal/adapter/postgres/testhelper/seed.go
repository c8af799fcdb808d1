package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderlog/traveldiary-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedAccount creates an account with the given role.
// Returns a filled domain.Account.
func SeedAccount(t *testing.T, pool *pgxpool.Pool, role domain.Role) domain.Account {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	account := domain.Account{
		ID:        uuid.New(),
		Nickname:  "traveler-" + suffix,
		Role:      role,
		CreatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO accounts (id, nickname, avatar_url, role, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		account.ID, account.Nickname, account.AvatarURL, account.Role.String(), account.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAccount insert: %v", err)
	}

	return account
}

// SeedDiary creates a pending diary owned by the given account.
func SeedDiary(t *testing.T, pool *pgxpool.Pool, author domain.Account) domain.Diary {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	diary := domain.Diary{
		ID:             uuid.New(),
		Title:          "Trip " + suffix,
		Body:           "A travel diary seeded for integration tests.",
		Images:         []string{"images/compressed-" + suffix + ".jpg"},
		AuthorID:       author.ID,
		AuthorNickname: author.Nickname,
		AuthorAvatar:   author.AvatarURL,
		Status:         domain.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO diaries (id, title, body, images, video_ref, video_kind,
		                      author_id, author_nickname, author_avatar,
		                      status, reject_reason, is_deleted, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		diary.ID, diary.Title, diary.Body, diary.Images, nil, nil,
		diary.AuthorID, diary.AuthorNickname, diary.AuthorAvatar,
		diary.Status.String(), nil, false, diary.CreatedAt, diary.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDiary insert: %v", err)
	}

	return diary
}
