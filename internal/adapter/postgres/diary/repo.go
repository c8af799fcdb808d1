// Package diary implements the Diary repository using PostgreSQL.
// Write queries use raw SQL; the filtered list queries are built with
// squirrel because their WHERE clause is assembled dynamically.
package diary

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/wanderlog/traveldiary-backend/internal/adapter/postgres"
	"github.com/wanderlog/traveldiary-backend/internal/domain"
)

// psql builds queries with PostgreSQL $n placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// diaryColumns is the canonical column order shared by every SELECT
// and by scanDiary.
var diaryColumns = []string{
	"id", "title", "body", "images", "video_ref", "video_kind",
	"author_id", "author_nickname", "author_avatar",
	"status", "reject_reason", "is_deleted", "created_at", "updated_at",
}

// Repo provides diary persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new diary repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

const insertSQL = `
INSERT INTO diaries (
    id, title, body, images, video_ref, video_kind,
    author_id, author_nickname, author_avatar,
    status, reject_reason, is_deleted, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

const getByIDSQL = `
SELECT id, title, body, images, video_ref, video_kind,
       author_id, author_nickname, author_avatar,
       status, reject_reason, is_deleted, created_at, updated_at
FROM diaries
WHERE id = $1 AND is_deleted = FALSE`

const getByIDForUpdateSQL = getByIDSQL + `
FOR UPDATE`

const updateSQL = `
UPDATE diaries
SET title = $1, body = $2, images = $3, video_ref = $4, video_kind = $5,
    status = $6, reject_reason = $7, updated_at = $8
WHERE id = $9 AND is_deleted = FALSE`

const setDeletedSQL = `
UPDATE diaries
SET is_deleted = TRUE, updated_at = $1
WHERE id = $2 AND is_deleted = FALSE`

const listByAuthorSQL = `
SELECT id, title, body, images, video_ref, video_kind,
       author_id, author_nickname, author_avatar,
       status, reject_reason, is_deleted, created_at, updated_at
FROM diaries
WHERE author_id = $1 AND is_deleted = FALSE
ORDER BY created_at DESC, id DESC`

const listReferencedMediaSQL = `
SELECT images, video_ref, video_kind
FROM diaries`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new diary row. Timestamps are assigned here;
// the caller's struct is updated in place and returned.
func (r *Repo) Create(ctx context.Context, d *domain.Diary) (*domain.Diary, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = now
	d.UpdatedAt = now
	if d.Images == nil {
		d.Images = []string{}
	}

	_, err := querier.Exec(ctx, insertSQL,
		d.ID, d.Title, d.Body, d.Images,
		ptrStringToPgText(d.VideoRef), videoKindToPgText(d),
		d.AuthorID, d.AuthorNickname, ptrStringToPgText(d.AuthorAvatar),
		string(d.Status), ptrStringToPgText(d.RejectReason),
		d.IsDeleted, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "diary", d.ID)
	}

	return d, nil
}

// Update writes the mutable fields of a diary. The author columns are
// deliberately not touched: the denormalized snapshot changes only
// when authorship changes, which never happens on update.
// Returns domain.ErrNotFound if the row is missing or deleted.
func (r *Repo) Update(ctx context.Context, d *domain.Diary) (*domain.Diary, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	d.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	tag, err := querier.Exec(ctx, updateSQL,
		d.Title, d.Body, d.Images,
		ptrStringToPgText(d.VideoRef), videoKindToPgText(d),
		string(d.Status), ptrStringToPgText(d.RejectReason),
		d.UpdatedAt, d.ID,
	)
	if err != nil {
		return nil, postgres.MapError(err, "diary", d.ID)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("diary %s: %w", d.ID, domain.ErrNotFound)
	}

	return d, nil
}

// SetDeleted marks a diary as logically deleted.
// Returns domain.ErrNotFound if the row is missing or already deleted.
func (r *Repo) SetDeleted(ctx context.Context, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	tag, err := querier.Exec(ctx, setDeletedSQL, now, id)
	if err != nil {
		return postgres.MapError(err, "diary", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("diary %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a diary by primary key, excluding deleted rows.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Diary, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	d, err := scanDiaryRow(querier.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "diary", id)
	}

	return d, nil
}

// GetByIDForUpdate returns a diary and takes a row-level lock for the
// remainder of the surrounding transaction. Must only be called inside
// RunInTx; it serializes concurrent read-modify-write cycles on the
// same diary.
func (r *Repo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Diary, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	d, err := scanDiaryRow(querier.QueryRow(ctx, getByIDForUpdateSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "diary", id)
	}

	return d, nil
}

// ListApproved returns the public feed: approved, non-deleted diaries,
// newest first, with optional case-insensitive substring filters on
// title and author nickname. The second return value is the total row
// count for the filter, independent of the page.
func (r *Repo) ListApproved(ctx context.Context, f domain.DiaryFilter) ([]domain.Diary, int, error) {
	f.Normalize()
	return r.listPage(ctx, approvedWhere(f), f)
}

// ListForReview returns the moderation queue: all non-deleted diaries,
// optionally restricted to one status, newest first.
func (r *Repo) ListForReview(ctx context.Context, f domain.DiaryFilter) ([]domain.Diary, int, error) {
	f.Normalize()
	return r.listPage(ctx, reviewWhere(f), f)
}

// listPage runs the shared count + page query pair for a WHERE clause.
func (r *Repo) listPage(ctx context.Context, where squirrel.And, f domain.DiaryFilter) ([]domain.Diary, int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("diaries").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count diaries: %w", err)
	}

	pageSQL, pageArgs, err := psql.Select(diaryColumns...).
		From("diaries").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(domain.PageSize).
		Offset(uint64(f.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := querier.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list diaries: %w", err)
	}
	defer rows.Close()

	result, err := scanDiaries(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("list diaries: %w", err)
	}

	return result, int(total), nil
}

// ListByAuthor returns all non-deleted diaries of one author, newest
// first, regardless of moderation state.
func (r *Repo) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]domain.Diary, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByAuthorSQL, authorID)
	if err != nil {
		return nil, fmt.Errorf("list diaries by author: %w", err)
	}
	defer rows.Close()

	result, err := scanDiaries(rows)
	if err != nil {
		return nil, fmt.Errorf("list diaries by author: %w", err)
	}

	return result, nil
}

// ListReferencedMedia returns every storage path referenced by any
// diary row, deleted rows included — logically deleted diaries keep
// their files until physical cleanup, which is not this service's job.
// External video URLs are excluded. Feeds the orphan sweeper.
func (r *Repo) ListReferencedMedia(ctx context.Context) ([]string, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listReferencedMediaSQL)
	if err != nil {
		return nil, fmt.Errorf("list referenced media: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var (
			images    []string
			videoRef  pgtype.Text
			videoKind pgtype.Text
		)
		if err := rows.Scan(&images, &videoRef, &videoKind); err != nil {
			return nil, fmt.Errorf("list referenced media: %w", err)
		}
		refs = append(refs, images...)
		if videoRef.Valid && videoKind.Valid && videoKind.String == string(domain.VideoKindFile) {
			refs = append(refs, videoRef.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list referenced media: %w", err)
	}

	return refs, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

// scanDiaryRow scans a single pgx.Row into a domain.Diary.
func scanDiaryRow(row pgx.Row) (*domain.Diary, error) {
	var (
		d            domain.Diary
		videoRef     pgtype.Text
		videoKind    pgtype.Text
		authorAvatar pgtype.Text
		status       string
		rejectReason pgtype.Text
	)

	err := row.Scan(
		&d.ID, &d.Title, &d.Body, &d.Images, &videoRef, &videoKind,
		&d.AuthorID, &d.AuthorNickname, &authorAvatar,
		&status, &rejectReason, &d.IsDeleted, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	applyNullable(&d, videoRef, videoKind, authorAvatar, status, rejectReason)
	return &d, nil
}

// scanDiaries scans multiple rows into domain.Diary slices.
// Returns an empty slice (not nil) when no rows match.
func scanDiaries(rows pgx.Rows) ([]domain.Diary, error) {
	var result []domain.Diary
	for rows.Next() {
		var (
			d            domain.Diary
			videoRef     pgtype.Text
			videoKind    pgtype.Text
			authorAvatar pgtype.Text
			status       string
			rejectReason pgtype.Text
		)

		err := rows.Scan(
			&d.ID, &d.Title, &d.Body, &d.Images, &videoRef, &videoKind,
			&d.AuthorID, &d.AuthorNickname, &authorAvatar,
			&status, &rejectReason, &d.IsDeleted, &d.CreatedAt, &d.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		applyNullable(&d, videoRef, videoKind, authorAvatar, status, rejectReason)
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []domain.Diary{}
	}

	return result, nil
}

// applyNullable folds scanned nullable columns into the domain struct.
func applyNullable(d *domain.Diary, videoRef, videoKind, authorAvatar pgtype.Text, status string, rejectReason pgtype.Text) {
	d.Status = domain.ModerationStatus(status)
	if d.Images == nil {
		d.Images = []string{}
	}
	if videoRef.Valid {
		d.VideoRef = &videoRef.String
	}
	if videoKind.Valid {
		d.VideoKind = domain.VideoKind(videoKind.String)
	}
	if authorAvatar.Valid {
		d.AuthorAvatar = &authorAvatar.String
	}
	if rejectReason.Valid {
		d.RejectReason = &rejectReason.String
	}
}

// ---------------------------------------------------------------------------
// pgtype helpers
// ---------------------------------------------------------------------------

// ptrStringToPgText converts a *string to pgtype.Text (nil -> NULL).
func ptrStringToPgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

// videoKindToPgText maps the kind discriminator to its column value.
// NULL when the diary has no video reference.
func videoKindToPgText(d *domain.Diary) pgtype.Text {
	if !d.HasVideo() {
		return pgtype.Text{}
	}
	return pgtype.Text{String: string(d.VideoKind), Valid: true}
}
