package diary

import (
	"github.com/Masterminds/squirrel"

	"github.com/wanderlog/traveldiary-backend/internal/domain"
)

// approvedWhere builds the WHERE clause for the public feed.
func approvedWhere(f domain.DiaryFilter) squirrel.And {
	where := squirrel.And{
		squirrel.Eq{"status": string(domain.StatusApproved)},
		squirrel.Eq{"is_deleted": false},
	}
	if f.Title != nil && *f.Title != "" {
		where = append(where, squirrel.ILike{"title": "%" + *f.Title + "%"})
	}
	if f.AuthorNickname != nil && *f.AuthorNickname != "" {
		where = append(where, squirrel.ILike{"author_nickname": "%" + *f.AuthorNickname + "%"})
	}
	return where
}

// reviewWhere builds the WHERE clause for the moderation queue.
func reviewWhere(f domain.DiaryFilter) squirrel.And {
	where := squirrel.And{
		squirrel.Eq{"is_deleted": false},
	}
	if f.Status != nil {
		where = append(where, squirrel.Eq{"status": string(*f.Status)})
	}
	return where
}
