package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxImagesPerDiary bounds the image list of a single diary.
const MaxImagesPerDiary = 10

// Diary is a user-submitted travel diary subject to moderation.
//
// Images holds relative storage paths of the derived (downscaled)
// files, in display order. VideoRef is either a relative storage path
// (VideoKindFile) or an external URL (VideoKindURL), discriminated by
// VideoKind; both are nil/empty when the diary has no video.
//
// AuthorNickname and AuthorAvatar are a denormalized snapshot of the
// author's display fields, captured when authorship is established.
type Diary struct {
	ID        uuid.UUID
	Title     string
	Body      string
	Images    []string
	VideoRef  *string
	VideoKind VideoKind

	AuthorID       uuid.UUID
	AuthorNickname string
	AuthorAvatar   *string

	Status       ModerationStatus
	RejectReason *string
	IsDeleted    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SetAuthor establishes authorship and captures the denormalized
// snapshot. It is the only place the snapshot fields are written.
func (d *Diary) SetAuthor(a *Account) {
	d.AuthorID = a.ID
	d.AuthorNickname = a.Nickname
	d.AuthorAvatar = a.AvatarURL
}

// HasVideo reports whether the diary carries any video reference.
func (d *Diary) HasVideo() bool {
	return d.VideoRef != nil && *d.VideoRef != ""
}
