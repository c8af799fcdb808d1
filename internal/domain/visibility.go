package domain

import "github.com/google/uuid"

// Identity is the authenticated caller, or the zero value for
// anonymous reads.
type Identity struct {
	AccountID uuid.UUID
	Role      Role
}

// IsAnonymous reports whether no authenticated account is attached.
func (i Identity) IsAnonymous() bool {
	return i.AccountID == uuid.Nil
}

// CanView decides whether the viewer may read the diary. Approved
// diaries are public; anything else is visible only to the owner and
// to moderators. Deleted diaries are visible to nobody here — callers
// must surface hidden diaries as not found, never as forbidden, so
// that existence does not leak.
func CanView(d *Diary, viewer Identity) bool {
	if d == nil || d.IsDeleted {
		return false
	}
	if d.Status == StatusApproved {
		return true
	}
	if viewer.IsAnonymous() {
		return false
	}
	return d.AuthorID == viewer.AccountID || viewer.Role.CanModerate()
}
