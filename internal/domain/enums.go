package domain

// ModerationStatus is the review state of a diary. Values match the
// database enum.
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
)

func (s ModerationStatus) String() string { return string(s) }

func (s ModerationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Role is the privilege level of an account.
type Role string

const (
	RoleStandard Role = "standard"
	RoleReviewer Role = "reviewer"
	RoleAdmin    Role = "admin"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleStandard, RoleReviewer, RoleAdmin:
		return true
	}
	return false
}

// CanModerate reports whether the role may approve or reject diaries.
func (r Role) CanModerate() bool {
	return r == RoleReviewer || r == RoleAdmin
}

// VideoKind distinguishes a relocated upload from a caller-supplied URL.
type VideoKind string

const (
	VideoKindFile VideoKind = "file"
	VideoKindURL  VideoKind = "url"
)

func (k VideoKind) String() string { return string(k) }

func (k VideoKind) IsValid() bool {
	switch k {
	case VideoKindFile, VideoKindURL:
		return true
	}
	return false
}
