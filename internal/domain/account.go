package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is a registered user. Accounts are managed by the identity
// service; this core only reads them to resolve author snapshots and
// roles.
type Account struct {
	ID        uuid.UUID
	Nickname  string
	AvatarURL *string
	Role      Role
	CreatedAt time.Time
}
