package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingDiary(author uuid.UUID) *Diary {
	return &Diary{
		ID:       uuid.New(),
		Title:    "Trip",
		Body:     "Ten+ characters of text",
		AuthorID: author,
		Status:   StatusPending,
	}
}

func TestDiary_Approve(t *testing.T) {
	t.Run("pending to approved", func(t *testing.T) {
		d := pendingDiary(uuid.New())
		require.NoError(t, d.Approve())
		assert.Equal(t, StatusApproved, d.Status)
		assert.Nil(t, d.RejectReason)
	})

	t.Run("rejected to approved clears reason", func(t *testing.T) {
		d := pendingDiary(uuid.New())
		require.NoError(t, d.Reject("blurry photos"))
		require.NoError(t, d.Approve())
		assert.Equal(t, StatusApproved, d.Status)
		assert.Nil(t, d.RejectReason)
	})

	t.Run("approving twice conflicts and keeps state", func(t *testing.T) {
		d := pendingDiary(uuid.New())
		require.NoError(t, d.Approve())

		err := d.Approve()
		require.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, StatusApproved, d.Status)
		assert.Nil(t, d.RejectReason)
	})
}

func TestDiary_Reject(t *testing.T) {
	t.Run("pending to rejected sets reason", func(t *testing.T) {
		d := pendingDiary(uuid.New())
		require.NoError(t, d.Reject("blurry photos"))
		assert.Equal(t, StatusRejected, d.Status)
		require.NotNil(t, d.RejectReason)
		assert.Equal(t, "blurry photos", *d.RejectReason)
	})

	t.Run("rejecting again replaces reason", func(t *testing.T) {
		d := pendingDiary(uuid.New())
		require.NoError(t, d.Reject("blurry photos"))
		require.NoError(t, d.Reject("still blurry"))
		assert.Equal(t, StatusRejected, d.Status)
		assert.Equal(t, "still blurry", *d.RejectReason)
	})

	t.Run("approved cannot be rejected", func(t *testing.T) {
		d := pendingDiary(uuid.New())
		require.NoError(t, d.Approve())

		err := d.Reject("late objection")
		require.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, StatusApproved, d.Status)
		assert.Nil(t, d.RejectReason)
	})
}

func TestDiary_EditableBy(t *testing.T) {
	owner := uuid.New()

	t.Run("owner can edit pending", func(t *testing.T) {
		d := pendingDiary(owner)
		assert.NoError(t, d.EditableBy(owner))
	})

	t.Run("owner can edit rejected", func(t *testing.T) {
		d := pendingDiary(owner)
		require.NoError(t, d.Reject("blurry photos"))
		assert.NoError(t, d.EditableBy(owner))
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		d := pendingDiary(owner)
		assert.ErrorIs(t, d.EditableBy(uuid.New()), ErrForbidden)
	})

	t.Run("approved is immutable to the owner", func(t *testing.T) {
		d := pendingDiary(owner)
		require.NoError(t, d.Approve())
		assert.ErrorIs(t, d.EditableBy(owner), ErrConflict)
	})
}

func TestDiary_ResetForReview(t *testing.T) {
	d := pendingDiary(uuid.New())
	require.NoError(t, d.Reject("blurry photos"))

	d.ResetForReview()

	assert.Equal(t, StatusPending, d.Status)
	assert.Nil(t, d.RejectReason)
}

func TestDiary_DeletableBy(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name      string
		accountID uuid.UUID
		role      Role
		wantErr   error
	}{
		{"owner", owner, RoleStandard, nil},
		{"admin", uuid.New(), RoleAdmin, nil},
		{"reviewer is not enough", uuid.New(), RoleReviewer, ErrForbidden},
		{"stranger", uuid.New(), RoleStandard, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := pendingDiary(owner)
			err := d.DeletableBy(tt.accountID, tt.role)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDiary_SetAuthor(t *testing.T) {
	avatar := "/uploads/avatars/a.jpg"
	acc := &Account{ID: uuid.New(), Nickname: "wanderer", AvatarURL: &avatar}

	var d Diary
	d.SetAuthor(acc)

	assert.Equal(t, acc.ID, d.AuthorID)
	assert.Equal(t, "wanderer", d.AuthorNickname)
	require.NotNil(t, d.AuthorAvatar)
	assert.Equal(t, avatar, *d.AuthorAvatar)
}
