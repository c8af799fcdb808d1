package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModerationStatus_IsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusApproved.IsValid())
	assert.True(t, StatusRejected.IsValid())
	assert.False(t, ModerationStatus("archived").IsValid())
	assert.False(t, ModerationStatus("").IsValid())
}

func TestRole_CanModerate(t *testing.T) {
	assert.False(t, RoleStandard.CanModerate())
	assert.True(t, RoleReviewer.CanModerate())
	assert.True(t, RoleAdmin.CanModerate())
	assert.False(t, Role("").CanModerate())
}

func TestVideoKind_IsValid(t *testing.T) {
	assert.True(t, VideoKindFile.IsValid())
	assert.True(t, VideoKindURL.IsValid())
	assert.False(t, VideoKind("stream").IsValid())
}
