package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_IsActive(t *testing.T) {
	tests := []struct {
		status UserStatus
		active bool
	}{
		{UserActive, true},
		{UserDeleted, false},
		{UserDormant, false},
		{UserSuspended, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			u := &User{Status: tt.status}
			assert.Equal(t, tt.active, u.IsActive())
		})
	}
}

func TestDefaultExpPolicy(t *testing.T) {
	p := DefaultExpPolicy()

	assert.Equal(t, 3, p.Delta(ExpCreateReply))
	assert.Equal(t, -3, p.Delta(ExpDeleteReply))

	// a toggled like must net to zero for both parties
	assert.Equal(t, 0, p.Delta(ExpReplyLike)+p.Delta(ExpReplyCancelLike))
	assert.Equal(t, 0, p.Delta(ExpReplyBeLiked)+p.Delta(ExpReplyNotBeLiked))

	// create/delete are inverses as well
	assert.Equal(t, 0, p.Delta(ExpCreateReply)+p.Delta(ExpDeleteReply))
}

func TestExpPolicy_Delta_UnsetEventIsZero(t *testing.T) {
	p := ExpPolicy{ExpCreateReply: 5}
	assert.Equal(t, 5, p.Delta(ExpCreateReply))
	assert.Equal(t, 0, p.Delta(ExpDeleteReply))
}
