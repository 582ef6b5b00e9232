// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// UserStatus describes the lifecycle state of an account.
type UserStatus string

const (
	// UserActive is the normal state for a usable account.
	UserActive UserStatus = "ACTIVE"
	// UserDeleted marks an account the owner has removed.
	UserDeleted UserStatus = "DELETED"
	// UserDormant marks an account with no recent activity.
	UserDormant UserStatus = "DORMANT"
	// UserSuspended marks an account blocked by moderation.
	UserSuspended UserStatus = "SUSPENDED"
)

// User represents a forum member. Exp is the cumulative experience score
// adjusted by reply interactions.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Status    UserStatus     `gorm:"not null;default:ACTIVE" json:"status"`
	Exp       int            `gorm:"not null;default:0" json:"exp"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsActive reports whether the account may perform mutations.
func (u *User) IsActive() bool {
	return u.Status == UserActive
}

// ExpEvent names an experience-changing interaction.
type ExpEvent string

const (
	// ExpCreateReply fires for the author when a reply is created on
	// someone else's post.
	ExpCreateReply ExpEvent = "create_reply"
	// ExpDeleteReply fires for the author when a reply is deleted.
	ExpDeleteReply ExpEvent = "delete_reply"
	// ExpReplyLike fires for the liker when a like is placed.
	ExpReplyLike ExpEvent = "reply_like"
	// ExpReplyCancelLike fires for the liker when a like is removed.
	ExpReplyCancelLike ExpEvent = "reply_cancel_like"
	// ExpReplyBeLiked fires for the reply author when their reply is liked.
	ExpReplyBeLiked ExpEvent = "reply_be_liked"
	// ExpReplyNotBeLiked fires for the reply author when a like is removed.
	ExpReplyNotBeLiked ExpEvent = "reply_not_be_liked"
)

// ExpPolicy maps experience events to signed score deltas. Magnitudes are a
// deployment concern; the service only decides which event fires for whom.
type ExpPolicy map[ExpEvent]int

// DefaultExpPolicy returns the built-in deltas. Like/cancel and
// be-liked/not-be-liked are inverses so a toggled like nets to zero.
func DefaultExpPolicy() ExpPolicy {
	return ExpPolicy{
		ExpCreateReply:     3,
		ExpDeleteReply:     -3,
		ExpReplyLike:       1,
		ExpReplyCancelLike: -1,
		ExpReplyBeLiked:    2,
		ExpReplyNotBeLiked: -2,
	}
}

// Delta returns the signed score change for the event, zero when unset.
func (p ExpPolicy) Delta(event ExpEvent) int {
	return p[event]
}
