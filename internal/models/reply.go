package models

import (
	"time"

	"gorm.io/gorm"
)

// ReplyState is the visibility state stamped at creation.
type ReplyState string

// ReplyStatus distinguishes a normal reply from the accepted answer.
type ReplyStatus string

const (
	// ReplyViewable is the initial state of every reply.
	ReplyViewable ReplyState = "VIEWABLE"

	// ReplyNormal is the default status.
	ReplyNormal ReplyStatus = "NORMAL"
	// ReplySelected marks the accepted answer; selected replies cannot be
	// deleted.
	ReplySelected ReplyStatus = "SELECTED"
)

// Reply is an answer to a post. PostID and UserID are set once by NewReply
// and have no mutators; content, images and state may change afterwards.
type Reply struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PostID    uint           `gorm:"not null" json:"post_id"`
	UserID    uint           `gorm:"not null" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	Content   string         `gorm:"not null" json:"content"`
	State     ReplyState     `gorm:"not null" json:"state"`
	Status    ReplyStatus    `gorm:"not null;default:NORMAL" json:"status"`
	Images    []ReplyImage   `gorm:"foreignKey:ReplyID" json:"images"`
	Likes     []ReplyLike    `gorm:"foreignKey:ReplyID" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// NewReply builds a reply owned by (post, user) in state VIEWABLE with the
// given images attached. This is the only way to bind a reply to its post
// and author.
func NewReply(postID, userID uint, content string, images []ReplyImage) *Reply {
	return &Reply{
		PostID:  postID,
		UserID:  userID,
		Content: content,
		State:   ReplyViewable,
		Status:  ReplyNormal,
		Images:  images,
	}
}

// SetContent replaces the reply text.
func (r *Reply) SetContent(content string) {
	r.Content = content
}

// IsSelected reports whether the reply is the accepted answer.
func (r *Reply) IsSelected() bool {
	return r.Status == ReplySelected
}

// ReplyImage is owned exclusively by one reply and holds an image path.
// Images are created as a batch and hard-deleted when replaced, so there is
// no soft-delete column.
type ReplyImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReplyID   uint      `gorm:"not null;index" json:"reply_id"`
	Path      string    `gorm:"not null" json:"path"`
	Position  int       `gorm:"not null" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// NewReplyImages builds one image record per path, preserving order.
func NewReplyImages(paths []string) []ReplyImage {
	images := make([]ReplyImage, 0, len(paths))
	for i, p := range paths {
		images = append(images, ReplyImage{Path: p, Position: i})
	}
	return images
}

// ReplyLike links one user to one reply. Row existence means "this user
// likes this reply"; the composite unique index makes a duplicate insert
// fail instead of silently double-counting under concurrent toggles.
type ReplyLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReplyID   uint      `gorm:"not null;uniqueIndex:idx_reply_user" json:"reply_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reply_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
