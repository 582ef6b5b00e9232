package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a question authored by exactly one user and the target of replies.
// UserID is set at creation and never reassigned.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"not null" json:"title"`
	Content string `gorm:"not null" json:"content"`
	UserID  uint   `gorm:"not null" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`
	// RepliesCount is not persisted; computed at query time
	RepliesCount int            `gorm:"-" json:"replies_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
