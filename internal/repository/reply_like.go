package repository

import (
	"context"

	"devin/internal/models"

	"gorm.io/gorm"
)

// ReplyLikeRepository defines storage operations for reply likes.
type ReplyLikeRepository interface {
	// FindByReplyAndUser returns (nil, nil) when no like exists.
	FindByReplyAndUser(ctx context.Context, replyID, userID uint) (*models.ReplyLike, error)
	Create(ctx context.Context, like *models.ReplyLike) error
	Delete(ctx context.Context, id uint) error
	DeleteByReply(ctx context.Context, replyID uint) error
}

type replyLikeRepository struct {
	db *gorm.DB
}

// NewReplyLikeRepository creates a new reply like repository.
func NewReplyLikeRepository(db *gorm.DB) ReplyLikeRepository {
	return &replyLikeRepository{db: db}
}

func (r *replyLikeRepository) FindByReplyAndUser(ctx context.Context, replyID, userID uint) (*models.ReplyLike, error) {
	var like models.ReplyLike
	err := r.db.WithContext(ctx).
		Where("reply_id = ? AND user_id = ?", replyID, userID).
		First(&like).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &like, nil
}

func (r *replyLikeRepository) Create(ctx context.Context, like *models.ReplyLike) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *replyLikeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ReplyLike{}, id).Error
}

func (r *replyLikeRepository) DeleteByReply(ctx context.Context, replyID uint) error {
	return r.db.WithContext(ctx).
		Where("reply_id = ?", replyID).
		Delete(&models.ReplyLike{}).Error
}
