package repository

import (
	"context"

	"devin/internal/models"

	"gorm.io/gorm"
)

// ReplyImageRepository defines storage operations for reply images.
// Images have no soft delete: replacement on edit and cascade on reply
// deletion are hard batch deletes.
type ReplyImageRepository interface {
	FindByReply(ctx context.Context, replyID uint) ([]models.ReplyImage, error)
	SaveAll(ctx context.Context, images []models.ReplyImage) error
	DeleteByReply(ctx context.Context, replyID uint) error
}

type replyImageRepository struct {
	db *gorm.DB
}

// NewReplyImageRepository creates a new reply image repository.
func NewReplyImageRepository(db *gorm.DB) ReplyImageRepository {
	return &replyImageRepository{db: db}
}

func (r *replyImageRepository) FindByReply(ctx context.Context, replyID uint) ([]models.ReplyImage, error) {
	var images []models.ReplyImage
	err := r.db.WithContext(ctx).
		Where("reply_id = ?", replyID).
		Order("position ASC").
		Find(&images).Error
	return images, err
}

func (r *replyImageRepository) SaveAll(ctx context.Context, images []models.ReplyImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&images).Error
}

func (r *replyImageRepository) DeleteByReply(ctx context.Context, replyID uint) error {
	return r.db.WithContext(ctx).
		Where("reply_id = ?", replyID).
		Delete(&models.ReplyImage{}).Error
}
