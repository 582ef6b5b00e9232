package repository

import (
	"context"

	"devin/internal/models"
	"devin/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReplyRepository defines the interface for reply data operations.
type ReplyRepository interface {
	// Create inserts the reply row only; images are persisted separately
	// through the ReplyImageRepository so replacement on edit stays a
	// plain batch delete + insert.
	Create(ctx context.Context, reply *models.Reply) error
	GetByID(ctx context.Context, id uint) (*models.Reply, error)
	Update(ctx context.Context, reply *models.Reply) error
	Delete(ctx context.Context, id uint) error
	// FindPageByPost returns one page of a post's replies with author,
	// images, and likes loaded, plus the total reply count for the post.
	FindPageByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Reply, int64, error)
	UpdateStatus(ctx context.Context, id uint, status models.ReplyStatus) error
	// ClearSelected demotes any currently selected reply of the post back
	// to NORMAL.
	ClearSelected(ctx context.Context, postID uint) error
}

type replyRepository struct {
	db *gorm.DB
}

// NewReplyRepository creates a new reply repository.
func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

func (r *replyRepository) Create(ctx context.Context, reply *models.Reply) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(reply).Error
}

func (r *replyRepository) GetByID(ctx context.Context, id uint) (*models.Reply, error) {
	var reply models.Reply
	if err := r.db.WithContext(ctx).First(&reply, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewNotFoundError("Reply", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &reply, nil
}

func (r *replyRepository) Update(ctx context.Context, reply *models.Reply) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(reply).Error
}

func (r *replyRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Reply{}, id).Error
}

func (r *replyRepository) FindPageByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Reply, int64, error) {
	defer observability.TrackQuery("select_page", "replies")()

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Reply{}).
		Where("post_id = ?", postID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var replies []*models.Reply
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Likes").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&replies).Error
	return replies, total, err
}

func (r *replyRepository) UpdateStatus(ctx context.Context, id uint, status models.ReplyStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Reply{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *replyRepository) ClearSelected(ctx context.Context, postID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Reply{}).
		Where("post_id = ? AND status = ?", postID, models.ReplySelected).
		Update("status", models.ReplyNormal).Error
}
