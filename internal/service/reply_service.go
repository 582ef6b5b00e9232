// Package service contains the business logic for reply lifecycle and
// post operations.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"devin/internal/cache"
	"devin/internal/models"
	"devin/internal/observability"
	"devin/internal/repository"

	"gorm.io/gorm"
)

const replyPageCacheTTL = 30 * time.Second

// ReplyService governs creation, editing, deletion, and like-toggling of
// replies, and the experience-point adjustments that accompany each
// transition. Every mutating operation runs in a single transaction.
type ReplyService struct {
	tx  repository.TxRunner
	exp models.ExpPolicy
}

// NewReplyService creates a reply service. A nil policy falls back to the
// default experience deltas.
func NewReplyService(tx repository.TxRunner, exp models.ExpPolicy) *ReplyService {
	if exp == nil {
		exp = models.DefaultExpPolicy()
	}
	return &ReplyService{tx: tx, exp: exp}
}

// CreateReplyInput carries the parameters for Create.
type CreateReplyInput struct {
	UserID     uint
	PostID     uint
	Content    string
	ImagePaths []string
}

// EditReplyInput carries the parameters for Edit.
type EditReplyInput struct {
	UserID     uint
	ReplyID    uint
	Content    string
	ImagePaths []string
}

// ReplySummary is the read-model for one reply in a page.
type ReplySummary struct {
	ID        uint      `json:"id"`
	Author    string    `json:"author"`
	AuthorID  uint      `json:"author_id"`
	Content   string    `json:"content"`
	Images    []string  `json:"images"`
	LikeCount int       `json:"like_count"`
	State     string    `json:"state"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReplyPage is one page of reply summaries with total-count metadata.
type ReplyPage struct {
	Items  []ReplySummary `json:"items"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// requireActiveUser loads the user and rejects accounts that are not ACTIVE.
func requireActiveUser(ctx context.Context, users repository.UserRepository, userID uint) (*models.User, error) {
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, models.NewPermissionDeniedError("Account is not active")
	}
	return user, nil
}

// adjustExp applies one experience event to a user and records the metric.
func (s *ReplyService) adjustExp(ctx context.Context, users repository.UserRepository, userID uint, event models.ExpEvent) error {
	if err := users.AdjustExp(ctx, userID, s.exp.Delta(event)); err != nil {
		return err
	}
	observability.ExpAdjustments.WithLabelValues(string(event)).Inc()
	return nil
}

// Create builds a reply in state VIEWABLE owned by (post, user) with the
// given images attached, in one transaction. The author earns the
// create-reply delta only when replying to someone else's post.
func (s *ReplyService) Create(ctx context.Context, in CreateReplyInput) (uint, error) {
	ctx, span := observability.StartServiceSpan(ctx, "ReplyService", "Create")
	defer span.End()

	if in.Content == "" {
		return 0, models.NewValidationError("Content is required")
	}

	var replyID uint
	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		user, err := requireActiveUser(ctx, st.Users, in.UserID)
		if err != nil {
			return err
		}
		post, err := st.Posts.GetByID(ctx, in.PostID)
		if err != nil {
			return err
		}

		images := models.NewReplyImages(in.ImagePaths)
		reply := models.NewReply(post.ID, user.ID, in.Content, images)

		if post.UserID != user.ID {
			if err := s.adjustExp(ctx, st.Users, user.ID, models.ExpCreateReply); err != nil {
				return err
			}
		}

		if err := st.Replies.Create(ctx, reply); err != nil {
			return err
		}
		for i := range images {
			images[i].ReplyID = reply.ID
		}
		if err := st.ReplyImages.SaveAll(ctx, images); err != nil {
			return err
		}

		replyID = reply.ID
		return nil
	})
	if err != nil {
		observability.RecordErrorInContext(ctx, err)
		return 0, err
	}

	observability.RepliesCreated.Inc()
	s.invalidatePages(ctx, in.PostID)
	return replyID, nil
}

// Edit replaces a reply's content and its whole image set. Old images are
// hard-deleted in batch before the new ones are persisted. Only the reply's
// author may edit it. No experience change on edit.
func (s *ReplyService) Edit(ctx context.Context, in EditReplyInput) (uint, error) {
	ctx, span := observability.StartServiceSpan(ctx, "ReplyService", "Edit")
	defer span.End()

	if in.Content == "" {
		return 0, models.NewValidationError("Content is required")
	}

	var postID uint
	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		user, err := requireActiveUser(ctx, st.Users, in.UserID)
		if err != nil {
			return err
		}
		reply, err := st.Replies.GetByID(ctx, in.ReplyID)
		if err != nil {
			return err
		}
		if reply.UserID != user.ID {
			return models.NewPermissionDeniedError("You can only edit your own replies")
		}

		if err := st.ReplyImages.DeleteByReply(ctx, reply.ID); err != nil {
			return err
		}

		newImages := models.NewReplyImages(in.ImagePaths)
		for i := range newImages {
			newImages[i].ReplyID = reply.ID
		}
		reply.SetContent(in.Content)

		if err := st.Replies.Update(ctx, reply); err != nil {
			return err
		}
		if err := st.ReplyImages.SaveAll(ctx, newImages); err != nil {
			return err
		}

		postID = reply.PostID
		return nil
	})
	if err != nil {
		observability.RecordErrorInContext(ctx, err)
		return 0, err
	}

	s.invalidatePages(ctx, postID)
	return in.ReplyID, nil
}

// ToggleLike flips the (user, reply) like. Liking and unliking apply
// matching inverse experience deltas to both the liker and the reply's
// author, except when they are the same person. Returns the like's id; for
// the unlike branch this is the id of the record just removed.
func (s *ReplyService) ToggleLike(ctx context.Context, userID, replyID uint) (uint, error) {
	ctx, span := observability.StartServiceSpan(ctx, "ReplyService", "ToggleLike")
	defer span.End()

	var likeID uint
	var postID uint
	var action string
	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		user, err := requireActiveUser(ctx, st.Users, userID)
		if err != nil {
			return err
		}
		reply, err := st.Replies.GetByID(ctx, replyID)
		if err != nil {
			return err
		}
		postID = reply.PostID

		like, err := st.ReplyLikes.FindByReplyAndUser(ctx, reply.ID, user.ID)
		if err != nil {
			return err
		}

		if like != nil {
			if err := st.ReplyLikes.Delete(ctx, like.ID); err != nil {
				return err
			}
			if user.ID != reply.UserID {
				if err := s.adjustExp(ctx, st.Users, user.ID, models.ExpReplyCancelLike); err != nil {
					return err
				}
				if err := s.adjustExp(ctx, st.Users, reply.UserID, models.ExpReplyNotBeLiked); err != nil {
					return err
				}
			}
			likeID = like.ID
			action = "unliked"
			return nil
		}

		like = &models.ReplyLike{ReplyID: reply.ID, UserID: user.ID}
		if err := st.ReplyLikes.Create(ctx, like); err != nil {
			// The composite unique index catches a concurrent duplicate
			// submission; surface it as a conflict instead of a 500.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.NewConflictError("Reply is already liked")
			}
			return err
		}
		if user.ID != reply.UserID {
			if err := s.adjustExp(ctx, st.Users, user.ID, models.ExpReplyLike); err != nil {
				return err
			}
			if err := s.adjustExp(ctx, st.Users, reply.UserID, models.ExpReplyBeLiked); err != nil {
				return err
			}
		}
		likeID = like.ID
		action = "liked"
		return nil
	})
	if err != nil {
		observability.RecordErrorInContext(ctx, err)
		return 0, err
	}

	observability.LikesToggled.WithLabelValues(action).Inc()
	s.invalidatePages(ctx, postID)
	return likeID, nil
}

// Delete removes a reply with its images and likes. Only the author may
// delete, and a SELECTED reply cannot be deleted.
func (s *ReplyService) Delete(ctx context.Context, userID, replyID uint) error {
	ctx, span := observability.StartServiceSpan(ctx, "ReplyService", "Delete")
	defer span.End()

	var postID uint
	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		user, err := requireActiveUser(ctx, st.Users, userID)
		if err != nil {
			return err
		}
		reply, err := st.Replies.GetByID(ctx, replyID)
		if err != nil {
			return err
		}
		if reply.UserID != user.ID {
			return models.NewPermissionDeniedError("You can only delete your own replies")
		}
		if reply.IsSelected() {
			return models.NewInvalidStateError("A selected reply cannot be deleted")
		}

		if err := s.adjustExp(ctx, st.Users, user.ID, models.ExpDeleteReply); err != nil {
			return err
		}
		if err := st.ReplyImages.DeleteByReply(ctx, reply.ID); err != nil {
			return err
		}
		if err := st.ReplyLikes.DeleteByReply(ctx, reply.ID); err != nil {
			return err
		}
		if err := st.Replies.Delete(ctx, reply.ID); err != nil {
			return err
		}

		postID = reply.PostID
		return nil
	})
	if err != nil {
		observability.RecordErrorInContext(ctx, err)
		return err
	}

	observability.RepliesDeleted.Inc()
	s.invalidatePages(ctx, postID)
	return nil
}

// ListByPost returns one page of reply summaries for a post with
// total-count metadata. Read-only; pages are served cache-aside with a
// short TTL and invalidated on every lifecycle mutation.
func (s *ReplyService) ListByPost(ctx context.Context, postID uint, limit, offset int) (*ReplyPage, error) {
	ctx, span := observability.StartServiceSpan(ctx, "ReplyService", "ListByPost")
	defer span.End()

	var page ReplyPage
	key := replyPageKey(postID, limit, offset)
	hit, err := cache.CacheAside(ctx, key, &page, replyPageCacheTTL, func() error {
		return s.tx.InTx(ctx, func(st repository.Stores) error {
			if _, err := st.Posts.GetByID(ctx, postID); err != nil {
				return err
			}
			replies, total, err := st.Replies.FindPageByPost(ctx, postID, limit, offset)
			if err != nil {
				return err
			}
			page = ReplyPage{
				Items:  make([]ReplySummary, 0, len(replies)),
				Total:  total,
				Limit:  limit,
				Offset: offset,
			}
			for _, r := range replies {
				page.Items = append(page.Items, toReplySummary(r))
			}
			return nil
		})
	})
	if err != nil {
		observability.RecordErrorInContext(ctx, err)
		return nil, err
	}

	if hit {
		observability.ReplyPageCache.WithLabelValues("hit").Inc()
	} else {
		observability.ReplyPageCache.WithLabelValues("miss").Inc()
	}
	return &page, nil
}

func toReplySummary(r *models.Reply) ReplySummary {
	images := make([]string, 0, len(r.Images))
	for _, img := range r.Images {
		images = append(images, img.Path)
	}
	return ReplySummary{
		ID:        r.ID,
		Author:    r.User.Username,
		AuthorID:  r.UserID,
		Content:   r.Content,
		Images:    images,
		LikeCount: len(r.Likes),
		State:     string(r.State),
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func replyPageKey(postID uint, limit, offset int) string {
	return fmt.Sprintf("replies:post:%d:l%d:o%d", postID, limit, offset)
}

// invalidatePages drops every cached page for the post. Best-effort: a
// failed invalidation only shortens to the TTL.
func (s *ReplyService) invalidatePages(ctx context.Context, postID uint) {
	_ = cache.DeleteByPrefix(ctx, fmt.Sprintf("replies:post:%d:", postID))
}
