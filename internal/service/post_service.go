package service

import (
	"context"

	"devin/internal/models"
	"devin/internal/observability"
	"devin/internal/repository"
)

// PostService handles post creation and answer selection.
type PostService struct {
	tx repository.TxRunner
}

// NewPostService creates a post service.
func NewPostService(tx repository.TxRunner) *PostService {
	return &PostService{tx: tx}
}

// CreatePostInput carries the parameters for CreatePost.
type CreatePostInput struct {
	UserID  uint
	Title   string
	Content string
}

// CreatePost persists a new post authored by the given user.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Title == "" || in.Content == "" {
		return nil, models.NewValidationError("Title and content are required")
	}

	var post *models.Post
	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		user, err := requireActiveUser(ctx, st.Users, in.UserID)
		if err != nil {
			return err
		}
		post = &models.Post{
			Title:   in.Title,
			Content: in.Content,
			UserID:  user.ID,
		}
		return st.Posts.Create(ctx, post)
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// SelectReply marks a reply as the accepted answer of its post. Only the
// post's author may select, the reply must belong to the post, and any
// previously selected reply is demoted so a post never carries two
// accepted answers.
func (s *PostService) SelectReply(ctx context.Context, userID, postID, replyID uint) error {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "SelectReply")
	defer span.End()

	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		user, err := requireActiveUser(ctx, st.Users, userID)
		if err != nil {
			return err
		}
		post, err := st.Posts.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		if post.UserID != user.ID {
			return models.NewPermissionDeniedError("Only the post author can select an answer")
		}
		reply, err := st.Replies.GetByID(ctx, replyID)
		if err != nil {
			return err
		}
		if reply.PostID != post.ID {
			return models.NewValidationError("Reply does not belong to this post")
		}
		if reply.IsSelected() {
			return nil
		}

		if err := st.Replies.ClearSelected(ctx, post.ID); err != nil {
			return err
		}
		return st.Replies.UpdateStatus(ctx, reply.ID, models.ReplySelected)
	})
	if err != nil {
		observability.RecordErrorInContext(ctx, err)
	}
	return err
}
