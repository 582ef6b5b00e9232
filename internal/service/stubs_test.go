package service

import (
	"context"
	"testing"

	"devin/internal/models"
	"devin/internal/repository"

	"github.com/stretchr/testify/assert"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	adjustExpFn     func(context.Context, uint, int) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) AdjustExp(ctx context.Context, id uint, delta int) error {
	return s.adjustExpFn(ctx, id, delta)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "user", Status: models.UserActive}, nil
		},
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		adjustExpFn:     func(_ context.Context, _ uint, _ int) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
	listFn    func(context.Context, int, int) ([]*models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 100}, nil
		},
		listFn: func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
	}
}

// replyRepoStub is a stub for repository.ReplyRepository.
type replyRepoStub struct {
	createFn         func(context.Context, *models.Reply) error
	getByIDFn        func(context.Context, uint) (*models.Reply, error)
	updateFn         func(context.Context, *models.Reply) error
	deleteFn         func(context.Context, uint) error
	findPageByPostFn func(context.Context, uint, int, int) ([]*models.Reply, int64, error)
	updateStatusFn   func(context.Context, uint, models.ReplyStatus) error
	clearSelectedFn  func(context.Context, uint) error
}

func (s *replyRepoStub) Create(ctx context.Context, reply *models.Reply) error {
	return s.createFn(ctx, reply)
}
func (s *replyRepoStub) GetByID(ctx context.Context, id uint) (*models.Reply, error) {
	return s.getByIDFn(ctx, id)
}
func (s *replyRepoStub) Update(ctx context.Context, reply *models.Reply) error {
	return s.updateFn(ctx, reply)
}
func (s *replyRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *replyRepoStub) FindPageByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Reply, int64, error) {
	return s.findPageByPostFn(ctx, postID, limit, offset)
}
func (s *replyRepoStub) UpdateStatus(ctx context.Context, id uint, status models.ReplyStatus) error {
	return s.updateStatusFn(ctx, id, status)
}
func (s *replyRepoStub) ClearSelected(ctx context.Context, postID uint) error {
	return s.clearSelectedFn(ctx, postID)
}

func noopReplyRepo() *replyRepoStub {
	return &replyRepoStub{
		createFn: func(_ context.Context, r *models.Reply) error {
			r.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Reply, error) {
			return &models.Reply{ID: id, PostID: 1, UserID: 1, Content: "answer"}, nil
		},
		updateFn: func(_ context.Context, _ *models.Reply) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		findPageByPostFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Reply, int64, error) {
			return nil, 0, nil
		},
		updateStatusFn:  func(_ context.Context, _ uint, _ models.ReplyStatus) error { return nil },
		clearSelectedFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// replyImageRepoStub is a stub for repository.ReplyImageRepository.
type replyImageRepoStub struct {
	findByReplyFn   func(context.Context, uint) ([]models.ReplyImage, error)
	saveAllFn       func(context.Context, []models.ReplyImage) error
	deleteByReplyFn func(context.Context, uint) error
}

func (s *replyImageRepoStub) FindByReply(ctx context.Context, replyID uint) ([]models.ReplyImage, error) {
	return s.findByReplyFn(ctx, replyID)
}
func (s *replyImageRepoStub) SaveAll(ctx context.Context, images []models.ReplyImage) error {
	return s.saveAllFn(ctx, images)
}
func (s *replyImageRepoStub) DeleteByReply(ctx context.Context, replyID uint) error {
	return s.deleteByReplyFn(ctx, replyID)
}

func noopReplyImageRepo() *replyImageRepoStub {
	return &replyImageRepoStub{
		findByReplyFn:   func(_ context.Context, _ uint) ([]models.ReplyImage, error) { return nil, nil },
		saveAllFn:       func(_ context.Context, _ []models.ReplyImage) error { return nil },
		deleteByReplyFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// replyLikeRepoStub is a stub for repository.ReplyLikeRepository.
type replyLikeRepoStub struct {
	findByReplyAndUserFn func(context.Context, uint, uint) (*models.ReplyLike, error)
	createFn             func(context.Context, *models.ReplyLike) error
	deleteFn             func(context.Context, uint) error
	deleteByReplyFn      func(context.Context, uint) error
}

func (s *replyLikeRepoStub) FindByReplyAndUser(ctx context.Context, replyID, userID uint) (*models.ReplyLike, error) {
	return s.findByReplyAndUserFn(ctx, replyID, userID)
}
func (s *replyLikeRepoStub) Create(ctx context.Context, like *models.ReplyLike) error {
	return s.createFn(ctx, like)
}
func (s *replyLikeRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *replyLikeRepoStub) DeleteByReply(ctx context.Context, replyID uint) error {
	return s.deleteByReplyFn(ctx, replyID)
}

func noopReplyLikeRepo() *replyLikeRepoStub {
	return &replyLikeRepoStub{
		findByReplyAndUserFn: func(_ context.Context, _, _ uint) (*models.ReplyLike, error) { return nil, nil },
		createFn: func(_ context.Context, l *models.ReplyLike) error {
			l.ID = 1
			return nil
		},
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		deleteByReplyFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// txRunnerStub executes the unit of work directly against stub stores.
type txRunnerStub struct {
	stores repository.Stores
}

func (s *txRunnerStub) InTx(_ context.Context, fn func(repository.Stores) error) error {
	return fn(s.stores)
}

// stubStores bundles fresh noop stubs for one test.
type stubStores struct {
	users  *userRepoStub
	posts  *postRepoStub
	reply  *replyRepoStub
	images *replyImageRepoStub
	likes  *replyLikeRepoStub
}

func newStubStores() stubStores {
	return stubStores{
		users:  noopUserRepo(),
		posts:  noopPostRepo(),
		reply:  noopReplyRepo(),
		images: noopReplyImageRepo(),
		likes:  noopReplyLikeRepo(),
	}
}

func (st stubStores) runner() *txRunnerStub {
	return &txRunnerStub{stores: repository.Stores{
		Users:       st.users,
		Posts:       st.posts,
		Replies:     st.reply,
		ReplyImages: st.images,
		ReplyLikes:  st.likes,
	}}
}

// expRecorder captures experience adjustments keyed by user.
type expRecorder struct {
	deltas map[uint][]int
}

func recordExp(st stubStores) *expRecorder {
	rec := &expRecorder{deltas: map[uint][]int{}}
	st.users.adjustExpFn = func(_ context.Context, id uint, delta int) error {
		rec.deltas[id] = append(rec.deltas[id], delta)
		return nil
	}
	return rec
}

func (r *expRecorder) total(userID uint) int {
	sum := 0
	for _, d := range r.deltas[userID] {
		sum += d
	}
	return sum
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	assert.Error(t, err)
	assert.Equal(t, code, models.ErrorCode(err))
}
