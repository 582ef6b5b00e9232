package repository

import (
	"context"

	"gorm.io/gorm"
)

// Stores bundles the repositories that participate in one unit of work.
type Stores struct {
	Users       UserRepository
	Posts       PostRepository
	Replies     ReplyRepository
	ReplyImages ReplyImageRepository
	ReplyLikes  ReplyLikeRepository
}

// NewStores builds a store set bound to the given connection or transaction.
func NewStores(db *gorm.DB) Stores {
	return Stores{
		Users:       NewUserRepository(db),
		Posts:       NewPostRepository(db),
		Replies:     NewReplyRepository(db),
		ReplyImages: NewReplyImageRepository(db),
		ReplyLikes:  NewReplyLikeRepository(db),
	}
}

// TxRunner executes a function against a transactional store set. Every
// mutation inside fn commits together or not at all: any returned error
// rolls the whole transaction back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(Stores) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

// NewTxRunner returns a TxRunner backed by GORM transactions.
func NewTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(Stores) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStores(tx))
	})
}
