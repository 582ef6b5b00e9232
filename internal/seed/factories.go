// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"devin/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Factory{db: db, opts: opts, rng: rng}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Status:   models.UserActive,
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample `models.Post` for the given user.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:   gofakeit.Sentence(5),
		Content: gofakeit.Paragraph(1, 3, 5, "\n"),
		UserID:  user.ID,
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateReply constructs and persists a sample `models.Reply` on the
// provided post authored by the provided user, optionally with images.
func (f *Factory) CreateReply(user *models.User, post *models.Post, overrides ...func(*models.Reply)) (*models.Reply, error) {
	var images []models.ReplyImage
	// roughly a third of replies carry image attachments
	if f.rng.Float32() < 0.35 {
		paths := make([]string, f.rng.Intn(3)+1)
		for i := range paths {
			paths[i] = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
		}
		images = models.NewReplyImages(paths)
	}

	reply := models.NewReply(post.ID, user.ID, gofakeit.Sentence(8), images)

	for _, override := range overrides {
		override(reply)
	}

	if err := f.db.Create(reply).Error; err != nil {
		return nil, err
	}
	return reply, nil
}

// CreateReplyLike persists a like from `user` on `reply` and applies the
// corresponding experience point deltas.
func (f *Factory) CreateReplyLike(user *models.User, reply *models.Reply) error {
	like := &models.ReplyLike{
		ReplyID: reply.ID,
		UserID:  user.ID,
	}
	if err := f.db.Create(like).Error; err != nil {
		return err
	}

	if user.ID == reply.UserID {
		return nil
	}

	policy := models.DefaultExpPolicy()
	if err := f.db.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("exp", gorm.Expr("exp + ?", policy.Delta(models.ExpReplyLike))).Error; err != nil {
		return err
	}
	return f.db.Model(&models.User{}).Where("id = ?", reply.UserID).
		UpdateColumn("exp", gorm.Expr("exp + ?", policy.Delta(models.ExpReplyBeLiked))).Error
}
