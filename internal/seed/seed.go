package seed

import (
	"fmt"
	"log"

	"devin/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// SkipBcrypt stores a plaintext password instead of hashing, for fast
	// local seeding. Never enable outside development.
	SkipBcrypt bool
	// MaxDays controls how far back generated created_at timestamps spread.
	MaxDays int
}

// Seeder populates the database with realistic forum data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db, opts),
		opts:    opts,
	}
}

// ClearAll truncates every seeded table.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE reply_likes, reply_images, replies, posts, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// Run seeds users, posts, replies and likes according to the options.
func (s *Seeder) Run() error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", s.opts.NumUsers, s.opts.NumPosts)

	if s.opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	users, err := s.seedUsers()
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	posts, err := s.seedPosts(users)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	replies, err := s.seedReplies(users, posts)
	if err != nil {
		return fmt.Errorf("failed to create replies: %w", err)
	}
	log.Printf("✓ %d replies created", len(replies))

	likes, err := s.seedLikes(users, replies)
	if err != nil {
		return fmt.Errorf("failed to create likes: %w", err)
	}
	log.Printf("✓ %d reply likes created", likes)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func (s *Seeder) seedUsers() ([]*models.User, error) {
	users := make([]*models.User, 0, s.opts.NumUsers)

	// Always include a known account for manual testing
	if s.opts.NumUsers >= 1 {
		user, err := s.factory.CreateUser(func(u *models.User) {
			u.Username = "devin"
			u.Email = "devin@example.com"
		})
		if err == nil {
			users = append(users, user)
		}
	}

	for i := len(users); i < s.opts.NumUsers; i++ {
		user, err := s.factory.CreateUser(func(u *models.User) {
			// a handful of non-active accounts to exercise status gating
			switch i % 20 {
			case 17:
				u.Status = models.UserDormant
			case 18:
				u.Status = models.UserSuspended
			case 19:
				u.Status = models.UserDeleted
			}
		})
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}
	return users, nil
}

func (s *Seeder) seedPosts(users []*models.User) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, s.opts.NumPosts)
	for i := 0; i < s.opts.NumPosts; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		post, err := s.factory.CreatePost(author)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d posts...", i)
		}
	}
	return posts, nil
}

func (s *Seeder) seedReplies(users []*models.User, posts []*models.Post) ([]*models.Reply, error) {
	replies := make([]*models.Reply, 0, len(posts)*3)
	for _, post := range posts {
		count := s.factory.rng.Intn(6) // 0 to 5 replies per post
		for i := 0; i < count; i++ {
			author := users[s.factory.rng.Intn(len(users))]
			reply, err := s.factory.CreateReply(author, post)
			if err != nil {
				return nil, err
			}
			replies = append(replies, reply)
		}

		// occasionally mark one reply as the accepted answer
		if count > 0 && s.factory.rng.Float32() < 0.3 {
			selected := replies[len(replies)-1]
			if err := s.db.Model(&models.Reply{}).Where("id = ?", selected.ID).
				Update("status", models.ReplySelected).Error; err != nil {
				return nil, err
			}
		}
	}
	return replies, nil
}

func (s *Seeder) seedLikes(users []*models.User, replies []*models.Reply) (int, error) {
	total := 0
	for _, reply := range replies {
		count := s.factory.rng.Intn(4) // 0 to 3 likes per reply
		seen := map[uint]bool{}
		for i := 0; i < count; i++ {
			liker := users[s.factory.rng.Intn(len(users))]
			if seen[liker.ID] {
				continue
			}
			seen[liker.ID] = true
			if err := s.factory.CreateReplyLike(liker, reply); err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}
