// Package seed provides database seeding for development environments.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"quill/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Every seeded account shares this password so developers can log in as
// anyone.
const devPassword = "seeded-password"

// Options configures the seeder.
type Options struct {
	NumUsers          int
	NumPosts          int
	MaxFollowsPerUser int
	ShouldClean       bool
}

// DefaultOptions is a small but connected data set.
func DefaultOptions() Options {
	return Options{
		NumUsers:          25,
		NumPosts:          100,
		MaxFollowsPerUser: 8,
		ShouldClean:       true,
	}
}

// Seeder populates the database with fake users, posts and follow edges.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder returns a Seeder over the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// ClearAll removes all seedable data. Follows go first, they reference
// both other tables.
func (s *Seeder) ClearAll(ctx context.Context) error {
	for _, model := range []interface{}{&models.Follow{}, &models.Post{}, &models.User{}} {
		if err := s.db.WithContext(ctx).Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", model, err)
		}
	}
	return nil
}

// Run populates the database per the options.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(ctx); err != nil {
			return err
		}
	}

	users, err := s.seedUsers(ctx, opts.NumUsers)
	if err != nil {
		return err
	}
	if err := s.seedPosts(ctx, users, opts.NumPosts); err != nil {
		return err
	}
	if err := s.seedFollows(ctx, users, opts.MaxFollowsPerUser); err != nil {
		return err
	}

	slog.Info("seeding complete", "users", len(users), "posts", opts.NumPosts)
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context, n int) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(devPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hashing seed password: %w", err)
	}

	users := make([]*models.User, 0, n)
	taken := make(map[string]bool, n)
	for len(users) < n {
		username := strings.ToLower(gofakeit.Username())
		if taken[username] || !isSeedableUsername(username) {
			continue
		}
		taken[username] = true

		user := &models.User{
			Username: username,
			Email:    username + "@" + gofakeit.DomainName(),
			Password: string(hash),
		}
		if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
			return nil, fmt.Errorf("creating user %s: %w", username, err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedPosts(ctx context.Context, users []*models.User, n int) error {
	if len(users) == 0 {
		return nil
	}

	now := time.Now()
	for i := 0; i < n; i++ {
		author := users[rand.Intn(len(users))]
		post := &models.Post{
			Title:  strings.TrimSuffix(gofakeit.Sentence(rand.Intn(5)+3), "."),
			Body:   gofakeit.Paragraph(1, rand.Intn(4)+2, 12, " "),
			UserID: author.ID,
			// Spread creation dates over the last 90 days so feeds and
			// profile pages have a meaningful order.
			CreatedAt: now.Add(-time.Duration(rand.Intn(90*24)) * time.Hour),
		}
		if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
			return fmt.Errorf("creating post %d: %w", i, err)
		}
	}
	return nil
}

func (s *Seeder) seedFollows(ctx context.Context, users []*models.User, maxPerUser int) error {
	if len(users) < 2 || maxPerUser <= 0 {
		return nil
	}

	for _, follower := range users {
		count := rand.Intn(maxPerUser + 1)
		seen := map[uint]bool{follower.ID: true}
		for i := 0; i < count; i++ {
			target := users[rand.Intn(len(users))]
			if seen[target.ID] {
				continue
			}
			seen[target.ID] = true

			follow := &models.Follow{FollowedID: target.ID, AuthorID: follower.ID}
			if err := s.db.WithContext(ctx).Create(follow).Error; err != nil {
				return fmt.Errorf("creating follow %d->%d: %w", follower.ID, target.ID, err)
			}
		}
	}
	return nil
}

// isSeedableUsername keeps seeded accounts inside the same format rules
// real registrations pass.
func isSeedableUsername(username string) bool {
	if len(username) < 3 || len(username) > 30 {
		return false
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
