// Package seed creates demo users and posts for development. It is never
// invoked from the server itself; cmd/seed drives it explicitly.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/Sudip2708/poustovnik-english/internal/auth"
	"github.com/Sudip2708/poustovnik-english/internal/i18n"
	"github.com/Sudip2708/poustovnik-english/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configure the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	Password    string
	ShouldClean bool
}

// DefaultOptions returns a small demo dataset configuration.
func DefaultOptions() Options {
	return Options{
		NumUsers: 5,
		NumPosts: 30,
		Password: "password1",
	}
}

// Run seeds the database with demo users and posts. All users share the same
// known password so any of them can be used to sign in during development.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if opts.ShouldClean {
		if err := db.Exec("DELETE FROM posts").Error; err != nil {
			return fmt.Errorf("failed to clean posts: %w", err)
		}
		if err := db.Exec("DELETE FROM users").Error; err != nil {
			return fmt.Errorf("failed to clean users: %w", err)
		}
	}

	hashed, err := auth.HashPassword(opts.Password)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user := &models.User{
			Username: seedUsername(i),
			Email:    fmt.Sprintf("%s@example.com", seedUsername(i)),
			Password: hashed,
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create seed user %q: %w", user.Username, err)
		}
		users = append(users, user)
	}

	locales := []string{i18n.LocaleCS, i18n.LocaleEN}
	for i := 0; i < opts.NumPosts; i++ {
		author := users[r.Intn(len(users))]
		post := &models.Post{
			Title:    truncate(gofakeit.Sentence(4), 100),
			Content:  gofakeit.Paragraph(1, 3, 8, "\n"),
			Language: locales[r.Intn(len(locales))],
			UserID:   author.ID,
			// Spread creation times over the last 90 days so pagination
			// looks realistic.
			CreatedAt: time.Now().Add(-time.Duration(r.Intn(90*24)) * time.Hour),
		}
		if err := db.Create(post).Error; err != nil {
			return fmt.Errorf("failed to create seed post: %w", err)
		}
	}

	log.Printf("seeded %d users and %d posts (password %q)", len(users), opts.NumPosts, opts.Password)
	return nil
}

func seedUsername(i int) string {
	if i == 0 {
		return "demo"
	}
	return fmt.Sprintf("demo_%d", i)
}

func truncate(s string, max int) string {
	s = strings.TrimSuffix(s, ".")
	if len(s) <= max {
		return s
	}
	return s[:max]
}
