// Package seed provides database seeding utilities for development and
// testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// DefaultPassword is the login password for every seeded account.
const DefaultPassword = "password123"

// Seed populates the database with demo users and posts.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear existing data, continuing anyway...")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d demo users created (password %q)", len(users), DefaultPassword)

	posts, err := createPosts(db, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d demo posts created", len(posts))

	return nil
}

func clearData(db *gorm.DB) error {
	if err := db.Exec("DELETE FROM post").Error; err != nil {
		return err
	}
	return db.Exec("DELETE FROM users").Error
}

func createUsers(db *gorm.DB, count int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	genders := []string{"F", "M", "X"}
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), i)
		user := &models.User{
			Username: username,
			Email:    fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
			Gender:   genders[rand.Intn(len(genders))],
			Password: string(hashed),
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createPosts(db *gorm.DB, users []*models.User, count int) ([]*models.Post, error) {
	if len(users) == 0 || count == 0 {
		return nil, nil
	}

	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		owner := users[rand.Intn(len(users))]
		post := &models.Post{
			// The counter keeps generated titles unique.
			Title:     fmt.Sprintf("%s #%d", strings.TrimSuffix(gofakeit.Sentence(4), "."), i+1),
			Content:   gofakeit.Paragraph(1, 3, 5, "\n"),
			Author:    gofakeit.Name(),
			UserID:    owner.ID,
			CreatedOn: randomPastTime(90),
		}
		if err := db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func randomPastTime(maxDays int) time.Time {
	daysBack := rand.Intn(maxDays)
	hoursBack := rand.Intn(24)
	minsBack := rand.Intn(60)
	return time.Now().
		Add(-time.Duration(daysBack) * 24 * time.Hour).
		Add(-time.Duration(hoursBack) * time.Hour).
		Add(-time.Duration(minsBack) * time.Minute)
}
