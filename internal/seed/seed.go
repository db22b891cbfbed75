package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"yatube/internal/middleware"
	"yatube/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers        int
	PostsPerUser    int
	MaxComments     int
	FollowsPerUser  int
	GroupedFraction float64
	MaxDays         int
	Seed            int64
	ShouldClean     bool
}

// DefaultOptions is a small but browsable data set.
func DefaultOptions() Options {
	return Options{
		NumUsers:        20,
		PostsPerUser:    8,
		MaxComments:     4,
		FollowsPerUser:  5,
		GroupedFraction: 0.6,
		MaxDays:         90,
		Seed:            1,
	}
}

// Summary counts what a run created.
type Summary struct {
	Groups   int
	Users    int
	Posts    int
	Comments int
	Follows  int
}

// Clean removes all rows, children first.
func Clean(db *gorm.DB) error {
	tx := db.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{&models.Follow{}, &models.Comment{}, &models.Post{}, &models.Group{}, &models.User{}} {
		if err := tx.Unscoped().Delete(model).Error; err != nil {
			return fmt.Errorf("clean %T: %w", model, err)
		}
	}
	return nil
}

// Run seeds groups, users, posts, comments and follows in one transaction.
func Run(ctx context.Context, db *gorm.DB, groups []GroupFixture, opts Options) (Summary, error) {
	var summary Summary

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return summary, fmt.Errorf("hash demo password: %w", err)
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.ShouldClean {
			if err := Clean(tx); err != nil {
				return err
			}
		}

		f := NewFactory(tx, opts.Seed, string(hash), opts.MaxDays)
		rng := rand.New(rand.NewSource(opts.Seed))

		created := make([]*models.Group, 0, len(groups))
		for _, g := range groups {
			group, err := f.CreateGroup(g)
			if err != nil {
				return err
			}
			created = append(created, group)
		}
		summary.Groups = len(created)

		users := make([]*models.User, 0, opts.NumUsers)
		for i := 0; i < opts.NumUsers; i++ {
			user, err := f.CreateUser(i + 1)
			if err != nil {
				return err
			}
			users = append(users, user)
		}
		summary.Users = len(users)

		for _, author := range users {
			for j := 0; j < opts.PostsPerUser; j++ {
				var group *models.Group
				if len(created) > 0 && rng.Float64() < opts.GroupedFraction {
					group = created[rng.Intn(len(created))]
				}
				post, err := f.CreatePost(author, group)
				if err != nil {
					return err
				}
				summary.Posts++

				if opts.MaxComments <= 0 {
					continue
				}
				for k := rng.Intn(opts.MaxComments + 1); k > 0; k-- {
					if _, err := f.CreateComment(post, users[rng.Intn(len(users))]); err != nil {
						return err
					}
					summary.Comments++
				}
			}
		}

		for _, follower := range users {
			picked := map[uint]bool{follower.ID: true}
			want := min(opts.FollowsPerUser, len(users)-1)
			for len(picked)-1 < want {
				author := users[rng.Intn(len(users))]
				if picked[author.ID] {
					continue
				}
				picked[author.ID] = true
				if err := f.CreateFollow(follower, author); err != nil {
					return err
				}
				summary.Follows++
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	middleware.Logger.InfoContext(ctx, "seed complete",
		slog.Int("groups", summary.Groups),
		slog.Int("users", summary.Users),
		slog.Int("posts", summary.Posts),
		slog.Int("comments", summary.Comments),
		slog.Int("follows", summary.Follows),
	)
	return summary, nil
}
