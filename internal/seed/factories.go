// Package seed creates demo data: groups from fixtures plus fake users,
// posts, comments and follow edges. Development and testing only.
package seed

import (
	"fmt"
	"strings"
	"time"

	"yatube/internal/models"
	"yatube/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DemoPassword is the password every seeded user can log in with.
const DemoPassword = "yatube-demo-password"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db           *gorm.DB
	faker        *gofakeit.Faker
	passwordHash string
	now          time.Time
	maxDays      int
}

// NewFactory creates a Factory. The same seed yields the same content.
func NewFactory(db *gorm.DB, seed int64, passwordHash string, maxDays int) *Factory {
	if maxDays <= 0 {
		maxDays = 90
	}
	return &Factory{
		db:           db,
		faker:        gofakeit.New(seed),
		passwordHash: passwordHash,
		now:          time.Now().UTC(),
		maxDays:      maxDays,
	}
}

// CreateUser inserts a fake user whose username is unique by index i.
func (f *Factory) CreateUser(i int) (*models.User, error) {
	first := f.faker.FirstName()
	last := f.faker.LastName()
	username := fmt.Sprintf("%s%d", strings.ToLower(first), i)
	if validation.ValidateUsername(username) != nil {
		username = fmt.Sprintf("user%d", i)
	}
	user := &models.User{
		Username:  username,
		Email:     fmt.Sprintf("%s@example.com", username),
		Password:  f.passwordHash,
		FirstName: first,
		LastName:  last,
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// CreateGroup inserts a group from a fixture.
func (f *Factory) CreateGroup(g GroupFixture) (*models.Group, error) {
	group := &models.Group{Title: g.Title, Slug: g.Slug, Description: g.Description}
	if err := f.db.Create(group).Error; err != nil {
		return nil, fmt.Errorf("create group %s: %w", g.Slug, err)
	}
	return group, nil
}

func (f *Factory) pastTime() time.Time {
	return f.faker.DateRange(f.now.AddDate(0, 0, -f.maxDays), f.now)
}

// CreatePost inserts a post by author, in group when group is non-nil.
func (f *Factory) CreatePost(author *models.User, group *models.Group) (*models.Post, error) {
	post := &models.Post{
		Text:      f.faker.Paragraph(1, 3, 12, "\n"),
		UserID:    author.ID,
		CreatedAt: f.pastTime(),
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	if err := f.db.Omit("Author", "Group").Create(post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// CreateComment inserts a comment on post by author.
func (f *Factory) CreateComment(post *models.Post, author *models.User) (*models.Comment, error) {
	created := f.faker.DateRange(post.CreatedAt, f.now)
	comment := &models.Comment{
		Text:      f.faker.Sentence(f.faker.Number(4, 16)),
		PostID:    post.ID,
		UserID:    author.ID,
		CreatedAt: created,
	}
	if err := f.db.Omit("Author", "Post").Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// CreateFollow inserts the follower → author edge.
func (f *Factory) CreateFollow(follower, author *models.User) error {
	follow := &models.Follow{UserID: follower.ID, AuthorID: author.ID}
	if err := f.db.Omit("User", "Author").Create(follow).Error; err != nil {
		return fmt.Errorf("create follow: %w", err)
	}
	return nil
}
