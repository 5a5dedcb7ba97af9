// Package seed fills the database with demo groups, users and posts.
// It is meant for development and tests.
package seed

import (
	"fmt"
	"log"
	"strings"
	"time"

	"yatube/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is given to every generated user.
const DefaultPassword = "password123"

// SeedOptions tunes how the factory builds and stores entities.
type SeedOptions struct {
	// RandSeed makes the generated data reproducible. Zero uses the clock.
	RandSeed int64
	// MaxDays spreads post dates over the last MaxDays days.
	MaxDays int
	// SkipBcrypt stores DefaultPassword unhashed; such users cannot log in.
	SkipBcrypt bool
	// DryRun builds entities with synthetic ids and writes nothing.
	DryRun bool
	// Now anchors generated dates. Zero means time.Now.
	Now time.Time
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db     *gorm.DB
	opts   SeedOptions
	faker  *gofakeit.Faker
	hash   string
	nextID uint
	seq    int
}

// NewFactory creates a Factory bound to db.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	return &Factory{db: db, opts: opts, faker: gofakeit.New(seed), nextID: 1000}
}

func (f *Factory) password() (string, error) {
	if f.opts.SkipBcrypt {
		return DefaultPassword, nil
	}
	if f.hash == "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		f.hash = string(hashed)
	}
	return f.hash, nil
}

// usernameChars keeps only what signup would accept.
func usernameChars(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return r
	case strings.ContainsRune("@.+-_", r):
		return r
	}
	return -1
}

// BuildUser constructs a user without saving it.
func (f *Factory) BuildUser(overrides ...func(*models.User)) (*models.User, error) {
	f.seq++
	username := strings.Map(usernameChars, f.faker.Username())
	username = fmt.Sprintf("%s%d", strings.ToLower(username), f.seq)

	password, err := f.password()
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:  username,
		Email:     username + "@" + f.faker.DomainName(),
		Password:  password,
		FirstName: f.faker.FirstName(),
		LastName:  f.faker.LastName(),
	}
	for _, override := range overrides {
		override(user)
	}
	return user, nil
}

// CreateUser builds and persists a user.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user, err := f.BuildUser(overrides...)
	if err != nil {
		return nil, err
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Username, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post by user, optionally in group, without saving it.
func (f *Factory) BuildPost(user *models.User, group *models.Group, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Text:     f.faker.Paragraph(f.faker.Number(1, 3), f.faker.Number(2, 5), 12, "\n\n"),
		AuthorID: user.ID,
	}
	if group != nil {
		post.GroupID = &group.ID
	}

	back := time.Duration(f.faker.Number(0, f.opts.MaxDays*24*60)) * time.Minute
	post.CreatedAt = f.opts.Now.Add(-back)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost builds and persists a post.
func (f *Factory) CreatePost(user *models.User, group *models.Group, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(user, group, overrides...)

	if f.opts.DryRun {
		f.nextID++
		post.ID = f.nextID
		log.Printf("[dry-run] CreatePost: author=%d group=%v", post.AuthorID, post.GroupID)
		return post, nil
	}

	if err := f.db.Omit("Author", "Group").Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePostsBatch persists posts in batches of 100.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	return f.db.Omit("Author", "Group").CreateInBatches(posts, 100).Error
}

// pick returns a random index in [0, n).
func (f *Factory) pick(n int) int {
	return f.faker.Number(0, n-1)
}
