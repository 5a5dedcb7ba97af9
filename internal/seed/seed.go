package seed

import (
	"fmt"
	"log"

	"yatube/internal/models"

	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// Ungrouped is the share of posts, 0..1, left without a group.
	Ungrouped float64
	SeedOptions
}

// Summary reports what a run produced.
type Summary struct {
	Groups int
	Users  int
	Posts  int
}

// Seeder applies built-in groups and generated users and posts.
type Seeder struct {
	db     *gorm.DB
	groups []GroupSpec
}

// NewSeeder returns a Seeder using the embedded group list.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, groups: BuiltInGroups()}
}

// WithGroups replaces the group list.
func (s *Seeder) WithGroups(specs []GroupSpec) *Seeder {
	s.groups = specs
	return s
}

// ClearAll removes every post, user and group. Posts go first so the
// foreign keys never dangle.
func (s *Seeder) ClearAll() error {
	log.Println("🧹 Cleaning existing data...")
	return s.db.Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{&models.Post{}, &models.User{}, &models.Group{}} {
			if err := all.Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

// Run seeds groups, users and posts according to opts.
func (s *Seeder) Run(opts Options) (Summary, error) {
	var sum Summary

	if opts.ShouldClean && !opts.DryRun {
		if err := s.ClearAll(); err != nil {
			return sum, err
		}
	}

	var groups []*models.Group
	if opts.DryRun {
		for i, spec := range s.groups {
			groups = append(groups, &models.Group{ID: uint(i + 1), Title: spec.Title, Slug: spec.Slug})
		}
		log.Printf("[dry-run] Groups: %d (no DB write)", len(groups))
	} else {
		var err error
		if groups, err = Groups(s.db, s.groups); err != nil {
			return sum, err
		}
	}
	sum.Groups = len(groups)
	log.Printf("📚 %d groups ready", sum.Groups)

	f := NewFactory(s.db, opts.SeedOptions)
	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return sum, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
	}
	sum.Users = len(users)
	log.Printf("👤 %d users created", sum.Users)

	if len(users) == 0 || opts.NumPosts <= 0 {
		return sum, nil
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.pick(len(users))]
		var group *models.Group
		if len(groups) > 0 && f.faker.Float64() >= opts.Ungrouped {
			group = groups[f.pick(len(groups))]
		}
		posts = append(posts, f.BuildPost(author, group))
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return sum, fmt.Errorf("create posts: %w", err)
	}
	sum.Posts = len(posts)
	log.Printf("📝 %d posts created", sum.Posts)

	return sum, nil
}
