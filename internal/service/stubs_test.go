package service

import (
	"context"

	"yatube/internal/models"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint) (*models.Post, error)
	updateFn        func(context.Context, *models.Post) error
	listFn          func(context.Context, int, int) ([]*models.Post, error)
	listByGroupFn   func(context.Context, uint, int, int) ([]*models.Post, error)
	listByAuthorFn  func(context.Context, uint, int, int) ([]*models.Post, error)
	countFn         func(context.Context) (int64, error)
	countByGroupFn  func(context.Context, uint) (int64, error)
	countByAuthorFn func(context.Context, uint) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *postRepoStub) ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]*models.Post, error) {
	return s.listByGroupFn(ctx, groupID, limit, offset)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID, limit, offset)
}
func (s *postRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *postRepoStub) CountByGroup(ctx context.Context, groupID uint) (int64, error) {
	return s.countByGroupFn(ctx, groupID)
}
func (s *postRepoStub) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countByAuthorFn(ctx, authorID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:        func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:       func(_ context.Context, id uint) (*models.Post, error) { return nil, models.NewNotFoundError("Post", id) },
		updateFn:        func(_ context.Context, _ *models.Post) error { return nil },
		listFn:          func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		listByGroupFn:   func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) { return nil, nil },
		listByAuthorFn:  func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) { return nil, nil },
		countFn:         func(_ context.Context) (int64, error) { return 0, nil },
		countByGroupFn:  func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countByAuthorFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// groupRepoStub is a stub for repository.GroupRepository.
type groupRepoStub struct {
	groups map[uint]*models.Group
}

func (s *groupRepoStub) GetBySlug(_ context.Context, slug string) (*models.Group, error) {
	for _, g := range s.groups {
		if g.Slug == slug {
			return g, nil
		}
	}
	return nil, models.NewNotFoundError("Group", slug)
}
func (s *groupRepoStub) List(_ context.Context) ([]*models.Group, error) {
	out := make([]*models.Group, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g)
	}
	return out, nil
}
func (s *groupRepoStub) Upsert(_ context.Context, g *models.Group) error {
	for id, existing := range s.groups {
		if existing.Slug == g.Slug {
			g.ID = id
			s.groups[id] = g
			return nil
		}
	}
	g.ID = uint(len(s.groups) + 1)
	s.groups[g.ID] = g
	return nil
}
func (s *groupRepoStub) Exists(_ context.Context, id uint) (bool, error) {
	_, ok := s.groups[id]
	return ok, nil
}

// userRepoStub is an in-memory repository.UserRepository.
type userRepoStub struct {
	users     []*models.User
	createErr error
}

func (s *userRepoStub) GetByID(_ context.Context, id uint) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, models.NewNotFoundError("User", id)
}
func (s *userRepoStub) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, models.NewNotFoundError("User", username)
}
func (s *userRepoStub) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, models.NewNotFoundError("User", email)
}
func (s *userRepoStub) Create(_ context.Context, u *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	u.ID = uint(len(s.users) + 1)
	s.users = append(s.users, u)
	return nil
}

func assertCode(t interface {
	Helper()
	Errorf(string, ...any)
}, err error, code string) {
	t.Helper()
	if !models.HasCode(err, code) {
		t.Errorf("expected %s error, got %v", code, err)
	}
}
