// Package service holds the site's business rules on top of the repositories.
package service

import (
	"context"
	"strconv"
	"strings"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/paginator"
	"yatube/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultPageSize is the number of posts on every listing page.
const DefaultPageSize = 10

// PostPage is one page of posts as shown on a listing.
type PostPage = paginator.Page[*models.Post]

type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
	perPage   int
}

type CreatePostInput struct {
	AuthorID uint
	Text     string
	GroupID  *uint
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Text    string
	GroupID *uint
}

// PostDetail is a post together with its author's total post count.
type PostDetail struct {
	Post             *models.Post
	AuthorPostsCount int64
}

func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	perPage int,
) *PostService {
	if perPage < 1 {
		perPage = DefaultPageSize
	}
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
		perPage:   perPage,
	}
}

func (s *PostService) paginate(
	ctx context.Context,
	rawPage string,
	count func(context.Context) (int64, error),
	list func(ctx context.Context, limit, offset int) ([]*models.Post, error),
) (PostPage, error) {
	total, err := count(ctx)
	if err != nil {
		return PostPage{}, err
	}
	p := paginator.New(int(total), s.perPage)
	number := p.Number(rawPage)

	posts, err := list(ctx, p.PerPage, p.Offset(number))
	if err != nil {
		return PostPage{}, err
	}
	return paginator.NewPage(p, number, posts), nil
}

// ListIndex returns a page of all posts, newest first.
func (s *PostService) ListIndex(ctx context.Context, rawPage string) (page PostPage, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "ListIndex")
	defer func() { observability.EndSpan(span, err) }()

	return s.paginate(ctx, rawPage, s.postRepo.Count, s.postRepo.List)
}

// ListGroup returns the group identified by slug and a page of its posts.
func (s *PostService) ListGroup(ctx context.Context, slug, rawPage string) (group *models.Group, page PostPage, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "ListGroup", attribute.String("group.slug", slug))
	defer func() { observability.EndSpan(span, err) }()

	group, err = s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, PostPage{}, err
	}
	page, err = s.paginate(ctx, rawPage,
		func(ctx context.Context) (int64, error) { return s.postRepo.CountByGroup(ctx, group.ID) },
		func(ctx context.Context, limit, offset int) ([]*models.Post, error) {
			return s.postRepo.ListByGroup(ctx, group.ID, limit, offset)
		},
	)
	if err != nil {
		return nil, PostPage{}, err
	}
	return group, page, nil
}

// ListProfile returns the author with the given username and a page of
// their posts. page.Count is the author's total number of posts.
func (s *PostService) ListProfile(ctx context.Context, username, rawPage string) (author *models.User, page PostPage, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "ListProfile", attribute.String("author.username", username))
	defer func() { observability.EndSpan(span, err) }()

	author, err = s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, PostPage{}, err
	}
	page, err = s.paginate(ctx, rawPage,
		func(ctx context.Context) (int64, error) { return s.postRepo.CountByAuthor(ctx, author.ID) },
		func(ctx context.Context, limit, offset int) ([]*models.Post, error) {
			return s.postRepo.ListByAuthor(ctx, author.ID, limit, offset)
		},
	)
	if err != nil {
		return nil, PostPage{}, err
	}
	return author, page, nil
}

// GetPost returns the post with its author's post count.
func (s *PostService) GetPost(ctx context.Context, id uint) (detail *PostDetail, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "GetPost", attribute.Int64("post.id", int64(id)))
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.postRepo.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, AuthorPostsCount: count}, nil
}

// Groups lists the groups a post may be filed under.
func (s *PostService) Groups(ctx context.Context) ([]*models.Group, error) {
	return s.groupRepo.List(ctx)
}

// EditablePost returns the post when userID is its author, and an
// UNAUTHORIZED error otherwise.
func (s *PostService) EditablePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, models.NewUnauthorizedError("Only the author can edit this post")
	}
	return post, nil
}

func (s *PostService) validate(ctx context.Context, text string, groupID *uint) error {
	if strings.TrimSpace(text) == "" {
		return models.NewValidationError("Post text is required")
	}
	if groupID == nil {
		return nil
	}
	ok, err := s.groupRepo.Exists(ctx, *groupID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewValidationError("Select a valid choice")
	}
	return nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "CreatePost", attribute.Int64("author.id", int64(in.AuthorID)))
	defer func() { observability.EndSpan(span, err) }()

	if in.AuthorID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if err := s.validate(ctx, in.Text, in.GroupID); err != nil {
		return nil, err
	}

	post = &models.Post{
		Text:     strings.TrimSpace(in.Text),
		AuthorID: in.AuthorID,
		GroupID:  in.GroupID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsCreated.WithLabelValues(strconv.FormatBool(in.GroupID != nil)).Inc()
	return post, nil
}

// UpdatePost changes text and group of a post. Only the author may do so;
// anyone else gets UNAUTHORIZED and nothing is written.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "UpdatePost", attribute.Int64("post.id", int64(in.PostID)))
	defer func() { observability.EndSpan(span, err) }()

	post, err = s.EditablePost(ctx, in.UserID, in.PostID)
	if err != nil {
		if models.HasCode(err, models.CodeUnauthorized) {
			observability.PostEdits.WithLabelValues("denied").Inc()
		}
		return nil, err
	}
	if err := s.validate(ctx, in.Text, in.GroupID); err != nil {
		observability.PostEdits.WithLabelValues("invalid").Inc()
		return nil, err
	}

	post.Text = strings.TrimSpace(in.Text)
	post.GroupID = in.GroupID
	post.Group = nil
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	observability.PostEdits.WithLabelValues("saved").Inc()
	return post, nil
}
