package server

import (
	"fmt"
	"net/url"

	"yatube/internal/forms"
	"yatube/internal/models"
	"yatube/internal/render"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Index handles GET /
func (s *Server) Index(c *fiber.Ctx) error {
	page, err := s.postService.ListIndex(c.UserContext(), c.Query("page"))
	if err != nil {
		return err
	}
	return s.page(c, fiber.StatusOK, "posts/index.html", render.Context{
		"page_obj": page,
	})
}

// GroupPosts handles GET /group/:slug/
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	group, page, err := s.postService.ListGroup(c.UserContext(), c.Params("slug"), c.Query("page"))
	if err != nil {
		return err
	}
	return s.page(c, fiber.StatusOK, "posts/group_list.html", render.Context{
		"group":    group,
		"page_obj": page,
	})
}

// Profile handles GET /profile/:username/
func (s *Server) Profile(c *fiber.Ctx) error {
	username, err := url.PathUnescape(c.Params("username"))
	if err != nil {
		return errNotFound
	}
	author, page, err := s.postService.ListProfile(c.UserContext(), username, c.Query("page"))
	if err != nil {
		return err
	}
	return s.page(c, fiber.StatusOK, "posts/profile.html", render.Context{
		"author":      author,
		"page_obj":    page,
		"posts_count": page.Count,
	})
}

// PostDetail handles GET /posts/:id/
func (s *Server) PostDetail(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}
	detail, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}

	user := currentUser(c)
	return s.page(c, fiber.StatusOK, "posts/post_detail.html", render.Context{
		"post":        detail.Post,
		"posts_count": detail.AuthorPostsCount,
		"is_author":   user != nil && user.ID == detail.Post.AuthorID,
	})
}

func (s *Server) newPostForm(c *fiber.Ctx) (*forms.PostForm, error) {
	groups, err := s.postService.Groups(c.UserContext())
	if err != nil {
		return nil, err
	}
	return forms.NewPostForm(groups), nil
}

// PostCreateForm handles GET /create/
func (s *Server) PostCreateForm(c *fiber.Ctx) error {
	form, err := s.newPostForm(c)
	if err != nil {
		return err
	}
	return s.page(c, fiber.StatusOK, "posts/create_post.html", render.Context{"form": form})
}

// PostCreate handles POST /create/
func (s *Server) PostCreate(c *fiber.Ctx) error {
	form, err := s.newPostForm(c)
	if err != nil {
		return err
	}
	user := currentUser(c)

	if form.Bind(formValues(c)).IsValid() {
		_, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
			AuthorID: user.ID,
			Text:     form.Text,
			GroupID:  form.GroupID,
		})
		switch {
		case err == nil:
			s.pinPrimary(c)
			return c.Redirect(profileURL(user.Username), fiber.StatusFound)
		case models.HasCode(err, models.CodeValidation):
			form.AddError("", errorMessage(err))
		default:
			return err
		}
	}
	return s.page(c, fiber.StatusOK, "posts/create_post.html", render.Context{"form": form})
}

// editablePost loads the post for the edit views. ok is false when the
// response has already been decided: a redirect for non-authors.
func (s *Server) editablePost(c *fiber.Ctx) (post *models.Post, ok bool, err error) {
	id, err := parsePostID(c)
	if err != nil {
		return nil, false, err
	}
	post, err = s.postService.EditablePost(c.UserContext(), currentUser(c).ID, id)
	if models.HasCode(err, models.CodeUnauthorized) {
		return nil, false, c.Redirect(postURL(id), fiber.StatusFound)
	}
	if err != nil {
		return nil, false, err
	}
	return post, true, nil
}

// PostEditForm handles GET /posts/:id/edit/
func (s *Server) PostEditForm(c *fiber.Ctx) error {
	post, ok, err := s.editablePost(c)
	if !ok {
		return err
	}
	form, err := s.newPostForm(c)
	if err != nil {
		return err
	}
	return s.page(c, fiber.StatusOK, "posts/create_post.html", render.Context{
		"form":    form.SetInitial(post),
		"is_edit": true,
		"post":    post,
	})
}

// PostEdit handles POST /posts/:id/edit/
func (s *Server) PostEdit(c *fiber.Ctx) error {
	post, ok, err := s.editablePost(c)
	if !ok {
		return err
	}
	form, err := s.newPostForm(c)
	if err != nil {
		return err
	}

	if form.Bind(formValues(c)).IsValid() {
		_, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
			UserID:  currentUser(c).ID,
			PostID:  post.ID,
			Text:    form.Text,
			GroupID: form.GroupID,
		})
		switch {
		case err == nil:
			s.pinPrimary(c)
			return c.Redirect(postURL(post.ID), fiber.StatusFound)
		case models.HasCode(err, models.CodeUnauthorized):
			return c.Redirect(postURL(post.ID), fiber.StatusFound)
		case models.HasCode(err, models.CodeValidation):
			form.AddError("", errorMessage(err))
		default:
			return err
		}
	}
	return s.page(c, fiber.StatusOK, "posts/create_post.html", render.Context{
		"form":    form,
		"is_edit": true,
		"post":    post,
	})
}

func postURL(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}
