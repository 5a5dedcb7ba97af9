package render

import (
	"bytes"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"yatube/internal/forms"
	"yatube/internal/models"
	"yatube/internal/paginator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(Options{SiteName: "Yatube"})
	require.NoError(t, err)
	return e
}

// pageOf pages through an in-memory slice the way the services page
// through query results.
func pageOf[T any](items []T, perPage int, raw string) paginator.Page[T] {
	p := paginator.New(len(items), perPage)
	number := p.Number(raw)
	start := min(p.Offset(number), len(items))
	end := min(start+p.PerPage, len(items))
	return paginator.NewPage(p, number, items[start:end])
}

func render(t *testing.T, e *Engine, name string, ctx Context) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, e.Render(&buf, name, ctx))
	return buf.String()
}

func samplePosts() []*models.Post {
	author := models.User{ID: 1, Username: "leo", FirstName: "Leo", LastName: "Tolstoy"}
	group := &models.Group{ID: 1, Title: "Classics", Slug: "classics"}
	gid := group.ID
	return []*models.Post{
		{ID: 2, Text: "second\nline <b>two</b>", Author: author, AuthorID: 1, GroupID: &gid, Group: group, CreatedAt: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		{ID: 1, Text: "first", Author: author, AuthorID: 1, CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func TestEveryTemplateParses(t *testing.T) {
	e := newEngine(t)
	sub, err := fs.Sub(templateFS, "templates")
	require.NoError(t, err)

	err = fs.WalkDir(sub, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || strings.HasPrefix(p, "includes/") {
			return err
		}
		_, loadErr := e.set.FromFile(p)
		assert.NoError(t, loadErr, p)
		return nil
	})
	require.NoError(t, err)
}

func TestRender_Index(t *testing.T) {
	e := newEngine(t)
	page := pageOf(samplePosts(), 10, "1")

	out := render(t, e, "posts/index.html", Context{"page_obj": page, "request_path": "/"})

	assert.Contains(t, out, "<title>Latest updates on the site</title>")
	assert.Contains(t, out, "Leo Tolstoy")
	assert.Contains(t, out, "02 Mar 2024")
	assert.Contains(t, out, "second<br />line &lt;b&gt;two&lt;/b&gt;")
	assert.Contains(t, out, `href="/posts/2/"`)
	assert.Contains(t, out, `href="/group/classics/"`)
	assert.Contains(t, out, "Log in")
	assert.NotContains(t, out, "pagination")
	assert.Less(t, strings.Index(out, "/posts/2/"), strings.Index(out, "/posts/1/"))
}

func TestRender_Paginator(t *testing.T) {
	e := newEngine(t)
	posts := make([]*models.Post, 13)
	for i := range posts {
		posts[i] = &models.Post{ID: uint(i + 1), Text: "p", Author: models.User{Username: "leo"}}
	}
	out := render(t, e, "posts/index.html", Context{"page_obj": pageOf(posts, 10, "2")})

	assert.Contains(t, out, "pagination")
	assert.Contains(t, out, `href="?page=1"`)
	assert.Contains(t, out, `<span class="page-link">2</span>`)
	assert.NotContains(t, out, "Next")
}

func TestRender_GroupAndProfile(t *testing.T) {
	e := newEngine(t)
	posts := samplePosts()
	page := pageOf(posts[:1], 10, "")

	out := render(t, e, "posts/group_list.html", Context{"group": posts[0].Group, "page_obj": page})
	assert.Contains(t, out, "<h1>Classics</h1>")
	assert.NotContains(t, out, "all posts of the group")

	author := posts[0].Author
	out = render(t, e, "posts/profile.html", Context{"author": &author, "page_obj": page, "posts_count": 2})
	assert.Contains(t, out, "All posts of Leo Tolstoy")
	assert.Contains(t, out, "Total posts: 2")
}

func TestRender_PostDetail(t *testing.T) {
	e := newEngine(t)
	post := samplePosts()[0]
	user := &post.Author

	out := render(t, e, "posts/post_detail.html", Context{"post": post, "posts_count": 2, "is_author": true, "user": user})
	assert.Contains(t, out, "Total posts by the author: <span>2</span>")
	assert.Contains(t, out, `href="/posts/2/edit/"`)
	assert.Contains(t, out, "New post")

	out = render(t, e, "posts/post_detail.html", Context{"post": post, "posts_count": 2, "is_author": false})
	assert.NotContains(t, out, "/edit/")
}

func TestRender_CreatePostForm(t *testing.T) {
	e := newEngine(t)
	groups := []*models.Group{{ID: 3, Title: "Cats", Slug: "cats"}}

	form := forms.NewPostForm(groups).Bind(url.Values{"text": {""}, "group": {"3"}}.Get)
	out := render(t, e, "posts/create_post.html", Context{"form": form})
	assert.Contains(t, out, `action="/create/"`)
	assert.Contains(t, out, "This field is required.")
	assert.Contains(t, out, `<option value="3" selected>Cats</option>`)

	post := &models.Post{ID: 9, Text: "old <text>"}
	form = forms.NewPostForm(groups).SetInitial(post)
	out = render(t, e, "posts/create_post.html", Context{"form": form, "is_edit": true, "post": post})
	assert.Contains(t, out, `action="/posts/9/edit/"`)
	assert.Contains(t, out, "old &lt;text&gt;</textarea>")
	assert.Contains(t, out, "Save")
}

func TestRender_StaticPages(t *testing.T) {
	e := newEngine(t)
	for name, want := range map[string]string{
		"about/author.html":     "About the author",
		"about/tech.html":       "pongo2",
		"users/logged_out.html": "You have logged out of Yatube.",
		"users/login.html":      `name="next"`,
		"users/signup.html":     `name="username"`,
		"core/404.html":         "/missing/",
	} {
		ctx := Context{"path": "/missing/", "form": forms.NewSignupForm()}
		if name == "users/login.html" {
			ctx["form"] = forms.NewLoginForm()
		}
		assert.Contains(t, render(t, e, name, ctx), want, name)
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	e := newEngine(t)
	err := e.Render(&bytes.Buffer{}, "posts/nope.html", nil)
	assert.Error(t, err)
}

func TestRender_CustomFSAndGlobals(t *testing.T) {
	e, err := New(Options{
		SiteName: "Test",
		FS: fstest.MapFS{
			"hello.html": {Data: []byte(`{{ site_name }} {{ greeting }} {{ who|fullname }} {{ year }}`)},
		},
	})
	require.NoError(t, err)

	out := render(t, e, "hello.html", Context{"greeting": "hi", "who": &models.User{Username: "anon"}})
	assert.Equal(t, fmt.Sprintf("Test hi anon %d", time.Now().Year()), out)
}

func TestRecorder(t *testing.T) {
	var r Recorder
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "posts/index.html", Context{"x": 1}))

	assert.Equal(t, "posts/index.html", buf.String())
	assert.Equal(t, "posts/index.html", r.Last().Name)
	assert.Equal(t, 1, r.Last().Context["x"])
	assert.Len(t, r.Calls(), 1)
	r.Reset()
	assert.Empty(t, r.Calls())
}
