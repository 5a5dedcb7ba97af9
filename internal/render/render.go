// Package render renders the site's pages from embedded Django-syntax
// templates using pongo2.
package render

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"yatube/internal/models"
	"yatube/internal/observability"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates
var templateFS embed.FS

// Context is the data passed to a template.
type Context map[string]any

// Renderer writes the named template to w.
type Renderer interface {
	Render(w io.Writer, name string, ctx Context) error
}

// Options configures an Engine.
type Options struct {
	// SiteName is exposed to every template as site_name.
	SiteName string
	// Debug recompiles templates on every render.
	Debug bool
	// FS overrides the embedded templates; it must contain the template
	// names at its root.
	FS fs.FS
}

// Engine is the pongo2-backed Renderer.
type Engine struct {
	set *pongo2.TemplateSet
}

var _ Renderer = (*Engine)(nil)

// rootLoader resolves every name from the FS root, the way Django's
// template dirs do, instead of relative to the including template.
type rootLoader struct {
	fsys fs.FS
}

func (l rootLoader) Abs(_, name string) string {
	return path.Clean(strings.TrimPrefix(name, "/"))
}

func (l rootLoader) Get(name string) (io.Reader, error) {
	return l.fsys.Open(name)
}

var registerFilters sync.Once

// New constructs an Engine over the embedded templates unless opts.FS is set.
func New(opts Options) (*Engine, error) {
	fsys := opts.FS
	if fsys == nil {
		sub, err := fs.Sub(templateFS, "templates")
		if err != nil {
			return nil, fmt.Errorf("render: open embedded templates: %w", err)
		}
		fsys = sub
	}

	set := pongo2.NewSet("yatube", rootLoader{fsys: fsys})
	set.Debug = opts.Debug
	set.Globals.Update(pongo2.Context{
		"site_name": opts.SiteName,
		"year":      time.Now().Year(),
	})

	var regErr error
	registerFilters.Do(func() {
		if !pongo2.FilterExists("fullname") {
			regErr = pongo2.RegisterFilter("fullname", filterFullName)
		}
	})
	if regErr != nil {
		return nil, fmt.Errorf("render: register filters: %w", regErr)
	}

	return &Engine{set: set}, nil
}

// Render executes name with ctx merged over the globals.
func (e *Engine) Render(w io.Writer, name string, ctx Context) error {
	if e == nil || e.set == nil {
		return errors.New("render: engine is nil")
	}
	start := time.Now()

	tmpl, err := e.set.FromCache(name)
	if err != nil {
		return fmt.Errorf("render: load template %q: %w", name, err)
	}

	if err := tmpl.ExecuteWriter(pongo2.Context(ctx), w); err != nil {
		return fmt.Errorf("render: execute template %q: %w", name, err)
	}

	observability.PageRenderLatency.WithLabelValues(name).Observe(time.Since(start).Seconds())
	return nil
}

func filterFullName(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	switch u := in.Interface().(type) {
	case *models.User:
		if u == nil {
			return pongo2.AsValue(""), nil
		}
		return pongo2.AsValue(u.FullName()), nil
	case models.User:
		return pongo2.AsValue(u.FullName()), nil
	default:
		return pongo2.AsValue(in.String()), nil
	}
}
