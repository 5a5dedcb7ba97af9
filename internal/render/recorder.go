package render

import (
	"fmt"
	"io"
	"sync"
)

// Rendered is one call captured by a Recorder.
type Rendered struct {
	Name    string
	Context Context
}

// Recorder is a Renderer that records what would have been rendered and
// writes only the template name. Handler tests use it to inspect the
// template and context a view chose.
type Recorder struct {
	mu    sync.Mutex
	calls []Rendered
}

var _ Renderer = (*Recorder)(nil)

func (r *Recorder) Render(w io.Writer, name string, ctx Context) error {
	r.mu.Lock()
	r.calls = append(r.calls, Rendered{Name: name, Context: ctx})
	r.mu.Unlock()
	_, err := fmt.Fprint(w, name)
	return err
}

// Last returns the most recent render, or a zero value when none happened.
func (r *Recorder) Last() Rendered {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Rendered{}
	}
	return r.calls[len(r.calls)-1]
}

// Calls returns every recorded render in order.
func (r *Recorder) Calls() []Rendered {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Rendered(nil), r.calls...)
}

// Reset forgets recorded renders.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}
