package view

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/a-h/templ"
)

// ErrTemplateNotFound is returned when no view directory holds the template.
var ErrTemplateNotFound = errors.New("template not found")

const (
	templateExt = ".html"
	partialsDir = "partials"
)

// Renderer loads html/template files from an ordered list of directories.
// The first directory containing "<name>.html" wins; every directory's
// partials/*.html are parsed alongside so templates can include them.
type Renderer struct {
	dirs  []fs.FS
	cache bool

	mu        sync.RWMutex
	templates map[string]*template.Template
}

type RendererOption func(*Renderer)

// WithoutCache re-parses templates on every render.
func WithoutCache() RendererOption {
	return func(r *Renderer) { r.cache = false }
}

func NewRenderer(dirs []fs.FS, opts ...RendererOption) *Renderer {
	r := &Renderer{
		dirs:      compact(dirs),
		cache:     true,
		templates: make(map[string]*template.Template),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// With returns a renderer searching dirs before the receiver's directories.
func (r *Renderer) With(dirs ...fs.FS) *Renderer {
	out := &Renderer{
		dirs:      append(compact(dirs), r.dirs...),
		cache:     r.cache,
		templates: make(map[string]*template.Template),
	}
	return out
}

// Has reports whether a template with the given name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.find(name)
	return ok
}

// Lookup returns the parsed template for name.
func (r *Renderer) Lookup(name string) (*template.Template, error) {
	name = strings.Trim(name, "/")
	if r.cache {
		r.mu.RLock()
		t, ok := r.templates[name]
		r.mu.RUnlock()
		if ok {
			return t, nil
		}
	}

	t, err := r.parse(name)
	if err != nil {
		return nil, err
	}

	if r.cache {
		r.mu.Lock()
		r.templates[name] = t
		r.mu.Unlock()
	}
	return t, nil
}

// Component executes the named template with data as a templ component.
func (r *Renderer) Component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		t, err := r.Lookup(name)
		if err != nil {
			return err
		}
		return t.Execute(w, data)
	})
}

func (r *Renderer) find(name string) (fs.FS, bool) {
	file := strings.Trim(name, "/") + templateExt
	for _, dir := range r.dirs {
		if _, err := fs.Stat(dir, file); err == nil {
			return dir, true
		}
	}
	return nil, false
}

func (r *Renderer) parse(name string) (*template.Template, error) {
	dir, ok := r.find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	src, err := fs.ReadFile(dir, name+templateExt)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}

	t := template.New(name)
	// Partials are added in reverse so earlier directories override later ones.
	for i := len(r.dirs) - 1; i >= 0; i-- {
		matches, _ := fs.Glob(r.dirs[i], path.Join(partialsDir, "*"+templateExt))
		for _, m := range matches {
			b, err := fs.ReadFile(r.dirs[i], m)
			if err != nil {
				return nil, fmt.Errorf("read partial %s: %w", m, err)
			}
			pname := strings.TrimSuffix(m, templateExt)
			if _, err := t.New(pname).Parse(string(b)); err != nil {
				return nil, fmt.Errorf("parse partial %s: %w", m, err)
			}
		}
	}
	if _, err := t.Parse(string(src)); err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return t, nil
}

func compact(dirs []fs.FS) []fs.FS {
	out := make([]fs.FS, 0, len(dirs))
	for _, d := range dirs {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}
