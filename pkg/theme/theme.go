package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/dmitrymomot/bootstrap/pkg/view"
)

// ErrUnknownTheme is returned when a theme name is not registered.
var ErrUnknownTheme = errors.New("unknown theme")

// Theme bundles the page layout with its assets and fallback views.
type Theme struct {
	Name   string
	Layout view.Layout
	// Assets are served under /public; may be nil.
	Assets fs.FS
	// Views are searched after route and application views; may be nil.
	Views fs.FS
}

// Registry maps theme names to themes.
type Registry struct {
	mu       sync.RWMutex
	themes   map[string]*Theme
	fallback string
}

// NewRegistry returns a registry holding the basic theme as the default.
func NewRegistry() *Registry {
	r := &Registry{themes: make(map[string]*Theme), fallback: BasicName}
	r.Register(Basic())
	return r
}

// Register adds or replaces t under t.Name.
func (r *Registry) Register(t *Theme) {
	if t == nil || t.Name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.themes[t.Name] = t
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.themes))
	for n := range r.themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve turns a configured theme value into a Theme. nil selects the
// default theme, a string is looked up by name and a Theme is used as is.
func (r *Registry) Resolve(v any) (*Theme, error) {
	var t *Theme
	switch tv := v.(type) {
	case nil:
		return r.lookup(r.fallback)
	case string:
		if tv == "" {
			return r.lookup(r.fallback)
		}
		return r.lookup(tv)
	case *Theme:
		t = tv
	case Theme:
		t = &tv
	default:
		return nil, fmt.Errorf("%w: unsupported theme value %T", ErrUnknownTheme, v)
	}
	if t == nil {
		return r.lookup(r.fallback)
	}
	if t.Layout == nil {
		c := *t
		c.Layout = view.Bare
		t = &c
	}
	return t, nil
}

func (r *Registry) lookup(name string) (*Theme, error) {
	r.mu.RLock()
	t, ok := r.themes[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownTheme, name, r.Names())
	}
	return t, nil
}
