package wizard

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/dmitrymomot/bootstrap/pkg/errorpage"
)

var (
	// ErrNoSteps is returned for a route without steps.
	ErrNoSteps = errors.New("route has no steps")
	// ErrInvalidStep is returned for a step that cannot be mounted.
	ErrInvalidStep = errors.New("invalid step")
)

// Step is one page of a route.
type Step struct {
	Path string `mapstructure:"path"`
	// Template defaults to the path without slashes, or "index" for "/".
	Template string `mapstructure:"template"`
	// Next is where a submitted form redirects to, relative to the route base URL.
	// Steps without Next do not accept POST.
	Next  string `mapstructure:"next"`
	Title string `mapstructure:"title"`
	// Handler replaces the default render/redirect behaviour for every method.
	Handler errorpage.HandlerFunc `mapstructure:"-"`
}

// TemplateName returns the view rendered for the step.
func (s Step) TemplateName() string {
	if s.Template != "" {
		return strings.Trim(s.Template, "/")
	}
	if name := strings.Trim(s.Path, "/"); name != "" {
		return name
	}
	return "index"
}

// Route is a set of steps mounted under a base URL.
type Route struct {
	Name    string   `mapstructure:"name"`
	BaseURL string   `mapstructure:"baseUrl"`
	Steps   []Step   `mapstructure:"steps"`
	Views   []string `mapstructure:"views"`
	// Options holds any other keys; they override the base config for this route.
	Options map[string]any `mapstructure:",remain"`
}

// Base returns the normalized base URL, "/" when unset.
func (r Route) Base() string {
	if r.BaseURL == "" {
		return "/"
	}
	return path.Clean("/" + r.BaseURL)
}

// Key identifies the route in session data.
func (r Route) Key() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Base()
}

// Validate checks the route can be mounted.
func (r Route) Validate() error {
	if len(r.Steps) == 0 {
		return fmt.Errorf("%w: %s", ErrNoSteps, r.Base())
	}
	seen := make(map[string]bool, len(r.Steps))
	for i, s := range r.Steps {
		p := r.stepPath(s)
		if seen[p] {
			return fmt.Errorf("%w: step %d of %s duplicates path %s", ErrInvalidStep, i, r.Base(), p)
		}
		seen[p] = true
	}
	return nil
}

func (r Route) stepPath(s Step) string {
	return path.Join(r.Base(), "/"+s.Path)
}

// nextURL resolves s.Next against the base URL. Absolute http(s) URLs are
// returned unchanged.
func (r Route) nextURL(s Step) string {
	if s.Next == "" {
		return ""
	}
	if strings.HasPrefix(s.Next, "http://") || strings.HasPrefix(s.Next, "https://") {
		return s.Next
	}
	return path.Join(r.Base(), "/"+s.Next)
}
