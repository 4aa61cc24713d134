package wizard

import (
	"context"
	"log/slog"
	"maps"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/bootstrap/pkg/errorpage"
	"github.com/dmitrymomot/bootstrap/pkg/logger"
	"github.com/dmitrymomot/bootstrap/pkg/session"
	"github.com/dmitrymomot/bootstrap/pkg/view"
)

const sessionPrefix = "wizard:"

// Config carries the collaborators a route needs.
type Config struct {
	Renderer *view.Renderer
	Layout   view.Layout
	// Sessions stores submitted values; nil disables persistence.
	Sessions *session.Manager
	// Options is the effective configuration for the route.
	Options map[string]any
	Logger  *slog.Logger
}

// Wizard serves the steps of a single route.
type Wizard struct {
	route Route
	cfg   Config
}

func New(route Route, cfg Config) (*Wizard, error) {
	if err := route.Validate(); err != nil {
		return nil, err
	}
	if cfg.Layout == nil {
		cfg.Layout = view.Bare
	}
	if cfg.Renderer == nil {
		cfg.Renderer = view.NewRenderer(nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Noop()
	}
	return &Wizard{route: route, cfg: cfg}, nil
}

func (wz *Wizard) Route() Route { return wz.route }

// Register mounts every step on r under the route base URL.
func (wz *Wizard) Register(r chi.Router) {
	r = r.With(wz.locals)
	for _, s := range wz.route.Steps {
		p := wz.route.stepPath(s)
		if s.Handler != nil {
			r.Handle(p, s.Handler)
			continue
		}
		r.Method(http.MethodGet, p, wz.render(s))
		if s.Next != "" {
			r.Method(http.MethodPost, p, wz.submit(s))
		}
	}
}

// Paths lists "METHOD path" pairs served by the route.
func (wz *Wizard) Paths() []string {
	out := make([]string, 0, len(wz.route.Steps)*2)
	for _, s := range wz.route.Steps {
		p := wz.route.stepPath(s)
		switch {
		case s.Handler != nil:
			out = append(out, "* "+p)
		case s.Next != "":
			out = append(out, http.MethodGet+" "+p, http.MethodPost+" "+p)
		default:
			out = append(out, http.MethodGet+" "+p)
		}
	}
	return out
}

func (wz *Wizard) locals(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := view.WithLocals(r.Context(), view.Locals{
			"route":   wz.route.Key(),
			"baseUrl": wz.route.Base(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// StepData is passed to step templates.
type StepData struct {
	ctx     context.Context
	Route   string
	BaseURL string
	Step    Step
	Action  string
	Next    string
	Options map[string]any
	Values  map[string]any
	Locals  view.Locals
}

// T translates key for the current request.
func (d StepData) T(key string, args ...string) string {
	return view.T(d.ctx, key, args...)
}

func (wz *Wizard) render(s Step) errorpage.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		ctx := r.Context()
		data := StepData{
			ctx:     ctx,
			Route:   wz.route.Key(),
			BaseURL: wz.route.Base(),
			Step:    s,
			Action:  wz.route.stepPath(s),
			Next:    wz.route.nextURL(s),
			Options: wz.cfg.Options,
			Values:  wz.values(r),
			Locals:  view.LocalsFrom(ctx),
		}
		var title string
		if s.Title != "" {
			title = view.T(ctx, s.Title)
		}
		page := view.Page(wz.cfg.Layout, title, wz.cfg.Renderer.Component(s.TemplateName(), data))
		return view.Render(w, r, http.StatusOK, page)
	}
}

func (wz *Wizard) submit(s Step) errorpage.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		if err := r.ParseForm(); err != nil {
			return errorpage.ErrBadRequest
		}

		if wz.cfg.Sessions != nil && len(r.PostForm) > 0 {
			values := wz.values(r)
			for k, vs := range r.PostForm {
				if len(vs) == 1 {
					values[k] = vs[0]
				} else {
					values[k] = vs
				}
			}
			if err := wz.cfg.Sessions.Set(r.Context(), w, r, sessionPrefix+wz.route.Key(), values); err != nil {
				return err
			}
		}

		wz.cfg.Logger.DebugContext(r.Context(), "step submitted",
			slog.String("route", wz.route.Key()),
			slog.String("step", s.Path),
			logger.Component("wizard"),
		)
		http.Redirect(w, r, wz.route.nextURL(s), http.StatusSeeOther)
		return nil
	}
}

// values returns a copy of the route values stored in the session.
func (wz *Wizard) values(r *http.Request) map[string]any {
	out := make(map[string]any)
	if wz.cfg.Sessions == nil {
		return out
	}
	if v, ok := wz.cfg.Sessions.GetValue(r.Context(), r, sessionPrefix+wz.route.Key()); ok {
		if m, ok := v.(map[string]any); ok {
			maps.Copy(out, m)
		}
	}
	return out
}
