package pages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/bootstrap/pkg/consent"
	"github.com/dmitrymomot/bootstrap/pkg/errorpage"
	"github.com/dmitrymomot/bootstrap/pkg/i18n"
	"github.com/dmitrymomot/bootstrap/pkg/view"
)

const (
	CookiesPath = "/cookies"
	TermsPath   = "/terms-and-conditions"
)

// Waiter blocks until translations are available.
type Waiter interface {
	Wait(ctx context.Context, timeout time.Duration) (*i18n.Translator, error)
}

// Pages serves the built-in informational pages.
type Pages struct {
	layout   view.Layout
	renderer *view.Renderer
	waiter   Waiter
	timeout  time.Duration
}

type Option func(*Pages)

func WithLayout(l view.Layout) Option {
	return func(p *Pages) {
		if l != nil {
			p.layout = l
		}
	}
}

// WithRenderer lets "cookies" and "terms-and-conditions" view templates
// replace the built-in page bodies.
func WithRenderer(r *view.Renderer) Option {
	return func(p *Pages) { p.renderer = r }
}

// WithWaiter gates every page on translations being ready within timeout.
func WithWaiter(w Waiter, timeout time.Duration) Option {
	return func(p *Pages) {
		p.waiter = w
		p.timeout = timeout
	}
}

func New(opts ...Option) *Pages {
	p := &Pages{layout: view.Bare}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Cookies renders the cookie policy with the consent form.
func (p *Pages) Cookies() errorpage.HandlerFunc {
	return p.page("cookies", "cookies.title", cookiesBody)
}

// Terms renders the terms and conditions.
func (p *Pages) Terms() errorpage.HandlerFunc {
	return p.page("terms-and-conditions", "terms.title", termsBody)
}

func (p *Pages) page(template, titleKey string, body templ.Component) errorpage.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		if p.waiter != nil {
			if _, err := p.waiter.Wait(r.Context(), p.timeout); err != nil {
				if errors.Is(err, i18n.ErrNotReady) {
					return errors.Join(errorpage.ErrServiceUnavailable, err)
				}
				return err
			}
		}

		content := body
		if p.renderer != nil && p.renderer.Has(template) {
			content = p.renderer.Component(template, view.LocalsFrom(r.Context()))
		}
		title := view.T(r.Context(), titleKey)
		return view.Render(w, r, http.StatusOK, view.Page(p.layout, title, content))
	}
}

var cookiesBody = templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
	prefs := consent.FromContext(ctx)
	yes, no := "", " checked"
	if prefs.Analytics {
		yes, no = " checked", ""
	}
	_, err := fmt.Fprintf(w,
		`<h1>%s</h1><p>%s</p><h2>%s</h2><p>%s</p>`+
			`<form method="post" action="%s">`+
			`<label><input type="radio" name="%s" value="yes"%s> %s</label>`+
			`<label><input type="radio" name="%s" value="no"%s> %s</label>`+
			`<button type="submit">%s</button></form>`,
		esc(ctx, "cookies.title"), esc(ctx, "cookies.intro"),
		esc(ctx, "cookies.analytics.title"), esc(ctx, "cookies.analytics.description"),
		consent.Path,
		consent.Field, yes, esc(ctx, "cookies.analytics.accept"),
		consent.Field, no, esc(ctx, "cookies.analytics.reject"),
		esc(ctx, "cookies.save"),
	)
	return err
})

var termsBody = templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
	_, err := fmt.Fprintf(w, `<h1>%s</h1><p>%s</p>`, esc(ctx, "terms.title"), esc(ctx, "terms.body"))
	return err
})

func esc(ctx context.Context, key string) string {
	return templ.EscapeString(view.T(ctx, key))
}
