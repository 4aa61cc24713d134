package errorpage

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// Params is the data passed to an error page.
type Params struct {
	StatusCode int
	Title      string
	Message    string
	RequestID  string
	// Detail is only set in debug mode.
	Detail string
}

// DefaultPage renders a minimal error body.
func DefaultPage(p Params) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var err error
		write := func(s string) {
			if err == nil {
				_, err = io.WriteString(w, s)
			}
		}
		write(`<main class="error-page" data-status="` + strconv.Itoa(p.StatusCode) + `">`)
		write(`<h1>` + templ.EscapeString(p.Title) + `</h1>`)
		if p.Message != "" {
			write(`<p>` + templ.EscapeString(p.Message) + `</p>`)
		}
		if p.RequestID != "" {
			write(`<p class="request-id">` + templ.EscapeString(p.RequestID) + `</p>`)
		}
		if p.Detail != "" {
			write(`<pre class="error-detail">` + templ.EscapeString(p.Detail) + `</pre>`)
		}
		write(`</main>`)
		return err
	})
}
