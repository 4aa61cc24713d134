package view

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

// Layout wraps page content in a document shell.
type Layout func(title string, content templ.Component) templ.Component

// Bare renders content without a shell.
func Bare(_ string, content templ.Component) templ.Component { return content }

// Page is a titled component rendered inside a layout.
func Page(layout Layout, title string, content templ.Component) templ.Component {
	if layout == nil {
		layout = Bare
	}
	return layout(title, content)
}

// Render writes c with the given status. The component is rendered into a
// buffer first so a failing render does not leave a partial response.
func Render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) error {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Text is a component writing escaped text.
func Text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}
