package theme

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/bootstrap/pkg/view"
)

// BasicName is the name of the built-in theme.
const BasicName = "basic"

// Locals read by the basic layout to decide which page links to render.
const (
	LocalCookiesPage = "cookiesPage"
	LocalTermsPage   = "termsPage"
)

//go:embed basic/assets basic/views
var basicFS embed.FS

// Basic returns the built-in theme: a plain HTML shell with a cookie banner
// and links to the cookies and terms pages when they are mounted.
func Basic() *Theme {
	assets, _ := fs.Sub(basicFS, "basic/assets")
	views, _ := fs.Sub(basicFS, "basic/views")
	return &Theme{
		Name:   BasicName,
		Layout: basicLayout,
		Assets: assets,
		Views:  views,
	}
}

func basicLayout(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		locals := view.LocalsFrom(ctx)
		lang, _ := locals["lang"].(string)
		if lang == "" {
			lang = "en"
		}
		appName, _ := locals["appName"].(string)

		docTitle := appName
		if title != "" && appName != "" {
			docTitle = title + " - " + appName
		} else if title != "" {
			docTitle = title
		}

		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="%s"><head><meta charset="utf-8">`+
				`<meta name="viewport" content="width=device-width, initial-scale=1">`+
				`<title>%s</title><link rel="stylesheet" href="/public/basic.css"></head><body>`,
			templ.EscapeString(lang), templ.EscapeString(docTitle),
		); err != nil {
			return err
		}

		cookiesPage, _ := locals[LocalCookiesPage].(bool)
		if banner, _ := locals["cookieBanner"].(bool); banner {
			if err := cookieBanner(ctx, w, cookiesPage); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, `<header><a href="/">%s</a></header><main>`, templ.EscapeString(appName)); err != nil {
			return err
		}
		if err := content.Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</main><footer>`); err != nil {
			return err
		}
		if cookiesPage {
			if _, err := fmt.Fprintf(w, `<a href="/cookies">%s</a>`, templ.EscapeString(view.T(ctx, "footer.cookies"))); err != nil {
				return err
			}
		}
		if termsPage, _ := locals[LocalTermsPage].(bool); termsPage {
			if _, err := fmt.Fprintf(w, `<a href="/terms-and-conditions">%s</a>`, templ.EscapeString(view.T(ctx, "footer.terms"))); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</footer></body></html>`)
		return err
	})
}

func cookieBanner(ctx context.Context, w io.Writer, settingsLink bool) error {
	_, err := fmt.Fprintf(w,
		`<div class="cookie-banner" role="region"><p>%s</p>`+
			`<form method="post" action="/cookies"><input type="hidden" name="analytics" value="yes"><button type="submit">%s</button></form>`+
			`<form method="post" action="/cookies"><input type="hidden" name="analytics" value="no"><button type="submit">%s</button></form>`,
		templ.EscapeString(view.T(ctx, "cookies.banner.message")),
		templ.EscapeString(view.T(ctx, "cookies.banner.accept")),
		templ.EscapeString(view.T(ctx, "cookies.banner.reject")),
	)
	if err != nil {
		return err
	}
	if settingsLink {
		if _, err := fmt.Fprintf(w, `<a href="/cookies">%s</a>`, templ.EscapeString(view.T(ctx, "cookies.banner.settings"))); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, `</div>`)
	return err
}
