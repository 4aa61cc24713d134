package consent_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bootstrap/pkg/consent"
	"github.com/dmitrymomot/bootstrap/pkg/cookie"
	"github.com/dmitrymomot/bootstrap/pkg/errorpage"
	"github.com/dmitrymomot/bootstrap/pkg/view"
)

func newManager(t *testing.T) *consent.Manager {
	t.Helper()
	cookies, err := cookie.New([]string{strings.Repeat("s", 32)})
	require.NoError(t, err)
	return consent.New(cookies)
}

func post(value, referer string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "http://example.com/cookies",
		strings.NewReader(url.Values{consent.Field: {value}}.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if referer != "" {
		r.Header.Set("Referer", referer)
	}
	return r
}

func TestSubmit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		referer   string
		location  string
		analytics bool
	}{
		{"accept", "yes", "http://example.com/apply/name?x=1", "/apply/name?x=1", true},
		{"reject", "no", "", "/cookies", false},
		{"foreign referer", "yes", "http://evil.test/phish", "/cookies", true},
		{"protocol-relative path", "yes", "http://example.com//evil.test/phish", "/cookies", true},
		{"backslash path", "no", "http://example.com/%5Cevil.test/phish", "/cookies", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := newManager(t)

			w := httptest.NewRecorder()
			require.NoError(t, m.Submit(w, post(tt.value, tt.referer)))
			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			for _, c := range w.Result().Cookies() {
				r.AddCookie(c)
			}
			p := m.Get(r)
			assert.True(t, p.Decided())
			assert.Equal(t, tt.analytics, p.Analytics)
		})
	}

	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()
		err := newManager(t).Submit(httptest.NewRecorder(), post("maybe", ""))
		assert.ErrorIs(t, err, errorpage.ErrBadRequest)
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	var banner any
	h := m.Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		banner = view.LocalsFrom(r.Context())["cookieBanner"]
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, true, banner)

	w := httptest.NewRecorder()
	require.NoError(t, m.Submit(w, post("no", "")))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, false, banner)

	t.Run("tampered cookie is undecided", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: consent.CookieName, Value: "e30=|bad"})
		assert.False(t, m.Get(r).Decided())
	})
}
