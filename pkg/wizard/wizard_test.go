package wizard_test

import (
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bootstrap/pkg/cookie"
	"github.com/dmitrymomot/bootstrap/pkg/errorpage"
	"github.com/dmitrymomot/bootstrap/pkg/session"
	"github.com/dmitrymomot/bootstrap/pkg/view"
	"github.com/dmitrymomot/bootstrap/pkg/wizard"
)

var views = fstest.MapFS{
	"index.html": {Data: []byte(`<form action="{{.Action}}">{{.T "start.title"}}</form>`)},
	"name.html":  {Data: []byte(`name={{index .Values "name"}} route={{.Route}}`)},
	"done.html":  {Data: []byte(`done`)},
}

func newSessions(t *testing.T) *session.Manager {
	t.Helper()
	cookies, err := cookie.New([]string{"0123456789abcdef0123456789abcdef"})
	require.NoError(t, err)
	m, err := session.New(session.WithCookieManager(cookies))
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func newRouter(t *testing.T, route wizard.Route, sessions *session.Manager) http.Handler {
	t.Helper()
	wz, err := wizard.New(route, wizard.Config{
		Renderer: view.NewRenderer([]fs.FS{views}),
		Sessions: sessions,
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	wz.Register(r)
	return errorpage.New().Middleware(r)
}

func TestStepDefaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "index", wizard.Step{Path: "/"}.TemplateName())
	assert.Equal(t, "name", wizard.Step{Path: "/name/"}.TemplateName())
	assert.Equal(t, "custom", wizard.Step{Path: "/x", Template: "custom"}.TemplateName())

	assert.Equal(t, "/", wizard.Route{}.Base())
	assert.Equal(t, "/apply", wizard.Route{BaseURL: "apply/"}.Base())
	assert.Equal(t, "apply", wizard.Route{Name: "apply", BaseURL: "/x"}.Key())
	assert.Equal(t, "/x", wizard.Route{BaseURL: "/x"}.Key())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	err := wizard.Route{BaseURL: "/empty"}.Validate()
	require.ErrorIs(t, err, wizard.ErrNoSteps)
	assert.Contains(t, err.Error(), "/empty")

	err = wizard.Route{Steps: []wizard.Step{{Path: "/a"}, {Path: "a"}}}.Validate()
	assert.ErrorIs(t, err, wizard.ErrInvalidStep)

	_, err = wizard.New(wizard.Route{}, wizard.Config{})
	assert.ErrorIs(t, err, wizard.ErrNoSteps)
}

func TestRender(t *testing.T) {
	t.Parallel()

	h := newRouter(t, wizard.Route{
		BaseURL: "/apply",
		Steps:   []wizard.Step{{Path: "/", Next: "name"}, {Path: "/name"}},
	}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/apply", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/apply"`)
	assert.Contains(t, rec.Body.String(), "start.title")
}

func TestSubmitRedirectsAndStoresValues(t *testing.T) {
	t.Parallel()

	sessions := newSessions(t)
	h := newRouter(t, wizard.Route{
		Name:    "apply",
		BaseURL: "/apply",
		Steps:   []wizard.Step{{Path: "/", Next: "name"}, {Path: "/name", Next: "done"}, {Path: "/done"}},
	}, sessions)

	form := url.Values{"name": {"Ada"}}
	req := httptest.NewRequest(http.MethodPost, "/apply", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/apply/name", rec.Header().Get("Location"))

	next := httptest.NewRequest(http.MethodGet, "/apply/name", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, next)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "name=Ada route=apply", rec.Body.String())
}

func TestLastStepRejectsPost(t *testing.T) {
	t.Parallel()

	h := newRouter(t, wizard.Route{Steps: []wizard.Step{{Path: "/done"}}}, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/done", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCustomHandlerErrors(t *testing.T) {
	t.Parallel()

	h := newRouter(t, wizard.Route{Steps: []wizard.Step{{
		Path: "/fail",
		Handler: func(w http.ResponseWriter, r *http.Request) error {
			return errors.Join(errors.New("nope"), errorpage.ErrForbidden)
		},
	}}}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMissingTemplateIsServerError(t *testing.T) {
	t.Parallel()

	h := newRouter(t, wizard.Route{Steps: []wizard.Step{{Path: "/missing"}}}, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPaths(t *testing.T) {
	t.Parallel()

	wz, err := wizard.New(wizard.Route{
		BaseURL: "/a",
		Steps: []wizard.Step{
			{Path: "/", Next: "b"},
			{Path: "/b"},
			{Path: "/c", Handler: func(http.ResponseWriter, *http.Request) error { return nil }},
		},
	}, wizard.Config{})
	require.NoError(t, err)
	assert.Equal(t, []string{"GET /a", "POST /a", "GET /a/b", "* /a/c"}, wz.Paths())
}

