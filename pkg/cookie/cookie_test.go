package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bootstrap/pkg/cookie"
)

const (
	secret1 = "0123456789abcdef0123456789abcdef"
	secret2 = "fedcba9876543210fedcba9876543210"
)

// roundTrip copies cookies written to rec into a new request.
func roundTrip(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := cookie.New(nil)
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	_, err = cookie.New([]string{"", ""})
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	_, err = cookie.New([]string{"short"})
	assert.ErrorIs(t, err, cookie.ErrSecretTooShort)

	m, err := cookie.New([]string{secret1})
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestGenerateSecret(t *testing.T) {
	t.Parallel()

	s, err := cookie.GenerateSecret()
	require.NoError(t, err)
	_, err = cookie.New([]string{s})
	assert.NoError(t, err)
}

func TestManager(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secret1})
	require.NoError(t, err)

	t.Run("plain", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, m.Set(rec, "plain", "v"))
		got, err := m.Get(roundTrip(rec), "plain")
		require.NoError(t, err)
		assert.Equal(t, "v", got)

		c := rec.Result().Cookies()[0]
		assert.True(t, c.HttpOnly)
		assert.Equal(t, "/", c.Path)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		_, err := m.Get(httptest.NewRequest(http.MethodGet, "/", nil), "nope")
		assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
	})

	t.Run("signed detects tampering", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(rec, "s", "hello"))
		got, err := m.GetSigned(roundTrip(rec), "s")
		require.NoError(t, err)
		assert.Equal(t, "hello", got)

		value := rec.Result().Cookies()[0].Value
		encoded, sig, _ := strings.Cut(value, "|")
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "s", Value: encoded + "x|" + sig})
		_, err = m.GetSigned(req, "s")
		assert.Error(t, err)
	})

	t.Run("encrypted", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetEncrypted(rec, "e", "secret value"))
		assert.NotContains(t, rec.Result().Cookies()[0].Value, "secret")

		got, err := m.GetEncrypted(roundTrip(rec), "e")
		require.NoError(t, err)
		assert.Equal(t, "secret value", got)
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		type pref struct {
			Analytics bool `json:"analytics"`
		}
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetJSON(rec, "j", pref{Analytics: true}))

		var got pref
		require.NoError(t, m.GetJSON(roundTrip(rec), "j", &got))
		assert.True(t, got.Analytics)
	})

	t.Run("delete expires cookie", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		m.Delete(rec, "gone")
		c := rec.Result().Cookies()[0]
		assert.Equal(t, "gone", c.Name)
		assert.Equal(t, -1, c.MaxAge)
	})
}

func TestSecretRotation(t *testing.T) {
	t.Parallel()

	old, err := cookie.New([]string{secret1})
	require.NoError(t, err)
	rotated, err := cookie.New([]string{secret2, secret1})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, old.SetSigned(rec, "s", "v"))
	require.NoError(t, old.SetEncrypted(rec, "e", "v"))
	req := roundTrip(rec)

	got, err := rotated.GetSigned(req, "s")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	got, err = rotated.GetEncrypted(req, "e")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	fresh, err := cookie.New([]string{secret2})
	require.NoError(t, err)
	_, err = fresh.GetSigned(req, "s")
	assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	_, err = fresh.GetEncrypted(req, "e")
	assert.ErrorIs(t, err, cookie.ErrDecryptionFailed)
}
