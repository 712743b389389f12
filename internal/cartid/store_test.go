package cartid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	_, ok := s.Get()
	assert.False(t, ok)

	s.Set("cart-1")
	id, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, "cart-1", id)

	s.Set("") // blank writes are ignored
	id, _ = s.Get()
	assert.Equal(t, "cart-1", id)

	s.Clear()
	_, ok = s.Get()
	assert.False(t, ok)
}

func TestCookieStore_ReadsExistingCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "cart-42"})

	s := NewCookieStore(httptest.NewRecorder(), req, false)
	id, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, "cart-42", id)
}

func TestCookieStore_SetWritesLongLivedCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	s := NewCookieStore(rr, req, true)
	s.Set("cart-42")

	id, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, "cart-42", id)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "cart-42", c.Value)
	assert.Equal(t, 30*24*3600, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestCookieStore_ClearExpiresCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "cart-42"})
	rr := httptest.NewRecorder()

	s := NewCookieStore(rr, req, false)
	s.Clear()

	_, ok := s.Get()
	assert.False(t, ok)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestCookieStore_SetIgnoresBlankID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	s := NewCookieStore(rr, req, false)
	s.Set("")

	assert.Empty(t, rr.Result().Cookies())
}
