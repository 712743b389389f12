package cartid

import (
	"net/http"
	"time"
)

// CookieName is the fixed key under which the cart identifier is
// persisted in the shopper's browser.
const CookieName = "storefront_cart_id"

const cookieMaxAge = 30 * 24 * time.Hour

// CookieStore keeps the cart identifier in a long-lived, HTTP-only
// cookie, bound to one request/response pair. All surfaces of the same
// browser (cart page, slide-over panel) read the same cookie, which is
// the server-side analogue of origin-scoped client storage.
//
// The identifier is read once when the store is created; Set and Clear
// take effect on the response. Two concurrent first-visit requests can
// therefore each create a remote cart, with the last response winning.
// That is accepted: subsequent requests operate correctly against
// whichever identifier the browser kept.
type CookieStore struct {
	w      http.ResponseWriter
	id     string
	secure bool
}

// NewCookieStore reads the persisted identifier out of r and arranges
// for writes to land on w.
func NewCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	s := &CookieStore{w: w, secure: secure}
	if c, err := r.Cookie(CookieName); err == nil {
		s.id = c.Value
	}
	return s
}

func (s *CookieStore) Get() (string, bool) {
	return s.id, s.id != ""
}

func (s *CookieStore) Set(id string) {
	if id == "" || s.w == nil {
		return
	}
	s.id = id
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *CookieStore) Clear() {
	s.id = ""
	if s.w == nil {
		return
	}
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
