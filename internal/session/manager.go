package session

import (
	"net/http"
	"time"
)

// MaxAge is the sealed cookie's fixed lifetime.
const MaxAge = 7 * 24 * time.Hour

// Manager reads and writes the sealed session cookie.
type Manager struct {
	sealer     *Sealer
	cookieName string
	secure     bool
}

func NewManager(secret, cookieName string, secure bool) (*Manager, error) {
	sealer, err := NewSealer(secret, MaxAge)
	if err != nil {
		return nil, err
	}
	return &Manager{
		sealer:     sealer,
		cookieName: cookieName,
		secure:     secure,
	}, nil
}

// Load returns the record sealed in r's cookie. A missing, tampered or
// expired cookie yields the anonymous record; Load never fails.
func (m *Manager) Load(r *http.Request) Record {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return Anonymous()
	}
	rec, err := m.sealer.Unseal(c.Value)
	if err != nil {
		return Anonymous()
	}
	return rec
}

// Save seals rec into the response cookie.
func (m *Manager) Save(w http.ResponseWriter, rec Record) error {
	value, err := m.sealer.Seal(rec)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Destroy removes the cookie outright rather than marking it logged out.
func (m *Manager) Destroy(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// CookieName exposes the configured cookie name for the route guard.
func (m *Manager) CookieName() string {
	return m.cookieName
}
