// Package cartcookie centralizes the cart identifier cookie.
package cartcookie

import (
	"net/http"
	"strings"

	"github.com/nikolayk812/storefront/internal/port"
)

// Name is the canonical cart cookie name.
const Name = "cartId"

// Read returns the trimmed cart id cookie value when present.
func Read(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(Name)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

// Write sets the cart id cookie. It has no expiry and lives as long as the
// browser session.
func Write(w http.ResponseWriter, cartID string, secure bool) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    strings.TrimSpace(cartID),
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the cart id cookie.
func Clear(w http.ResponseWriter, secure bool) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// Store exposes the cookie of a single request as a port.CartIDStore.
// Values set during the request are returned by later Get calls.
type Store struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool

	written bool
	value   string
}

var _ port.CartIDStore = (*Store)(nil)

func NewStore(w http.ResponseWriter, r *http.Request, secure bool) *Store {
	return &Store{w: w, r: r, secure: secure}
}

func (s *Store) Get() (string, bool) {
	if s.written {
		return s.value, s.value != ""
	}
	return Read(s.r)
}

func (s *Store) Set(cartID string) {
	s.written = true
	s.value = strings.TrimSpace(cartID)
	Write(s.w, s.value, s.secure)
}

func (s *Store) Clear() {
	s.written = true
	s.value = ""
	Clear(s.w, s.secure)
}
