package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"
)

const csrfCookie = "csrf_token"

// CSRFField is the form field name templates embed the token under.
const CSRFField = "csrf_token"

// EnsureCSRF returns the visitor's CSRF token, issuing a cookie first if
// none exists yet (double-submit pattern, works for anonymous visitors).
func EnsureCSRF(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(csrfCookie); err == nil && c.Value != "" {
		return c.Value
	}
	token := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

// CheckCSRF verifies that the submitted form token matches the cookie.
// Every mutating POST must pass this before any other work.
func CheckCSRF(r *http.Request) bool {
	c, err := r.Cookie(csrfCookie)
	if err != nil || c.Value == "" {
		return false
	}
	// The token must arrive in the POST body; a query parameter would let
	// a crafted link satisfy the check.
	field := r.PostFormValue(CSRFField)
	if field == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.Value), []byte(field)) == 1
}
