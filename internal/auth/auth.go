package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"bedrift/internal/db"
	"bedrift/internal/models"
)

const sessionCookie = "bedrift_session"

// Manager issues and resolves cookie sessions backed by the sessions table.
// Cookie values are "token.signature" where the signature is an HMAC over
// the token with the configured secret, so a forged token is rejected
// before it ever reaches the database.
type Manager struct {
	db          *sql.DB
	secret      []byte
	maxAge      time.Duration
	rememberAge time.Duration
}

func NewManager(dbc *sql.DB, secret string, maxAge, rememberAge time.Duration) *Manager {
	return &Manager{db: dbc, secret: []byte(secret), maxAge: maxAge, rememberAge: rememberAge}
}

// Create starts a session for userID. With remember the cookie persists
// for the extended lifetime; otherwise it is a browser-session cookie and
// the server-side row expires after the default lifetime.
func (m *Manager) Create(w http.ResponseWriter, userID int64, remember bool) error {
	id := uuid.New().String()
	age := m.maxAge
	if remember {
		age = m.rememberAge
	}
	expires := time.Now().Add(age)

	_, err := m.db.Exec(`INSERT INTO sessions(id,user_id,expires_at) VALUES(?,?,?)`, id, userID, expires)
	if err != nil {
		return err
	}
	c := &http.Cookie{
		Name:     sessionCookie,
		Value:    id + "." + m.sign(id),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		c.Expires = expires
	}
	http.SetCookie(w, c)
	return nil
}

// Destroy ends the current session if any and clears the cookie. Safe to
// call for anonymous visitors and safe to call twice.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) {
	if id, ok := m.cookieToken(r); ok {
		m.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
	})
}

// CurrentUser resolves the request's session to a live user. A missing,
// forged, or expired token and a deleted user all degrade to anonymous;
// this never returns an error.
func (m *Manager) CurrentUser(r *http.Request) (*models.User, bool) {
	id, ok := m.cookieToken(r)
	if !ok {
		return nil, false
	}
	var uid int64
	var exp time.Time
	err := m.db.QueryRow(`SELECT user_id, expires_at FROM sessions WHERE id = ?`, id).Scan(&uid, &exp)
	if err != nil || time.Now().After(exp) {
		return nil, false
	}
	u, err := db.GetUserByID(m.db, uid)
	if err != nil {
		return nil, false
	}
	return u, true
}

// cookieToken extracts and verifies the session token from the cookie.
func (m *Manager) cookieToken(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return "", false
	}
	token, sig, found := strings.Cut(c.Value, ".")
	if !found || token == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(m.sign(token))) {
		return "", false
	}
	return token, true
}

func (m *Manager) sign(token string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
