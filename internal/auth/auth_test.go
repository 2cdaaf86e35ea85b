package auth

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"bedrift/internal/db"
	"bedrift/internal/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbc, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) error = %v", err)
	}
	if err := db.Migrate(dbc); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	t.Cleanup(func() { dbc.Close() })
	return dbc
}

func createTestUser(t *testing.T, dbc *sql.DB) *models.User {
	t.Helper()
	u, err := db.CreateUser(dbc, "kari", "kari@example.com", "hash", false)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	return u
}

// startSession creates a session and returns the resulting cookie.
func startSession(t *testing.T, m *Manager, userID int64, remember bool) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := m.Create(rec, userID, remember); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestSessionLifecycle(t *testing.T) {
	dbc := setupTestDB(t)
	u := createTestUser(t, dbc)
	m := NewManager(dbc, "test-secret", time.Hour, 24*time.Hour)

	cookie := startSession(t, m, u.ID, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	got, ok := m.CurrentUser(req)
	if !ok {
		t.Fatal("CurrentUser() = anonymous, want authenticated")
	}
	if got.ID != u.ID || got.Username != "kari" {
		t.Errorf("CurrentUser() got = %+v", got)
	}

	rec := httptest.NewRecorder()
	m.Destroy(rec, req)
	if _, ok := m.CurrentUser(req); ok {
		t.Error("CurrentUser() after Destroy should be anonymous")
	}

	// Destroy is idempotent.
	m.Destroy(httptest.NewRecorder(), req)
}

func TestCurrentUserAnonymousCases(t *testing.T) {
	dbc := setupTestDB(t)
	u := createTestUser(t, dbc)
	m := NewManager(dbc, "test-secret", time.Hour, 24*time.Hour)

	t.Run("no cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if _, ok := m.CurrentUser(req); ok {
			t.Error("expected anonymous without cookie")
		}
	})

	t.Run("tampered signature", func(t *testing.T) {
		cookie := startSession(t, m, u.ID, false)
		cookie.Value = cookie.Value[:len(cookie.Value)-1] + "0"
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		if _, ok := m.CurrentUser(req); ok {
			t.Error("expected anonymous with tampered cookie")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewManager(dbc, "other-secret", time.Hour, 24*time.Hour)
		cookie := startSession(t, other, u.ID, false)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		if _, ok := m.CurrentUser(req); ok {
			t.Error("expected anonymous when signed with a different secret")
		}
	})

	t.Run("expired session", func(t *testing.T) {
		short := NewManager(dbc, "test-secret", -time.Minute, 24*time.Hour)
		cookie := startSession(t, short, u.ID, false)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		if _, ok := short.CurrentUser(req); ok {
			t.Error("expected anonymous for expired session")
		}
	})

	t.Run("deleted user", func(t *testing.T) {
		ghost, err := db.CreateUser(dbc, "ghost", "ghost@example.com", "hash", false)
		if err != nil {
			t.Fatal(err)
		}
		cookie := startSession(t, m, ghost.ID, false)
		if _, err := dbc.Exec(`DELETE FROM users WHERE id = ?`, ghost.ID); err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		if _, ok := m.CurrentUser(req); ok {
			t.Error("expected anonymous when the user no longer exists")
		}
	})
}

func TestRememberControlsCookiePersistence(t *testing.T) {
	dbc := setupTestDB(t)
	u := createTestUser(t, dbc)
	m := NewManager(dbc, "test-secret", time.Hour, 24*time.Hour)

	session := startSession(t, m, u.ID, false)
	if !session.Expires.IsZero() {
		t.Errorf("session cookie should have no Expires, got %v", session.Expires)
	}

	remembered := startSession(t, m, u.ID, true)
	if remembered.Expires.IsZero() {
		t.Error("remember cookie should be persistent")
	}
	if time.Until(remembered.Expires) < 23*time.Hour {
		t.Errorf("remember cookie expires too soon: %v", remembered.Expires)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2!")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "hunter2!" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword("hunter2!", hash) {
		t.Error("CheckPassword() with correct password = false")
	}
	if CheckPassword("wrong", hash) {
		t.Error("CheckPassword() with wrong password = true")
	}
}

func TestCSRF(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	token := EnsureCSRF(rec, req)
	if token == "" {
		t.Fatal("EnsureCSRF() returned empty token")
	}

	t.Run("existing cookie reused", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: csrfCookie, Value: token})
		if got := EnsureCSRF(httptest.NewRecorder(), req); got != token {
			t.Errorf("EnsureCSRF() = %q, want %q", got, token)
		}
	})

	t.Run("matching token accepted", func(t *testing.T) {
		req := postWithCSRF(t, token, token)
		if !CheckCSRF(req) {
			t.Error("CheckCSRF() = false for matching token")
		}
	})

	t.Run("mismatched token rejected", func(t *testing.T) {
		req := postWithCSRF(t, token, "forged")
		if CheckCSRF(req) {
			t.Error("CheckCSRF() = true for forged token")
		}
	})

	t.Run("missing cookie rejected", func(t *testing.T) {
		req := postWithCSRF(t, "", token)
		if CheckCSRF(req) {
			t.Error("CheckCSRF() = true without cookie")
		}
	})

	t.Run("token in query string rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/?"+CSRFField+"="+token, strings.NewReader(""))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: csrfCookie, Value: token})
		if CheckCSRF(req) {
			t.Error("CheckCSRF() = true for a token smuggled via the URL")
		}
	})
}

func postWithCSRF(t *testing.T, cookieVal, fieldVal string) *http.Request {
	t.Helper()
	body := url.Values{CSRFField: {fieldVal}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookieVal != "" {
		req.AddCookie(&http.Cookie{Name: csrfCookie, Value: cookieVal})
	}
	return req
}
