package handlers

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"
)

const flashCookie = "flash"

// Flash is a one-shot categorized message shown on the next rendered page.
// Categories map to alert styles: success, danger, warning.
type Flash struct {
	Category string
	Message  string
}

// setFlash queues a flash message for the next request (redirect-then-render).
func setFlash(w http.ResponseWriter, category, message string) {
	v := base64.RawURLEncoding.EncodeToString([]byte(category + "|" + message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    v,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the pending flash message, if any.
func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
	})
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	category, message, found := strings.Cut(string(raw), "|")
	if !found {
		return nil
	}
	return &Flash{Category: category, Message: message}
}
