package handlers

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// WithRecover wraps an http.Handler and recovers from panics, returning a
// generic 500 instead of crashing the server.
func WithRecover(next http.Handler, log *logrus.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithFields(logrus.Fields{
					"panic":  rec,
					"method": r.Method,
					"path":   r.URL.Path,
				}).Error("recovered from panic")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// WithRequestLog logs one line per request with method, path, status and
// duration.
func WithRequestLog(next http.Handler, log *logrus.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   sw.status,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// RequireAdmin gates a handler behind an administrator account. Anonymous
// visitors are sent to the login page; signed-in non-admins get 403.
func (h *Handler) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.sessions.CurrentUser(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if !user.IsAdmin {
			h.renderError(w, r, http.StatusForbidden, "Ingen tilgang", "Denne siden krever administratorrettigheter.")
			return
		}
		next.ServeHTTP(w, r)
	}
}
