package handlers

import (
	"database/sql"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"bedrift/internal/auth"
)

const companyName = "Bedrift AS"

type Handler struct {
	db       *sql.DB
	sessions *auth.Manager
	tpls     *template.Template
	log      *logrus.Logger
	admins   map[string]bool
}

func New(dbc *sql.DB, sessions *auth.Manager, log *logrus.Logger, tplDir string, adminEmails []string) *Handler {
	tpls := template.Must(template.ParseGlob(filepath.Join(tplDir, "*.html")))
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return &Handler{db: dbc, sessions: sessions, tpls: tpls, log: log, admins: admins}
}

func (h *Handler) isAdminEmail(email string) bool {
	return h.admins[strings.ToLower(email)]
}

// render executes a named page template with the site context built fresh
// for this request: company name, active navigation tab, current user,
// pending flash, CSRF token. Nothing here is shared between requests.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, name, tab string, data map[string]any) {
	h.renderStatus(w, r, http.StatusOK, name, tab, data)
}

func (h *Handler) renderStatus(w http.ResponseWriter, r *http.Request, status int, name, tab string, data map[string]any) {
	user, logged := h.sessions.CurrentUser(r)
	csrf := auth.EnsureCSRF(w, r)

	ctx := map[string]any{
		"Company": companyName,
		"Active":  tab,
		"User":    user,
		"Logged":  logged,
		"CSRF":    csrf,
		// Always present so form templates can index them unconditionally.
		"Errors": map[string][]string{},
		"Values": map[string]string{},
	}
	if _, ok := data["Flash"]; !ok {
		if f := popFlash(w, r); f != nil {
			ctx["Flash"] = f
		}
	}
	for k, v := range data {
		ctx[k] = v
	}
	// Cookies are set above; the status must go out before the body.
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.tpls.ExecuteTemplate(w, name, ctx); err != nil {
		h.log.WithError(err).WithField("template", name).Error("render failed")
	}
}

// renderError writes an error page with the given status. Internal detail
// never reaches the visitor; it is logged instead.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	h.renderStatus(w, r, status, "error", "", map[string]any{
		"Title":   title,
		"Message": message,
	})
}

// serverError logs the cause and renders a generic 500 page.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error("internal error")
	h.renderError(w, r, http.StatusInternalServerError, "Noe gikk galt", "Prøv igjen senere.")
}
