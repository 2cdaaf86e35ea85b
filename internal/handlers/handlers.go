package handlers

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"bedrift/internal/auth"
	"bedrift/internal/db"
	"bedrift/internal/forms"
)

// -------- Informational pages

// Index redirects the bare root to /home and catches unknown paths.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "home", "home", nil)
}

func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "products", "products", nil)
}

func (h *Handler) AboutUs(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "aboutus", "aboutus", nil)
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "Ikke funnet", "Siden finnes ikke.")
}

// -------- Admin listings

// Users lists every registered account. Admin only; see RequireAdmin.
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := db.ListUsers(h.db)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "users", "users", map[string]any{"Users": users})
}

// Inquiries lists every contact submission. Admin only.
func (h *Handler) Inquiries(w http.ResponseWriter, r *http.Request) {
	inquiries, err := db.ListInquiries(h.db)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "inquiries", "inquiries", map[string]any{"Inquiries": inquiries})
}

// -------- Register

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessions.CurrentUser(r); ok {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.render(w, r, "register", "register", nil)
		return
	case http.MethodPost:
	default:
		h.renderError(w, r, http.StatusMethodNotAllowed, "Ikke tillatt", "Metoden støttes ikke.")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Ugyldig skjema", "Skjemaet kunne ikke leses.")
		return
	}
	if !auth.CheckCSRF(r) {
		h.renderError(w, r, http.StatusForbidden, "Avvist", "Ugyldig CSRF-token. Last siden på nytt.")
		return
	}

	res := forms.Validate(r.PostForm, forms.Registration())
	if !res.OK() {
		// 200 so the browser keeps the submitted values for correction.
		h.render(w, r, "register", "register", map[string]any{
			"Errors": res.Errors,
			"Values": res.Values,
		})
		return
	}

	username := res.Values["username"]
	email := res.Values["email"]

	// Friendly pre-checks. The UNIQUE constraints remain the safety net
	// for the race between two concurrent registrations.
	if taken, err := h.usernameTaken(username); err != nil {
		h.serverError(w, r, err)
		return
	} else if taken {
		h.renderConflict(w, r, res, "Brukernavnet er allerede i bruk.")
		return
	}
	if taken, err := h.emailTaken(email); err != nil {
		h.serverError(w, r, err)
		return
	} else if taken {
		h.renderConflict(w, r, res, "Eposten er allerede registrert.")
		return
	}

	hash, err := auth.HashPassword(res.Values["password"])
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	user, err := db.CreateUser(h.db, username, email, hash, h.isAdminEmail(email))
	if errors.Is(err, db.ErrDuplicate) {
		// Lost the insert race; same message as the pre-check path.
		h.renderConflict(w, r, res, "Brukernavnet eller eposten er allerede i bruk.")
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	if err := h.sessions.Create(w, user.ID, false); err != nil {
		h.serverError(w, r, err)
		return
	}
	setFlash(w, "success", fmt.Sprintf("Konto opprettet for %s!", username))
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (h *Handler) renderConflict(w http.ResponseWriter, r *http.Request, res forms.Result, msg string) {
	h.render(w, r, "register", "register", map[string]any{
		"Flash":  &Flash{Category: "danger", Message: msg},
		"Values": res.Values,
	})
}

func (h *Handler) usernameTaken(username string) (bool, error) {
	_, err := db.GetUserByUsername(h.db, username)
	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (h *Handler) emailTaken(email string) (bool, error) {
	_, err := db.GetUserByEmail(h.db, email)
	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// -------- Login / Logout

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessions.CurrentUser(r); ok {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.render(w, r, "login", "login", nil)
		return
	case http.MethodPost:
	default:
		h.renderError(w, r, http.StatusMethodNotAllowed, "Ikke tillatt", "Metoden støttes ikke.")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Ugyldig skjema", "Skjemaet kunne ikke leses.")
		return
	}
	if !auth.CheckCSRF(r) {
		h.renderError(w, r, http.StatusForbidden, "Avvist", "Ugyldig CSRF-token. Last siden på nytt.")
		return
	}

	res := forms.Validate(r.PostForm, forms.Login())
	if !res.OK() {
		h.render(w, r, "login", "login", map[string]any{
			"Errors": res.Errors,
			"Values": res.Values,
		})
		return
	}

	// Unknown account and wrong password get the same message so the form
	// does not reveal which emails exist.
	user, err := db.GetUserByEmail(h.db, res.Values["email"])
	if errors.Is(err, db.ErrNotFound) || (err == nil && !auth.CheckPassword(res.Values["password"], user.PasswordHash)) {
		h.render(w, r, "login", "login", map[string]any{
			"Flash":  &Flash{Category: "danger", Message: "Feil epost eller passord."},
			"Values": res.Values,
		})
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	remember := r.PostForm.Get("remember") != ""
	if err := h.sessions.Create(w, user.ID, remember); err != nil {
		h.serverError(w, r, err)
		return
	}
	setFlash(w, "success", fmt.Sprintf("Velkommen tilbake, %s!", user.Username))
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// Logout ends the session. Idempotent; an anonymous visitor is just
// redirected home.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Destroy(w, r)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// -------- Contact

func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.render(w, r, "contact", "contact", nil)
		return
	case http.MethodPost:
	default:
		h.renderError(w, r, http.StatusMethodNotAllowed, "Ikke tillatt", "Metoden støttes ikke.")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Ugyldig skjema", "Skjemaet kunne ikke leses.")
		return
	}
	if !auth.CheckCSRF(r) {
		h.renderError(w, r, http.StatusForbidden, "Avvist", "Ugyldig CSRF-token. Last siden på nytt.")
		return
	}

	res := forms.Validate(r.PostForm, forms.Contact())
	if !res.OK() {
		h.render(w, r, "contact", "contact", map[string]any{
			"Flash":  &Flash{Category: "warning", Message: "Sjekk feltene under."},
			"Errors": res.Errors,
			"Values": res.Values,
		})
		return
	}

	if _, err := db.CreateInquiry(h.db, res.Values["name"], res.Values["email"], res.Values["inquiry"]); err != nil {
		h.serverError(w, r, err)
		return
	}
	setFlash(w, "success", "Takk for din henvendelse!")
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}
