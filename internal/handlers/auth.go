package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/maculado/companion/internal/auth"
	"github.com/maculado/companion/internal/services"
	"github.com/maculado/companion/internal/validation"
	"github.com/maculado/companion/internal/view"
)

type AuthHandler struct {
	identity *services.IdentityService
}

func NewAuthHandler(identity *services.IdentityService) *AuthHandler {
	return &AuthHandler{identity: identity}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		render(w, r, "login.html", map[string]any{})
		return
	}

	login := r.FormValue("login")
	password := r.FormValue("password")

	_, err := h.identity.Authenticate(r.Context(), login, password)
	if err != nil {
		// Same message for unknown login and wrong password.
		if !errors.Is(err, services.ErrInvalidCredentials) {
			log.Printf("authenticate: %v", err)
		}
		render(w, r, "login.html", map[string]any{"Error": "login_failed", "Login": login})
		return
	}

	auth.CreateSession(w, login)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		render(w, r, "signup.html", map[string]any{})
		return
	}

	fullName := r.FormValue("full_name")
	login := r.FormValue("login")
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	v := make(validation.Violations)
	validation.Required("full_name", fullName, v)
	validation.Required("login", login, v)
	validation.Required("password", password, v)
	validation.Required("confirm_password", confirm, v)
	if v.Empty() && password != confirm {
		v["confirm_password"] = "password_mismatch"
	}
	if !v.Empty() {
		render(w, r, "signup.html", map[string]any{
			"Errors":   v,
			"FullName": fullName,
			"Login":    login,
		})
		return
	}

	if err := h.identity.CreateUser(r.Context(), fullName, login, password); err != nil {
		if errors.Is(err, services.ErrDuplicateLogin) {
			render(w, r, "signup.html", map[string]any{
				"Error":    "duplicate_login",
				"FullName": fullName,
				"Login":    login,
			})
			return
		}
		log.Printf("create user: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	render(w, r, "login.html", map[string]any{"Notice": "signup_ok", "Login": login})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// render wraps view.Render with uniform error handling for this package.
func render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if err := view.Render(w, r, name, data); err != nil {
		log.Printf("render %s: %v", name, err)
		http.Error(w, "failed to render template", http.StatusInternalServerError)
	}
}
