package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/travel-diary/app/internal/auth"
	"github.com/travel-diary/app/internal/database"
)

const (
	msgCredentialsRequired = "Login and password are required."
	msgLoginTaken          = "A user with this login already exists."
	msgRegistered          = "Registration successful. Please log in."
	msgInvalidCredentials  = "Invalid login or password."
)

// RegisterPage renders the user registration page.
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "auth/register.html", &templateData{Title: "Register"})
}

// Register handles the registration form submission.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	login := strings.TrimSpace(r.PostFormValue("login"))
	password := r.PostFormValue("password")

	formError := func(message string) {
		h.render(w, r, http.StatusOK, "auth/register.html", &templateData{
			Title: "Register",
			Error: message,
			Form:  map[string]string{"login": login},
		})
	}

	if login == "" || password == "" {
		formError(msgCredentialsRequired)
		return
	}

	user, err := database.CreateUser(r.Context(), h.db, login, password)
	if err != nil {
		if errors.Is(err, database.ErrLoginTaken) {
			formError(msgLoginTaken)
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.requestLog(r).WithField("user_id", user.ID).Info("user registered")
	setFlash(w, r, msgRegistered)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// LoginPage renders the user login page.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "auth/login.html", &templateData{Title: "Log in"})
}

// Login handles the login form submission. Unknown login and wrong password
// produce the same response.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	login := strings.TrimSpace(r.PostFormValue("login"))
	password := r.PostFormValue("password")

	invalid := func() {
		h.render(w, r, http.StatusOK, "auth/login.html", &templateData{
			Title: "Log in",
			Error: msgInvalidCredentials,
		})
	}

	if login == "" || password == "" {
		invalid()
		return
	}

	user, err := database.GetUserByLogin(r.Context(), h.db, login)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			auth.CheckPasswordDecoy(password)
			invalid()
			return
		}
		h.serverError(w, r, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		invalid()
		return
	}

	if err := h.sessions.Issue(w, r, auth.Identity{UserID: user.ID, Login: user.Login}); err != nil {
		h.serverError(w, r, err)
		return
	}

	h.requestLog(r).WithField("user_id", user.ID).Info("user logged in")
	http.Redirect(w, r, "/my_tours", http.StatusSeeOther)
}

// Logout clears the session. Mounted behind RequireAuth.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// RequireAuth protects routes that need a logged-in user. Requests without a
// valid session are redirected to /login and next is not called.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := h.sessions.Identity(r)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidSession) {
				h.requestLog(r).WithError(err).Debug("discarding invalid session")
				h.sessions.Clear(w, r)
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	})
}
