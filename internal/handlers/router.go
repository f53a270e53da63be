package handlers

import (
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter mounts every route of the application. static is served under
// /static/ and may be nil.
func NewRouter(h *Handler, static fs.FS) http.Handler {
	r := mux.NewRouter()
	r.Use(RequestLogger(h.log), Recoverer(h.log))

	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(h.MethodNotAllowed)

	if static != nil {
		r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}

	r.Handle("/", http.RedirectHandler("/tours", http.StatusSeeOther)).Methods(http.MethodGet)

	// Authentication
	r.HandleFunc("/register", h.RegisterPage).Methods(http.MethodGet)
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", h.LoginPage).Methods(http.MethodGet)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.Handle("/logout", h.RequireAuth(http.HandlerFunc(h.Logout))).Methods(http.MethodGet)

	// Tours
	r.HandleFunc("/tours", h.ToursListPage).Methods(http.MethodGet)
	r.Handle("/my_tours", h.RequireAuth(http.HandlerFunc(h.MyToursPage))).Methods(http.MethodGet)
	r.Handle("/tours/new", h.RequireAuth(http.HandlerFunc(h.NewTourPage))).Methods(http.MethodGet)
	r.Handle("/tours/new", h.RequireAuth(http.HandlerFunc(h.CreateTour))).Methods(http.MethodPost)
	r.HandleFunc("/tours/{id:[0-9]+}", h.TourDetailPage).Methods(http.MethodGet)

	return r
}
