// Package handlers implements the travel diary's HTTP surface: page handlers,
// the authentication gate, request middleware and the router that ties them
// together.
package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/travel-diary/app/internal/auth"
	"github.com/travel-diary/app/internal/database"
)

// Handler carries the dependencies shared by all page handlers.
type Handler struct {
	db        *database.DB
	sessions  *auth.SessionManager
	templates *Templates
	log       logrus.FieldLogger
}

// NewHandler wires the handlers to their collaborators.
func NewHandler(db *database.DB, sessions *auth.SessionManager, templates *Templates, log logrus.FieldLogger) *Handler {
	return &Handler{
		db:        db,
		sessions:  sessions,
		templates: templates,
		log:       log,
	}
}

// currentUser returns the logged-in identity, or nil for anonymous visitors.
// Protected routes find it in the context; public pages read the cookie.
func (h *Handler) currentUser(r *http.Request) *auth.Identity {
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		return &id
	}
	id, err := h.sessions.Identity(r)
	if err != nil {
		return nil
	}
	return &id
}

// requestLog returns a logger annotated with the request's fields.
func (h *Handler) requestLog(r *http.Request) logrus.FieldLogger {
	fields := logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}
	if id := requestIDFromContext(r.Context()); id != "" {
		fields["request_id"] = id
	}
	return h.log.WithFields(fields)
}
