package handlers

import (
	"database/sql"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/travel-diary/app/internal/auth"
	"github.com/travel-diary/app/internal/database"
	"github.com/travel-diary/app/internal/models"
)

const (
	msgTitleRequired = "Tour title is required."
	msgCostInvalid   = "Cost must be a number."
)

// tourFormFields are the inputs of the new tour form, in form order.
var tourFormFields = []string{"title", "cost", "places", "heritage_places", "date_from", "date_to"}

// ToursListPage displays every tour with its author.
func (h *Handler) ToursListPage(w http.ResponseWriter, r *http.Request) {
	tours, err := database.GetAllTours(r.Context(), h.db)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "tours/tours_list.html", &templateData{
		Title:     "All tours",
		Tours:     tours,
		ShowOwner: true,
	})
}

// MyToursPage displays the current user's tours. Mounted behind RequireAuth.
func (h *Handler) MyToursPage(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	tours, err := database.GetToursByUser(r.Context(), h.db, id.UserID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "tours/my_tours.html", &templateData{
		Title: "My tours",
		Tours: tours,
	})
}

// NewTourPage renders the form for creating a tour. Mounted behind RequireAuth.
func (h *Handler) NewTourPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "tours/new_tour.html", &templateData{
		Title: "New tour",
		Form:  map[string]string{},
	})
}

// CreateTour handles the new tour form submission. Mounted behind RequireAuth.
func (h *Handler) CreateTour(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	form := make(map[string]string, len(tourFormFields))
	for _, field := range tourFormFields {
		form[field] = r.PostFormValue(field)
	}

	formError := func(message string) {
		h.render(w, r, http.StatusOK, "tours/new_tour.html", &templateData{
			Title: "New tour",
			Error: message,
			Form:  form,
		})
	}

	if form["title"] == "" {
		formError(msgTitleRequired)
		return
	}

	cost, err := parseCost(form["cost"])
	if err != nil {
		formError(msgCostInvalid)
		return
	}

	tour, err := database.CreateTour(r.Context(), h.db, &models.NewTour{
		UserID:         id.UserID,
		Title:          form["title"],
		Cost:           cost,
		Places:         form["places"],
		HeritagePlaces: form["heritage_places"],
		DateFrom:       form["date_from"],
		DateTo:         form["date_to"],
	})
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.requestLog(r).WithFields(logrus.Fields{"user_id": id.UserID, "tour_id": tour.ID}).Info("tour created")
	http.Redirect(w, r, "/my_tours", http.StatusSeeOther)
}

// TourDetailPage displays a single tour. Unknown ids get a plain 404.
func (h *Handler) TourDetailPage(w http.ResponseWriter, r *http.Request) {
	tourID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Tour not found", http.StatusNotFound)
		return
	}

	tour, err := database.GetTourByID(r.Context(), h.db, tourID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			http.Error(w, "Tour not found", http.StatusNotFound)
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "tours/tour_detail.html", &templateData{
		Title: tour.Title,
		Tour:  tour,
	})
}

// parseCost turns the optional cost input into a nullable number.
func parseCost(raw string) (sql.NullFloat64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return sql.NullFloat64{}, nil
	}

	value, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return sql.NullFloat64{}, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return sql.NullFloat64{}, errors.New("cost is not a finite number")
	}
	return sql.NullFloat64{Float64: value, Valid: true}, nil
}
