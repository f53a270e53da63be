package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/travel-diary/app/internal/models"
)

const tourSelect = `
	SELECT t.id, t.user_id, t.title, t.cost,
		COALESCE(t.places, ''), COALESCE(t.heritage_places, ''),
		COALESCE(t.date_from, ''), COALESCE(t.date_to, ''),
		u.login
	FROM tours t
	JOIN users u ON t.user_id = u.id`

// CreateTour inserts a new tour and returns it as stored. Text fields are
// written as supplied; an empty cost is stored as NULL.
func CreateTour(ctx context.Context, db *DB, tour *models.NewTour) (*models.Tour, error) {
	var id int64
	err := db.QueryRowContext(ctx, db.rebind(`
		INSERT INTO tours (user_id, title, cost, places, heritage_places, date_from, date_to)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		tour.UserID, tour.Title, tour.Cost,
		tour.Places, tour.HeritagePlaces, tour.DateFrom, tour.DateTo,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert tour: %w", err)
	}

	return GetTourByID(ctx, db, id)
}

// GetTourByID retrieves a tour together with its owner's login.
func GetTourByID(ctx context.Context, db *DB, id int64) (*models.Tour, error) {
	row := db.QueryRowContext(ctx, db.rebind(tourSelect+" WHERE t.id = ?"), id)
	tour, err := scanTour(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select tour: %w", err)
	}
	return tour, nil
}

// GetAllTours retrieves every tour, newest first.
func GetAllTours(ctx context.Context, db *DB) ([]*models.Tour, error) {
	return queryTours(ctx, db, tourSelect+" ORDER BY t.id DESC")
}

// GetToursByUser retrieves the tours owned by userID, newest first.
func GetToursByUser(ctx context.Context, db *DB, userID int64) ([]*models.Tour, error) {
	return queryTours(ctx, db, tourSelect+" WHERE t.user_id = ? ORDER BY t.id DESC", userID)
}

func queryTours(ctx context.Context, db *DB, query string, args ...any) ([]*models.Tour, error) {
	rows, err := db.QueryContext(ctx, db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("select tours: %w", err)
	}
	defer rows.Close()

	var tours []*models.Tour
	for rows.Next() {
		tour, err := scanTour(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tour: %w", err)
		}
		tours = append(tours, tour)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tours: %w", err)
	}

	return tours, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTour(row rowScanner) (*models.Tour, error) {
	tour := &models.Tour{}
	err := row.Scan(&tour.ID, &tour.UserID, &tour.Title, &tour.Cost,
		&tour.Places, &tour.HeritagePlaces, &tour.DateFrom, &tour.DateTo,
		&tour.OwnerLogin)
	if err != nil {
		return nil, err
	}
	return tour, nil
}
