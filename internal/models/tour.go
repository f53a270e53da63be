package models

import "database/sql"

// Tour is a single trip recorded by a user.
type Tour struct {
	ID             int64
	UserID         int64
	Title          string
	Cost           sql.NullFloat64
	Places         string
	HeritagePlaces string
	DateFrom       string
	DateTo         string
	OwnerLogin     string // Filled by queries that join users
}

// NewTour holds the values submitted through the new tour form.
// Empty optional strings are stored as NULL.
type NewTour struct {
	UserID         int64
	Title          string
	Cost           sql.NullFloat64
	Places         string
	HeritagePlaces string
	DateFrom       string
	DateTo         string
}
