package models

// User represents a registered diary author.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
}
