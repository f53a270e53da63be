package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/travel-diary/app/internal/auth"
	"github.com/travel-diary/app/internal/models"
)

// CreateUser hashes the password and inserts a new user.
// It returns ErrLoginTaken when the login is already registered.
func CreateUser(ctx context.Context, db *DB, login, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	var id int64
	err = db.QueryRowContext(ctx,
		db.rebind("INSERT INTO users(login, password_hash) VALUES(?, ?) RETURNING id"),
		login, hash,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrLoginTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &models.User{ID: id, Login: login, PasswordHash: hash}, nil
}

// GetUserByLogin retrieves a user by exact login match.
func GetUserByLogin(ctx context.Context, db *DB, login string) (*models.User, error) {
	return getUser(ctx, db, "SELECT id, login, password_hash FROM users WHERE login = ?", login)
}

// GetUserByID retrieves a user by id.
func GetUserByID(ctx context.Context, db *DB, id int64) (*models.User, error) {
	return getUser(ctx, db, "SELECT id, login, password_hash FROM users WHERE id = ?", id)
}

func getUser(ctx context.Context, db *DB, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := db.QueryRowContext(ctx, db.rebind(query), arg).Scan(&user.ID, &user.Login, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}
