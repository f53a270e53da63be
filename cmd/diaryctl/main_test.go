package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travel-diary/app/internal/auth"
	"github.com/travel-diary/app/internal/database"
)

func setupDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.InitDB(context.Background(), database.DriverSQLite, ":memory:?_foreign_keys=on", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func staticPassword(pw string) func(string) (string, error) {
	return func(string) (string, error) { return pw, nil }
}

func TestAddUser(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	var out bytes.Buffer

	require.NoError(t, addUser(ctx, db, " alice ", staticPassword("pw123"), &out))
	assert.Contains(t, out.String(), "created user alice")

	user, err := database.GetUserByLogin(ctx, db, "alice")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "pw123"))

	err = addUser(ctx, db, "alice", staticPassword("again"), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAddUser_Invalid(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	var out bytes.Buffer

	assert.Error(t, addUser(ctx, db, "", staticPassword("pw"), &out))
	assert.Error(t, addUser(ctx, db, "bob", staticPassword(""), &out))
	assert.Error(t, addUser(ctx, db, "bob", func(string) (string, error) { return "", errors.New("eof") }, &out))

	_, err := database.GetUserByLogin(ctx, db, "bob")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestMigrate(t *testing.T) {
	db := setupDB(t)
	var out bytes.Buffer

	require.NoError(t, migrate(context.Background(), db, &out))
	assert.Equal(t, "schema is at version 1\n", out.String())
}

func TestPasswordReader_Piped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pw")
	require.NoError(t, os.WriteFile(path, []byte("s3cret\n"), 0o600))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	pw, err := passwordReader(f, &bytes.Buffer{})("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)
}
