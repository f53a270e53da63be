// Command diaryctl performs maintenance tasks against the travel diary
// database.
//
// Usage:
//
//	diaryctl [config flags] migrate
//	diaryctl [config flags] adduser -login NAME
//
// Config flags and environment variables are the same as for the server.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/travel-diary/app/internal/config"
	"github.com/travel-diary/app/internal/database"
	"github.com/travel-diary/app/internal/logging"
	"golang.org/x/term"
)

func main() {
	cfg, rest, err := config.Parse(os.Args[1:])
	if err == nil {
		err = cfg.ValidateDatabase()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger := logging.New(cfg.LogLevel, "text", os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, rest, os.Stdin, os.Stdout); err != nil {
		logger.WithError(err).Error("diaryctl failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger, args []string, in *os.File, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("expected a command: migrate or adduser")
	}

	db, err := database.InitDB(ctx, cfg.DBDriver, cfg.DatabaseDSN, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	switch args[0] {
	case "migrate":
		return migrate(ctx, db, out)
	case "adduser":
		fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
		login := fs.String("login", "", "login of the new user")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return addUser(ctx, db, *login, passwordReader(in, out), out)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// migrate reports the schema version; InitDB has already applied pending migrations.
func migrate(ctx context.Context, db *database.DB, out io.Writer) error {
	version, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "schema is at version %d\n", version)
	return nil
}

func addUser(ctx context.Context, db *database.DB, login string, readPassword func(prompt string) (string, error), out io.Writer) error {
	login = strings.TrimSpace(login)
	if login == "" {
		return errors.New("-login is required")
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if password == "" {
		return errors.New("password must not be empty")
	}

	user, err := database.CreateUser(ctx, db, login, password)
	if err != nil {
		if errors.Is(err, database.ErrLoginTaken) {
			return fmt.Errorf("user %q already exists", login)
		}
		return err
	}

	fmt.Fprintf(out, "created user %s with id %d\n", user.Login, user.ID)
	return nil
}

// passwordReader prompts without echo on a terminal and reads a plain line
// otherwise, so passwords can be piped in scripts.
func passwordReader(in *os.File, out io.Writer) func(prompt string) (string, error) {
	return func(prompt string) (string, error) {
		fd := int(in.Fd())
		if !term.IsTerminal(fd) {
			line, err := bufio.NewReader(in).ReadString('\n')
			if err != nil && !(errors.Is(err, io.EOF) && line != "") {
				return "", err
			}
			return strings.TrimRight(line, "\r\n"), nil
		}

		fmt.Fprint(out, prompt)
		password, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}

		fmt.Fprint(out, "Repeat password: ")
		again, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		if string(password) != string(again) {
			return "", errors.New("passwords do not match")
		}
		return string(password), nil
	}
}
