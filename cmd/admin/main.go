// Command admin performs operator tasks against the database directly.
//
//	admin -email someone@example.com
//
// deletes that account together with its courses, assignments and notes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/vaughan-dsouza/nerv/internal/config"
	"github.com/vaughan-dsouza/nerv/internal/db"
	"github.com/vaughan-dsouza/nerv/internal/logging"
	"github.com/vaughan-dsouza/nerv/internal/store"
)

func main() {
	email := flag.String("email", "", "email of the account to delete")
	flag.Parse()

	if err := run(strings.ToLower(strings.TrimSpace(*email))); err != nil {
		fmt.Fprintln(os.Stderr, "admin:", err)
		os.Exit(1)
	}
}

func run(email string) error {
	if email == "" {
		flag.Usage()
		return errors.New("-email is required")
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogFormat, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := db.Connect(ctx, cfg.DatabaseURL, db.PoolOptions{MaxOpen: 1, MaxIdle: 1})
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.Migrate(ctx, conn, log); err != nil {
		return err
	}

	s := store.New(conn)
	u, err := s.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no user with email %q", email)
	}
	if err != nil {
		return err
	}

	if _, err := s.DeleteUser(ctx, u.ID); err != nil {
		return err
	}
	log.Info("user deleted", slog.String("user_id", u.ID), slog.String("email", u.Email))
	return nil
}
