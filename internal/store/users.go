package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vaughan-dsouza/nerv/internal/models"
)

const userColumns = `id, email, password_hash, created_at`

// CreateUser inserts a user with an already hashed password. A taken email
// yields ErrDuplicateEmail.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (models.User, error) {
	u := models.User{
		ID:        s.newID(),
		Email:     email,
		Password:  passwordHash,
		CreatedAt: s.timestamp(),
	}

	err := s.insert(ctx, "create user", `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, u.ID, u.Email, u.Password, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.getUser(ctx, "email", email)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (models.User, error) {
	return s.getUser(ctx, "id", id)
}

func (s *Store) getUser(ctx context.Context, column, value string) (models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`), value)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, persistence("get user", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}

// DeleteUser removes a user; owned courses, assignments and notes go with it
// through ON DELETE CASCADE.
func (s *Store) DeleteUser(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return false, persistence("delete user", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, persistence("delete user", err)
	}
	return n > 0, nil
}
