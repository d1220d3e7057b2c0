package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/vaughan-dsouza/nerv/internal/models"
)

const assignmentColumns = `id, user_id, title, description, due_date, course_title, status, created_at, updated_at`

func (s *Store) CreateAssignment(ctx context.Context, ownerID string, in models.NewAssignment) (models.Assignment, error) {
	now := s.timestamp()
	status := in.Status
	if status == "" {
		status = models.StatusPending
	}
	if !status.Valid() {
		return models.Assignment{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	a := models.Assignment{
		ID:          s.newID(),
		UserID:      ownerID,
		Title:       strings.TrimSpace(in.Title),
		Description: optional(in.Description),
		DueDate:     in.DueDate.UTC(),
		CourseTitle: optional(in.CourseTitle),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   &now,
	}

	err := s.insert(ctx, "create assignment", `
		INSERT INTO assignments (`+assignmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.UserID, a.Title, a.Description, a.DueDate, a.CourseTitle, a.Status, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return models.Assignment{}, err
	}
	return a, nil
}

// ListAssignments returns the owner's assignments, soonest due first.
func (s *Store) ListAssignments(ctx context.Context, ownerID string) ([]models.Assignment, error) {
	items := []models.Assignment{}
	err := s.db.SelectContext(ctx, &items, s.q(`
		SELECT `+assignmentColumns+` FROM assignments
		WHERE user_id = ?
		ORDER BY due_date ASC, created_at ASC
	`), ownerID)
	if err != nil {
		return nil, persistence("list assignments", err)
	}
	for i := range items {
		normalizeAssignment(&items[i])
	}
	return items, nil
}

func (s *Store) GetAssignment(ctx context.Context, id, ownerID string) (models.Assignment, error) {
	return getAssignment(ctx, s.db, id, ownerID)
}

func getAssignment(ctx context.Context, q queryer, id, ownerID string) (models.Assignment, error) {
	var a models.Assignment
	if err := getOwned(ctx, q, &a, "assignments", assignmentColumns, id, ownerID); err != nil {
		return models.Assignment{}, err
	}
	normalizeAssignment(&a)
	return a, nil
}

// UpdateAssignment writes the non-nil patch fields and always stamps updated_at.
func (s *Store) UpdateAssignment(ctx context.Context, id, ownerID string, patch models.AssignmentPatch) (models.Assignment, error) {
	var u update
	if patch.Title != nil {
		u.set("title", strings.TrimSpace(*patch.Title))
	}
	if patch.Description != nil {
		u.set("description", optional(patch.Description))
	}
	if patch.DueDate != nil {
		u.set("due_date", patch.DueDate.UTC())
	}
	if patch.CourseTitle != nil {
		u.set("course_title", optional(patch.CourseTitle))
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return models.Assignment{}, fmt.Errorf("%w: %q", ErrInvalidStatus, *patch.Status)
		}
		u.set("status", *patch.Status)
	}
	u.set("updated_at", s.timestamp())

	var out models.Assignment
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := u.apply(ctx, tx, "assignments", id, ownerID); err != nil {
			return err
		}
		var err error
		out, err = getAssignment(ctx, tx, id, ownerID)
		return err
	})
	return out, err
}

func (s *Store) DeleteAssignment(ctx context.Context, id, ownerID string) (bool, error) {
	return s.deleteOwned(ctx, "assignments", id, ownerID)
}

func normalizeAssignment(a *models.Assignment) {
	a.DueDate = a.DueDate.UTC()
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = utcPtr(a.UpdatedAt)
}
