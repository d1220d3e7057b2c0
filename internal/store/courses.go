package store

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/vaughan-dsouza/nerv/internal/models"
)

const courseColumns = `id, user_id, title, created_at`

func (s *Store) CreateCourse(ctx context.Context, ownerID, title string) (models.Course, error) {
	c := models.Course{
		ID:        s.newID(),
		UserID:    ownerID,
		Title:     strings.TrimSpace(title),
		CreatedAt: s.timestamp(),
	}

	err := s.insert(ctx, "create course", `
		INSERT INTO courses (id, user_id, title, created_at)
		VALUES (?, ?, ?, ?)
	`, c.ID, c.UserID, c.Title, c.CreatedAt)
	if err != nil {
		return models.Course{}, err
	}
	return c, nil
}

// ListCourses returns the owner's courses in the order they were created.
func (s *Store) ListCourses(ctx context.Context, ownerID string) ([]models.Course, error) {
	courses := []models.Course{}
	err := s.db.SelectContext(ctx, &courses, s.q(`
		SELECT `+courseColumns+` FROM courses
		WHERE user_id = ?
		ORDER BY created_at ASC
	`), ownerID)
	if err != nil {
		return nil, persistence("list courses", err)
	}
	for i := range courses {
		courses[i].CreatedAt = courses[i].CreatedAt.UTC()
	}
	return courses, nil
}

func (s *Store) GetCourse(ctx context.Context, id, ownerID string) (models.Course, error) {
	return getCourse(ctx, s.db, id, ownerID)
}

func getCourse(ctx context.Context, q queryer, id, ownerID string) (models.Course, error) {
	var c models.Course
	if err := getOwned(ctx, q, &c, "courses", courseColumns, id, ownerID); err != nil {
		return models.Course{}, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

func (s *Store) UpdateCourse(ctx context.Context, id, ownerID string, patch models.CoursePatch) (models.Course, error) {
	var u update
	if patch.Title != nil {
		u.set("title", strings.TrimSpace(*patch.Title))
	}
	if u.empty() {
		return s.GetCourse(ctx, id, ownerID)
	}

	var out models.Course
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := u.apply(ctx, tx, "courses", id, ownerID); err != nil {
			return err
		}
		var err error
		out, err = getCourse(ctx, tx, id, ownerID)
		return err
	})
	return out, err
}

func (s *Store) DeleteCourse(ctx context.Context, id, ownerID string) (bool, error) {
	return s.deleteOwned(ctx, "courses", id, ownerID)
}
