package store

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/vaughan-dsouza/nerv/internal/models"
)

const noteColumns = `id, user_id, course, title, content, link, created_at`

func (s *Store) CreateNote(ctx context.Context, ownerID string, in models.NewNote) (models.Note, error) {
	n := models.Note{
		ID:        s.newID(),
		UserID:    ownerID,
		Course:    optional(in.Course),
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		Link:      optional(in.Link),
		CreatedAt: s.timestamp(),
	}

	err := s.insert(ctx, "create note", `
		INSERT INTO notes (`+noteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.UserID, n.Course, n.Title, n.Content, n.Link, n.CreatedAt)
	if err != nil {
		return models.Note{}, err
	}
	return n, nil
}

// ListNotes returns the owner's notes, newest first.
func (s *Store) ListNotes(ctx context.Context, ownerID string) ([]models.Note, error) {
	notes := []models.Note{}
	err := s.db.SelectContext(ctx, &notes, s.q(`
		SELECT `+noteColumns+` FROM notes
		WHERE user_id = ?
		ORDER BY created_at DESC
	`), ownerID)
	if err != nil {
		return nil, persistence("list notes", err)
	}
	for i := range notes {
		notes[i].CreatedAt = notes[i].CreatedAt.UTC()
	}
	return notes, nil
}

func (s *Store) GetNote(ctx context.Context, id, ownerID string) (models.Note, error) {
	return getNote(ctx, s.db, id, ownerID)
}

func getNote(ctx context.Context, q queryer, id, ownerID string) (models.Note, error) {
	var n models.Note
	if err := getOwned(ctx, q, &n, "notes", noteColumns, id, ownerID); err != nil {
		return models.Note{}, err
	}
	n.CreatedAt = n.CreatedAt.UTC()
	return n, nil
}

func (s *Store) UpdateNote(ctx context.Context, id, ownerID string, patch models.NotePatch) (models.Note, error) {
	var u update
	if patch.Course != nil {
		u.set("course", optional(patch.Course))
	}
	if patch.Title != nil {
		u.set("title", strings.TrimSpace(*patch.Title))
	}
	if patch.Content != nil {
		u.set("content", *patch.Content)
	}
	if patch.Link != nil {
		u.set("link", optional(patch.Link))
	}
	if u.empty() {
		return s.GetNote(ctx, id, ownerID)
	}

	var out models.Note
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := u.apply(ctx, tx, "notes", id, ownerID); err != nil {
			return err
		}
		var err error
		out, err = getNote(ctx, tx, id, ownerID)
		return err
	})
	return out, err
}

func (s *Store) DeleteNote(ctx context.Context, id, ownerID string) (bool, error) {
	return s.deleteOwned(ctx, "notes", id, ownerID)
}
