package handlers

import (
	"context"
	"log/slog"

	"github.com/vaughan-dsouza/nerv/internal/auth"
	"github.com/vaughan-dsouza/nerv/internal/models"
)

type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

type CourseStore interface {
	CreateCourse(ctx context.Context, ownerID, title string) (models.Course, error)
	ListCourses(ctx context.Context, ownerID string) ([]models.Course, error)
	GetCourse(ctx context.Context, id, ownerID string) (models.Course, error)
	UpdateCourse(ctx context.Context, id, ownerID string, patch models.CoursePatch) (models.Course, error)
	DeleteCourse(ctx context.Context, id, ownerID string) (bool, error)
}

type AssignmentStore interface {
	CreateAssignment(ctx context.Context, ownerID string, in models.NewAssignment) (models.Assignment, error)
	ListAssignments(ctx context.Context, ownerID string) ([]models.Assignment, error)
	GetAssignment(ctx context.Context, id, ownerID string) (models.Assignment, error)
	UpdateAssignment(ctx context.Context, id, ownerID string, patch models.AssignmentPatch) (models.Assignment, error)
	DeleteAssignment(ctx context.Context, id, ownerID string) (bool, error)
}

type NoteStore interface {
	CreateNote(ctx context.Context, ownerID string, in models.NewNote) (models.Note, error)
	ListNotes(ctx context.Context, ownerID string) ([]models.Note, error)
	GetNote(ctx context.Context, id, ownerID string) (models.Note, error)
	UpdateNote(ctx context.Context, id, ownerID string, patch models.NotePatch) (models.Note, error)
	DeleteNote(ctx context.Context, id, ownerID string) (bool, error)
}

// Store is everything the handlers need from persistence.
type Store interface {
	UserStore
	CourseStore
	AssignmentStore
	NoteStore
}

// Pinger reports database liveness for /health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	Auth        *AuthHandler
	Courses     *CourseHandler
	Assignments *AssignmentHandler
	Notes       *NoteHandler
	Health      *HealthHandler
}

func NewHandler(store Store, db Pinger, passwords *auth.Passwords, tokens *auth.Tokens, log *slog.Logger) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(store, passwords, tokens, log),
		Courses:     NewCourseHandler(store, log),
		Assignments: NewAssignmentHandler(store, log),
		Notes:       NewNoteHandler(store, log),
		Health:      NewHealthHandler(db),
	}
}
