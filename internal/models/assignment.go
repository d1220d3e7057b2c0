package models

import "time"

type AssignmentStatus string

const (
	StatusPending    AssignmentStatus = "pending"
	StatusInProgress AssignmentStatus = "in-progress"
	StatusCompleted  AssignmentStatus = "completed"
	StatusArchived   AssignmentStatus = "archived"
)

func (s AssignmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

type Assignment struct {
	ID          string           `db:"id" json:"id"`
	UserID      string           `db:"user_id" json:"userId"`
	Title       string           `db:"title" json:"title"`
	Description *string          `db:"description" json:"description,omitempty"`
	DueDate     time.Time        `db:"due_date" json:"dueDate"`
	CourseTitle *string          `db:"course_title" json:"courseTitle,omitempty"`
	Status      AssignmentStatus `db:"status" json:"status"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt   *time.Time       `db:"updated_at" json:"updatedAt,omitempty"`
}

// NewAssignment is what a caller supplies on create; the store fills the rest.
type NewAssignment struct {
	Title       string
	Description *string
	DueDate     time.Time
	CourseTitle *string
	Status      AssignmentStatus
}

type AssignmentPatch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	CourseTitle *string
	Status      *AssignmentStatus
}
