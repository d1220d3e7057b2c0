package models

import "time"

type Course struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// CoursePatch carries the fields of a partial update; nil means "leave as is".
type CoursePatch struct {
	Title *string
}
