package models

import "time"

type Note struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Course    *string   `db:"course" json:"course,omitempty"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Link      *string   `db:"link" json:"link,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type NewNote struct {
	Course  *string
	Title   string
	Content string
	Link    *string
}

type NotePatch struct {
	Course  *string
	Title   *string
	Content *string
	Link    *string
}
