package models

import (
	"time"
)

// ProjectCategory groups portfolio projects
type ProjectCategory struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Project represents a portfolio project
type Project struct {
	ID int64 `json:"id" db:"id"`
	ContentMeta

	CategoryID   int64  `json:"category_id" db:"category_id"`
	CustomerName string `json:"customer_name" db:"customer_name"`
	Year         int    `json:"year" db:"year"`
	ProjectType  string `json:"type" db:"project_type"`
}
