package models

import (
	"time"
)

// ContentMeta holds the publication fields shared by all content items
type ContentMeta struct {
	Slug         string    `json:"slug" db:"slug"`
	Title        string    `json:"title" db:"title"`
	PreviewImage string    `json:"preview_image,omitempty" db:"preview_image"`
	IsPublished  bool      `json:"is_published" db:"is_published"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Article represents a blog article with its SEO metadata
type Article struct {
	ID int64 `json:"id" db:"id"`
	ContentMeta

	Excerpt         string `json:"excerpt,omitempty" db:"excerpt"`
	PreviewImageAlt string `json:"preview_image_alt,omitempty" db:"preview_image_alt"`

	SEOTitle       string `json:"seo_title" db:"seo_title"`
	SEODescription string `json:"seo_description" db:"seo_description"`
	SEOKeywords    string `json:"seo_keywords,omitempty" db:"seo_keywords"`
	SEORobots      string `json:"seo_robots" db:"seo_robots"`
	CanonicalURL   string `json:"canonical_url,omitempty" db:"canonical_url"`
}

// DefaultRobots is the robots directive used when none is set
const DefaultRobots = "index,follow"
