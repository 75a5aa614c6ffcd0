// Package validation checks admin submissions before anything is persisted.
// Errors are collected per field so the admin UI can surface all of them at
// once; nothing is saved when validation fails.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/publishing-content-api/internal/models"
)

var (
	slugRegex    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
	multiHyphen  = regexp.MustCompile(`-+`)
)

// FieldError represents a single per-field validation error
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the collection of field errors from one submission
type Error struct {
	Fields []FieldError `json:"fields"`
}

func (e *Error) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

func (e *Error) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *Error) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// AsError reports whether err is a validation error
func AsError(err error) (*Error, bool) {
	verr, ok := err.(*Error)
	return verr, ok
}

// ValidateArticle checks an article submission. The article is expected to be
// trimmed already (see Trim helpers below).
func ValidateArticle(article *models.Article) error {
	verr := &Error{}

	if article.Title == "" {
		verr.add("title", "Title is required.")
	}
	if article.Slug != "" && !slugRegex.MatchString(article.Slug) {
		verr.add("slug", "Slug may only contain lowercase letters, digits and hyphens.")
	}
	if article.SEOTitle == "" {
		verr.add("seo_title", "SEO title is required.")
	}
	if article.SEODescription == "" {
		verr.add("seo_description", "SEO description is required.")
	}
	if article.PreviewImage != "" && article.PreviewImageAlt == "" {
		verr.add("preview_image_alt", "Alt text is required when preview image is set.")
	}

	return verr.orNil()
}

// ValidateArticleBlock checks a block submission against its declared type.
// current is the stored version on update; media already attached to it
// satisfies the media requirement.
func ValidateArticleBlock(block *models.ArticleBlock, current *models.ArticleBlock) error {
	verr := &Error{}

	if !block.Type.Valid() {
		verr.add("type", "Type must be one of: text, heading, image, video.")
		return verr
	}
	if block.Order < 0 {
		verr.add("order", "Order must not be negative.")
	}

	hasMedia := block.Media != "" || (current != nil && current.Media != "")
	hasFrame := block.FirstVideoFrame != "" || (current != nil && current.FirstVideoFrame != "")

	switch block.Type {
	case models.BlockImage:
		if !hasMedia {
			verr.add("media", "Image is required for image block.")
		}
		if block.Text != "" {
			verr.add("text", "Image block cannot contain text.")
		}
		if block.MediaAlt == "" {
			verr.add("media_alt", "Alt text is required for image block.")
		}

	case models.BlockVideo:
		if !hasMedia {
			verr.add("media", "Video is required for video block.")
		}
		if !hasFrame {
			verr.add("first_video_frame", "First frame is required for video block.")
		}
		if block.Text != "" {
			verr.add("text", "Video block cannot contain text.")
		}

	case models.BlockText, models.BlockHeading:
		if block.Text == "" {
			verr.add("text", "Text is required for text or heading block.")
		}
		if hasMedia {
			verr.add("media", "Text and heading blocks cannot contain media.")
		}
		if block.MediaAlt != "" {
			verr.add("media_alt", "Alt text is only used for image blocks.")
		}
	}

	return verr.orNil()
}

// ValidateProject checks a project submission
func ValidateProject(project *models.Project) error {
	verr := &Error{}

	if project.Title == "" {
		verr.add("title", "Title is required.")
	}
	if project.Slug != "" && !slugRegex.MatchString(project.Slug) {
		verr.add("slug", "Slug may only contain lowercase letters, digits and hyphens.")
	}
	if project.CategoryID == 0 {
		verr.add("category_id", "Category is required.")
	}
	if project.CustomerName == "" {
		verr.add("customer_name", "Customer name is required.")
	}
	if project.Year < 1900 || project.Year > 2100 {
		verr.add("year", "Year is out of range.")
	}

	return verr.orNil()
}

// ValidateProjectBlock checks a project block submission. Project blocks have
// no alt text or caption fields; the remaining per-type rules match article
// blocks.
func ValidateProjectBlock(block *models.ProjectBlock, current *models.ProjectBlock) error {
	verr := &Error{}

	if !block.Type.Valid() {
		verr.add("type", "Type must be one of: text, heading, image, video.")
		return verr
	}
	if block.Order < 0 {
		verr.add("order", "Order must not be negative.")
	}

	hasMedia := block.Media != "" || (current != nil && current.Media != "")
	hasFrame := block.FirstVideoFrame != "" || (current != nil && current.FirstVideoFrame != "")

	switch block.Type {
	case models.BlockImage:
		if !hasMedia {
			verr.add("media", "Image is required for image block.")
		}
		if block.Text != "" {
			verr.add("text", "Image block cannot contain text.")
		}

	case models.BlockVideo:
		if !hasMedia {
			verr.add("media", "Video is required for video block.")
		}
		if !hasFrame {
			verr.add("first_video_frame", "First frame is required for video block.")
		}
		if block.Text != "" {
			verr.add("text", "Video block cannot contain text.")
		}

	case models.BlockText, models.BlockHeading:
		if block.Text == "" {
			verr.add("text", "Text is required for text or heading block.")
		}
		if hasMedia {
			verr.add("media", "Text and heading blocks cannot contain media.")
		}
	}

	return verr.orNil()
}

// Slugify derives a URL slug from a title when the admin leaves the slug empty
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	slug = multiHyphen.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	return slug
}

// TrimArticle trims the user-entered string fields in place, mirroring what
// the admin form does before saving.
func TrimArticle(article *models.Article) {
	article.Title = strings.TrimSpace(article.Title)
	article.Slug = strings.TrimSpace(article.Slug)
	article.Excerpt = strings.TrimSpace(article.Excerpt)
	article.PreviewImageAlt = strings.TrimSpace(article.PreviewImageAlt)
	article.SEOTitle = strings.TrimSpace(article.SEOTitle)
	article.SEODescription = strings.TrimSpace(article.SEODescription)
	article.SEOKeywords = strings.TrimSpace(article.SEOKeywords)
	article.SEORobots = strings.TrimSpace(article.SEORobots)
	article.CanonicalURL = strings.TrimSpace(article.CanonicalURL)
}

// TrimArticleBlock trims the user-entered string fields in place
func TrimArticleBlock(block *models.ArticleBlock) {
	block.Text = strings.TrimSpace(block.Text)
	block.MediaAlt = strings.TrimSpace(block.MediaAlt)
	block.Caption = strings.TrimSpace(block.Caption)
}

// TrimProject trims the user-entered string fields in place
func TrimProject(project *models.Project) {
	project.Title = strings.TrimSpace(project.Title)
	project.Slug = strings.TrimSpace(project.Slug)
	project.CustomerName = strings.TrimSpace(project.CustomerName)
	project.ProjectType = strings.TrimSpace(project.ProjectType)
}
