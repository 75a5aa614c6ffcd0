package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/publishing-content-api/internal/database"
	"github.com/publishing-content-api/internal/models"
)

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

const articleColumns = `
	id, slug, title, excerpt, preview_image, preview_image_alt, is_published,
	seo_title, seo_description, seo_keywords, seo_robots, canonical_url,
	created_at, updated_at
`

// Create inserts a new article and fills in its generated fields
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (slug, title, excerpt, preview_image, preview_image_alt, is_published,
			seo_title, seo_description, seo_keywords, seo_robots, canonical_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		RETURNING id
	`
	now := time.Now().UTC()
	article.CreatedAt = now
	article.UpdatedAt = now

	return r.db.QueryRowContext(ctx, query,
		article.Slug, article.Title, article.Excerpt,
		nullIfEmpty(article.PreviewImage), article.PreviewImageAlt, article.IsPublished,
		article.SEOTitle, article.SEODescription, article.SEOKeywords,
		article.SEORobots, article.CanonicalURL, now,
	).Scan(&article.ID)
}

// Update rewrites all mutable fields of an article
func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	query := `
		UPDATE articles
		SET slug = $1, title = $2, excerpt = $3, preview_image = $4, preview_image_alt = $5,
			is_published = $6, seo_title = $7, seo_description = $8, seo_keywords = $9,
			seo_robots = $10, canonical_url = $11, updated_at = $12
		WHERE id = $13
	`
	article.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		article.Slug, article.Title, article.Excerpt,
		nullIfEmpty(article.PreviewImage), article.PreviewImageAlt, article.IsPublished,
		article.SEOTitle, article.SEODescription, article.SEOKeywords,
		article.SEORobots, article.CanonicalURL, article.UpdatedAt, article.ID,
	)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// Delete removes an article; blocks cascade via the FK constraint
func (r *articleRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// GetByID retrieves an article by ID, returning nil when missing
func (r *articleRepo) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	query := "SELECT " + articleColumns + " FROM articles WHERE id = $1"
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetBySlug retrieves an article by slug, optionally restricted to published ones.
// Missing and unpublished look the same to callers asking for published only.
func (r *articleRepo) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Article, error) {
	query := "SELECT " + articleColumns + " FROM articles WHERE slug = $1"
	if publishedOnly {
		query += " AND is_published = TRUE"
	}
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug))
}

// ListPublished returns a page of published articles, newest first
func (r *articleRepo) ListPublished(ctx context.Context, offset, limit int) ([]*models.Article, error) {
	query := "SELECT " + articleColumns + ` FROM articles
		WHERE is_published = TRUE
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

// ListRelated returns published articles other than the given slug, newest first
func (r *articleRepo) ListRelated(ctx context.Context, excludeSlug string, limit int) ([]*models.Article, error) {
	query := "SELECT " + articleColumns + ` FROM articles
		WHERE is_published = TRUE AND slug <> $1
		ORDER BY created_at DESC
		LIMIT $2`
	return r.list(ctx, query, excludeSlug, limit)
}

// ListByPublished returns all articles with the given publication flag, ordered by slug
func (r *articleRepo) ListByPublished(ctx context.Context, published bool) ([]*models.Article, error) {
	query := "SELECT " + articleColumns + " FROM articles WHERE is_published = $1 ORDER BY slug"
	return r.list(ctx, query, published)
}

// CountPublished returns the number of published articles
func (r *articleRepo) CountPublished(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles WHERE is_published = TRUE").Scan(&count)
	return count, err
}

// SlugExists checks if another article already uses the given slug
func (r *articleRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1 AND id <> $2)",
		slug, excludeID,
	).Scan(&exists)
	return exists, err
}

func (r *articleRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		article, err := scanArticle(rows.Scan)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

func (r *articleRepo) scanOne(row *sql.Row) (*models.Article, error) {
	article, err := scanArticle(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return article, nil
}

func scanArticle(scan func(dest ...interface{}) error) (*models.Article, error) {
	var article models.Article
	var previewImage sql.NullString

	err := scan(
		&article.ID, &article.Slug, &article.Title, &article.Excerpt,
		&previewImage, &article.PreviewImageAlt, &article.IsPublished,
		&article.SEOTitle, &article.SEODescription, &article.SEOKeywords,
		&article.SEORobots, &article.CanonicalURL,
		&article.CreatedAt, &article.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	article.PreviewImage = previewImage.String
	return &article, nil
}

// nullIfEmpty maps an empty string to SQL NULL for nullable URL columns
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// requireRowsAffected converts zero affected rows into sql.ErrNoRows
func requireRowsAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
