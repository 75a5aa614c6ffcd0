package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/publishing-content-api/internal/database"
	"github.com/publishing-content-api/internal/models"
)

// projectRepo is the concrete implementation of ProjectRepository
type projectRepo struct {
	db *database.DB
}

// NewProjectRepo creates a new project repository
func NewProjectRepo(db *database.DB) ProjectRepository {
	return &projectRepo{db: db}
}

const projectColumns = `
	id, slug, title, category_id, customer_name, year, project_type,
	preview_image, is_published, created_at, updated_at
`

// Create inserts a new project and fills in its generated fields
func (r *projectRepo) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (slug, title, category_id, customer_name, year, project_type,
			preview_image, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id
	`
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	return r.db.QueryRowContext(ctx, query,
		project.Slug, project.Title, project.CategoryID, project.CustomerName,
		project.Year, project.ProjectType, nullIfEmpty(project.PreviewImage),
		project.IsPublished, now,
	).Scan(&project.ID)
}

// Update rewrites all mutable fields of a project
func (r *projectRepo) Update(ctx context.Context, project *models.Project) error {
	query := `
		UPDATE projects
		SET slug = $1, title = $2, category_id = $3, customer_name = $4, year = $5,
			project_type = $6, preview_image = $7, is_published = $8, updated_at = $9
		WHERE id = $10
	`
	project.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		project.Slug, project.Title, project.CategoryID, project.CustomerName,
		project.Year, project.ProjectType, nullIfEmpty(project.PreviewImage),
		project.IsPublished, project.UpdatedAt, project.ID,
	)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// Delete removes a project; blocks cascade via the FK constraint
func (r *projectRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// GetByID retrieves a project by ID, returning nil when missing
func (r *projectRepo) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	query := "SELECT " + projectColumns + " FROM projects WHERE id = $1"
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetBySlug retrieves a project by slug, returning nil when missing
func (r *projectRepo) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	query := "SELECT " + projectColumns + " FROM projects WHERE slug = $1"
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug))
}

// ListByCategory returns a page of projects in a category, newest first
func (r *projectRepo) ListByCategory(ctx context.Context, categorySlug string, offset, limit int) ([]*models.Project, error) {
	query := "SELECT " + projectColumns + ` FROM projects
		WHERE category_id = (SELECT id FROM project_categories WHERE slug = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	return r.list(ctx, query, categorySlug, limit, offset)
}

// CountByCategory returns the number of projects in a category
func (r *projectRepo) CountByCategory(ctx context.Context, categorySlug string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM projects
		WHERE category_id = (SELECT id FROM project_categories WHERE slug = $1)`,
		categorySlug,
	).Scan(&count)
	return count, err
}

// ListByPublished returns all projects with the given publication flag, ordered by slug
func (r *projectRepo) ListByPublished(ctx context.Context, published bool) ([]*models.Project, error) {
	query := "SELECT " + projectColumns + " FROM projects WHERE is_published = $1 ORDER BY slug"
	return r.list(ctx, query, published)
}

// SlugExists checks if another project already uses the given slug
func (r *projectRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM projects WHERE slug = $1 AND id <> $2)",
		slug, excludeID,
	).Scan(&exists)
	return exists, err
}

func (r *projectRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (r *projectRepo) scanOne(row *sql.Row) (*models.Project, error) {
	project, err := scanProject(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

func scanProject(scan func(dest ...interface{}) error) (*models.Project, error) {
	var project models.Project
	var previewImage sql.NullString

	err := scan(
		&project.ID, &project.Slug, &project.Title, &project.CategoryID,
		&project.CustomerName, &project.Year, &project.ProjectType,
		&previewImage, &project.IsPublished, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	project.PreviewImage = previewImage.String
	return &project, nil
}

// categoryRepo is the concrete implementation of CategoryRepository
type categoryRepo struct {
	db *database.DB
}

// NewCategoryRepo creates a new category repository
func NewCategoryRepo(db *database.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

// Create inserts a new project category
func (r *categoryRepo) Create(ctx context.Context, category *models.ProjectCategory) error {
	now := time.Now().UTC()
	category.CreatedAt = now
	return r.db.QueryRowContext(ctx, `
		INSERT INTO project_categories (title, slug, created_at)
		VALUES ($1, $2, $3)
		RETURNING id`,
		category.Title, category.Slug, now,
	).Scan(&category.ID)
}

// List returns all categories, newest first
func (r *categoryRepo) List(ctx context.Context) ([]models.ProjectCategory, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, slug, created_at
		FROM project_categories ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.ProjectCategory
	for rows.Next() {
		var category models.ProjectCategory
		if err := rows.Scan(&category.ID, &category.Title, &category.Slug, &category.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// GetBySlug retrieves a category by slug, returning nil when missing
func (r *categoryRepo) GetBySlug(ctx context.Context, slug string) (*models.ProjectCategory, error) {
	var category models.ProjectCategory
	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, slug, created_at FROM project_categories WHERE slug = $1", slug,
	).Scan(&category.ID, &category.Title, &category.Slug, &category.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}
