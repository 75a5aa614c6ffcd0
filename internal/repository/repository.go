package repository

import (
	"context"

	"github.com/publishing-content-api/internal/database"
	"github.com/publishing-content-api/internal/models"
)

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Article, error)
	ListPublished(ctx context.Context, offset, limit int) ([]*models.Article, error)
	ListRelated(ctx context.Context, excludeSlug string, limit int) ([]*models.Article, error)
	ListByPublished(ctx context.Context, published bool) ([]*models.Article, error)
	CountPublished(ctx context.Context) (int, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
}

// ArticleBlockRepository defines the interface for article content blocks
type ArticleBlockRepository interface {
	Create(ctx context.Context, block *models.ArticleBlock) error
	Update(ctx context.Context, block *models.ArticleBlock) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.ArticleBlock, error)
	ListByArticle(ctx context.Context, articleID int64) ([]models.ArticleBlock, error)
}

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	ListByCategory(ctx context.Context, categorySlug string, offset, limit int) ([]*models.Project, error)
	CountByCategory(ctx context.Context, categorySlug string) (int, error)
	ListByPublished(ctx context.Context, published bool) ([]*models.Project, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
}

// ProjectBlockRepository defines the interface for project content blocks
type ProjectBlockRepository interface {
	Create(ctx context.Context, block *models.ProjectBlock) error
	Update(ctx context.Context, block *models.ProjectBlock) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.ProjectBlock, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.ProjectBlock, error)
}

// CategoryRepository defines the interface for project categories
type CategoryRepository interface {
	Create(ctx context.Context, category *models.ProjectCategory) error
	List(ctx context.Context) ([]models.ProjectCategory, error)
	GetBySlug(ctx context.Context, slug string) (*models.ProjectCategory, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article      ArticleRepository
	ArticleBlock ArticleBlockRepository
	Project      ProjectRepository
	ProjectBlock ProjectBlockRepository
	Category     CategoryRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article:      NewArticleRepo(db),
		ArticleBlock: NewArticleBlockRepo(db),
		Project:      NewProjectRepo(db),
		ProjectBlock: NewProjectBlockRepo(db),
		Category:     NewCategoryRepo(db),
	}
}
