package service

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/publishing-content-api/internal/config"
	"github.com/publishing-content-api/internal/models"
	"github.com/publishing-content-api/internal/render"
	"github.com/publishing-content-api/internal/repository"
	"github.com/publishing-content-api/internal/staticpage"
	"github.com/publishing-content-api/internal/storage"
)

// ErrNotFound is returned for missing items. Unpublished items looked up
// through the public read paths yield the same error as missing ones.
var ErrNotFound = errors.New("not found")

// DefaultLimit and MaxLimit bound the page size of list endpoints
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageSyncer is the slice of the static page synchronizer the services use
type PageSyncer interface {
	SyncArticle(before, after *staticpage.PageState, renderPage staticpage.RenderFunc) error
	SyncProject(before, after *staticpage.PageState, renderPage staticpage.RenderFunc) error
	WriteArticlePage(slug string, page []byte) error
	WriteProjectPage(slug string, page []byte) error
	DeleteArticlePage(id int64, slug string) error
	DeleteProjectPage(slug string) error
}

// ArticleSummary is the list projection of a published article
type ArticleSummary struct {
	ID              int64   `json:"id"`
	Slug            string  `json:"slug"`
	Title           string  `json:"title"`
	Excerpt         string  `json:"excerpt"`
	PreviewImage    *string `json:"preview_image"`
	PreviewImageAlt string  `json:"preview_image_alt"`
	URL             string  `json:"url"`
}

// ArticleListPage is a page of article summaries with pagination metadata
type ArticleListPage struct {
	CurrentPage int              `json:"current_page"`
	HasNext     bool             `json:"has_next"`
	HasPrevious bool             `json:"has_previous"`
	NextPage    *int             `json:"next_page"`
	Data        []ArticleSummary `json:"data"`
}

// ProjectSummary is the list projection of a project
type ProjectSummary struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Slug         string  `json:"slug"`
	CustomerName string  `json:"customer_name"`
	Year         int     `json:"year"`
	Type         string  `json:"type"`
	Preview      *string `json:"preview"`
}

// ProjectListPage is a page of project summaries with pagination metadata
type ProjectListPage struct {
	Page        int              `json:"page"`
	HasNext     bool             `json:"has_next"`
	HasPrevious bool             `json:"has_previous"`
	NextPage    *int             `json:"next_page"`
	Data        []ProjectSummary `json:"data"`
}

// ProjectBlockView is the per-type content projection of one project block
type ProjectBlockView struct {
	Type            models.BlockType `json:"type"`
	Content         *string          `json:"content"`
	FirstVideoFrame *string          `json:"first_video_frame,omitempty"`
}

// ArticleService defines article admin and read operations
type ArticleService interface {
	CreateArticle(ctx context.Context, article *models.Article) (*models.Article, error)
	UpdateArticle(ctx context.Context, id int64, article *models.Article) (*models.Article, error)
	DeleteArticle(ctx context.Context, id int64) error

	CreateBlock(ctx context.Context, block *models.ArticleBlock) (*models.ArticleBlock, error)
	UpdateBlock(ctx context.Context, id int64, block *models.ArticleBlock) (*models.ArticleBlock, error)
	DeleteBlock(ctx context.Context, id int64) error

	ListPublished(ctx context.Context, page, limit int) (*ArticleListPage, error)
	GetDetail(ctx context.Context, slug string) (*render.ArticleContext, error)

	RebuildPages(ctx context.Context, deleteUnpublished bool) (rebuilt, deleted int, err error)
}

// ProjectService defines project admin and read operations
type ProjectService interface {
	CreateCategory(ctx context.Context, category *models.ProjectCategory) (*models.ProjectCategory, error)
	ListCategories(ctx context.Context) ([]models.ProjectCategory, error)

	CreateProject(ctx context.Context, project *models.Project) (*models.Project, error)
	UpdateProject(ctx context.Context, id int64, project *models.Project) (*models.Project, error)
	DeleteProject(ctx context.Context, id int64) error

	CreateBlock(ctx context.Context, block *models.ProjectBlock) (*models.ProjectBlock, error)
	UpdateBlock(ctx context.Context, id int64, block *models.ProjectBlock) (*models.ProjectBlock, error)
	DeleteBlock(ctx context.Context, id int64) error

	ListByCategory(ctx context.Context, categorySlug string, page, limit int) (*ProjectListPage, error)
	GetDetailBlocks(ctx context.Context, slug string) ([]ProjectBlockView, error)

	RebuildPages(ctx context.Context, deleteUnpublished bool) (rebuilt, deleted int, err error)
}

// MediaService defines the media upload operation
type MediaService interface {
	Upload(ctx context.Context, filename string, body io.Reader, folder string) (string, error)
}

// Services holds all service interfaces
type Services struct {
	Article ArticleService
	Project ProjectService
	Media   MediaService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, pages PageSyncer, uploader storage.Uploader, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Article: newArticleService(repos, pages, cfg.Site.PublicBaseURL, log),
		Project: newProjectService(repos, pages, log),
		Media:   newMediaService(uploader, log),
	}
}

// mediaService forwards uploads to the storage gateway
type mediaService struct {
	uploader storage.Uploader
	log      zerolog.Logger
}

func newMediaService(uploader storage.Uploader, log zerolog.Logger) *mediaService {
	return &mediaService{
		uploader: uploader,
		log:      log.With().Str("service", "media").Logger(),
	}
}

func (s *mediaService) Upload(ctx context.Context, filename string, body io.Reader, folder string) (string, error) {
	return s.uploader.Upload(ctx, filename, body, folder)
}

// nilIfEmpty maps "" to a JSON null for payload fields
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// sanitizePage clamps a page number against the total item count
func sanitizePage(page, limit, total int) int {
	if page < 1 {
		page = 1
	}
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page
}
