package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/publishing-content-api/internal/models"
	"github.com/publishing-content-api/internal/render"
	"github.com/publishing-content-api/internal/repository"
	"github.com/publishing-content-api/internal/staticpage"
	"github.com/publishing-content-api/internal/validation"
)

// relatedLimit caps the related-articles list on detail pages
const relatedLimit = 6

// articleService implements ArticleService
type articleService struct {
	articles repository.ArticleRepository
	blocks   repository.ArticleBlockRepository
	pages    PageSyncer
	baseURL  string
	log      zerolog.Logger
}

func newArticleService(repos *repository.Repositories, pages PageSyncer, baseURL string, log zerolog.Logger) *articleService {
	return &articleService{
		articles: repos.Article,
		blocks:   repos.ArticleBlock,
		pages:    pages,
		baseURL:  baseURL,
		log:      log.With().Str("service", "article").Logger(),
	}
}

// CreateArticle validates and persists a new article, then brings its static
// page in line with the publication flag.
func (s *articleService) CreateArticle(ctx context.Context, article *models.Article) (*models.Article, error) {
	validation.TrimArticle(article)
	if article.Slug == "" {
		article.Slug = validation.Slugify(article.Title)
	}
	if article.SEORobots == "" {
		article.SEORobots = models.DefaultRobots
	}

	if err := s.validateArticle(ctx, article, 0); err != nil {
		return nil, err
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}

	s.syncPage(ctx, nil, article)
	return article, nil
}

// UpdateArticle validates and persists changes to an existing article. The
// page state before the write is captured explicitly so the synchronizer can
// clean up after slug changes and unpublishing.
func (s *articleService) UpdateArticle(ctx context.Context, id int64, article *models.Article) (*models.Article, error) {
	current, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}
	before := pageState(current.ID, current.Slug, current.IsPublished)

	validation.TrimArticle(article)
	if article.Slug == "" {
		article.Slug = validation.Slugify(article.Title)
	}
	if article.SEORobots == "" {
		article.SEORobots = models.DefaultRobots
	}
	article.ID = current.ID
	article.CreatedAt = current.CreatedAt
	if article.PreviewImage == "" {
		article.PreviewImage = current.PreviewImage
	}

	if err := s.validateArticle(ctx, article, current.ID); err != nil {
		return nil, err
	}

	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}

	s.syncPage(ctx, before, article)
	return article, nil
}

// DeleteArticle removes an article; its blocks cascade away and its page is
// deleted along with pages left over from legacy layouts.
func (s *articleService) DeleteArticle(ctx context.Context, id int64) error {
	current, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNotFound
	}

	if err := s.articles.Delete(ctx, id); err != nil {
		return err
	}

	before := pageState(current.ID, current.Slug, current.IsPublished)
	if err := s.pages.SyncArticle(before, nil, nil); err != nil {
		s.reportSyncFailure(err, current.Slug)
	}
	return nil
}

// CreateBlock adds a block to an article and re-renders the page if the
// article is published.
func (s *articleService) CreateBlock(ctx context.Context, block *models.ArticleBlock) (*models.ArticleBlock, error) {
	article, err := s.articles.GetByID(ctx, block.ArticleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}

	validation.TrimArticleBlock(block)
	if err := validation.ValidateArticleBlock(block, nil); err != nil {
		return nil, err
	}

	if err := s.blocks.Create(ctx, block); err != nil {
		return nil, err
	}

	s.resyncIfPublished(ctx, article)
	return block, nil
}

// UpdateBlock updates a block. Media already stored on the block satisfies
// the media requirement, matching how admin edits behave when no new file is
// attached.
func (s *articleService) UpdateBlock(ctx context.Context, id int64, block *models.ArticleBlock) (*models.ArticleBlock, error) {
	current, err := s.blocks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}

	validation.TrimArticleBlock(block)
	if err := validation.ValidateArticleBlock(block, current); err != nil {
		return nil, err
	}

	block.ID = current.ID
	block.ArticleID = current.ArticleID
	if block.Media == "" && (block.Type == models.BlockImage || block.Type == models.BlockVideo) {
		block.Media = current.Media
	}
	if block.FirstVideoFrame == "" && block.Type == models.BlockVideo {
		block.FirstVideoFrame = current.FirstVideoFrame
	}

	if err := s.blocks.Update(ctx, block); err != nil {
		return nil, err
	}

	article, err := s.articles.GetByID(ctx, block.ArticleID)
	if err != nil {
		return nil, err
	}
	if article != nil {
		s.resyncIfPublished(ctx, article)
	}
	return block, nil
}

// DeleteBlock removes a block and re-renders the owning article's page.
// A block whose article has already been deleted is a no-op.
func (s *articleService) DeleteBlock(ctx context.Context, id int64) error {
	current, err := s.blocks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNotFound
	}

	if err := s.blocks.Delete(ctx, id); err != nil {
		return err
	}

	article, err := s.articles.GetByID(ctx, current.ArticleID)
	if err != nil {
		return err
	}
	if article == nil {
		// Cascaded away together with its article.
		return nil
	}

	s.resyncIfPublished(ctx, article)
	return nil
}

// ListPublished returns a page of published articles, newest first
func (s *articleService) ListPublished(ctx context.Context, page, limit int) (*ArticleListPage, error) {
	total, err := s.articles.CountPublished(ctx)
	if err != nil {
		return nil, err
	}

	page = sanitizePage(page, limit, total)
	articles, err := s.articles.ListPublished(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	result := &ArticleListPage{
		CurrentPage: page,
		HasNext:     page*limit < total,
		HasPrevious: page > 1,
		Data:        []ArticleSummary{},
	}
	if result.HasNext {
		next := page + 1
		result.NextPage = &next
	}

	for _, article := range articles {
		excerpt := strings.TrimSpace(article.Excerpt)
		if excerpt == "" {
			excerpt = strings.TrimSpace(article.SEODescription)
		}
		result.Data = append(result.Data, ArticleSummary{
			ID:              article.ID,
			Slug:            article.Slug,
			Title:           article.Title,
			Excerpt:         excerpt,
			PreviewImage:    nilIfEmpty(article.PreviewImage),
			PreviewImageAlt: strings.TrimSpace(article.PreviewImageAlt),
			URL:             render.ArticlePath(article.Slug),
		})
	}

	return result, nil
}

// GetDetail returns the full render context of a published article. Missing
// and unpublished slugs are indistinguishable to the caller.
func (s *articleService) GetDetail(ctx context.Context, slug string) (*render.ArticleContext, error) {
	article, err := s.articles.GetBySlug(ctx, slug, true)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}
	return s.buildContext(ctx, article)
}

// RebuildPages regenerates the static pages of all published articles and,
// optionally, deletes pages of unpublished ones.
func (s *articleService) RebuildPages(ctx context.Context, deleteUnpublished bool) (int, int, error) {
	published, err := s.articles.ListByPublished(ctx, true)
	if err != nil {
		return 0, 0, err
	}

	rebuilt := 0
	for _, article := range published {
		page, err := s.renderPage(ctx, article)
		if err != nil {
			return rebuilt, 0, err
		}
		if err := s.pages.WriteArticlePage(article.Slug, page); err != nil {
			return rebuilt, 0, err
		}
		rebuilt++
	}

	deleted := 0
	if deleteUnpublished {
		unpublished, err := s.articles.ListByPublished(ctx, false)
		if err != nil {
			return rebuilt, deleted, err
		}
		for _, article := range unpublished {
			if err := s.pages.DeleteArticlePage(article.ID, article.Slug); err != nil {
				return rebuilt, deleted, err
			}
			deleted++
		}
	}

	return rebuilt, deleted, nil
}

func (s *articleService) validateArticle(ctx context.Context, article *models.Article, excludeID int64) error {
	if err := validation.ValidateArticle(article); err != nil {
		return err
	}

	taken, err := s.articles.SlugExists(ctx, article.Slug, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return &validation.Error{Fields: []validation.FieldError{
			{Field: "slug", Message: "Slug is already in use."},
		}}
	}
	return nil
}

func (s *articleService) buildContext(ctx context.Context, article *models.Article) (*render.ArticleContext, error) {
	blocks, err := s.blocks.ListByArticle(ctx, article.ID)
	if err != nil {
		return nil, err
	}
	related, err := s.articles.ListRelated(ctx, article.Slug, relatedLimit)
	if err != nil {
		return nil, err
	}
	return render.BuildArticleContext(article, blocks, related, s.baseURL), nil
}

func (s *articleService) renderPage(ctx context.Context, article *models.Article) ([]byte, error) {
	rctx, err := s.buildContext(ctx, article)
	if err != nil {
		return nil, err
	}
	return staticpage.RenderArticlePage(rctx)
}

// syncPage drives the synchronizer for one save. A failed page write never
// rolls back the committed database change; it is logged as an inconsistency
// recoverable by cmd/rebuild.
func (s *articleService) syncPage(ctx context.Context, before *staticpage.PageState, article *models.Article) {
	after := pageState(article.ID, article.Slug, article.IsPublished)
	renderPage := func() ([]byte, error) { return s.renderPage(ctx, article) }

	if err := s.pages.SyncArticle(before, after, renderPage); err != nil {
		s.reportSyncFailure(err, article.Slug)
	}
}

func (s *articleService) resyncIfPublished(ctx context.Context, article *models.Article) {
	if !article.IsPublished {
		return
	}
	s.syncPage(ctx, pageState(article.ID, article.Slug, true), article)
}

func (s *articleService) reportSyncFailure(err error, slug string) {
	s.log.Error().Err(err).Str("slug", slug).
		Msg("Static page out of sync with database, run the rebuild tool")
}

func pageState(id int64, slug string, published bool) *staticpage.PageState {
	return &staticpage.PageState{ID: id, Slug: slug, Published: published}
}
