package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/publishing-content-api/internal/mocks"
	"github.com/publishing-content-api/internal/models"
	"github.com/publishing-content-api/internal/repository"
	"github.com/publishing-content-api/internal/validation"
)

type articleFixture struct {
	service  *articleService
	articles *mocks.MockArticleRepository
	blocks   *mocks.MockArticleBlockRepository
	pages    *mocks.MockPageSyncer
}

func newArticleFixture() *articleFixture {
	articles := mocks.NewMockArticleRepository()
	blocks := mocks.NewMockArticleBlockRepository()
	pages := mocks.NewMockPageSyncer()

	repos := &repository.Repositories{
		Article:      articles,
		ArticleBlock: blocks,
	}

	return &articleFixture{
		service:  newArticleService(repos, pages, "https://example.com", zerolog.Nop()),
		articles: articles,
		blocks:   blocks,
		pages:    pages,
	}
}

func newArticleInput(title string, published bool) *models.Article {
	return &models.Article{
		ContentMeta: models.ContentMeta{
			Title:       title,
			IsPublished: published,
		},
		SEOTitle:       title,
		SEODescription: "Description of " + title,
	}
}

func TestCreateArticleGeneratesSlugAndDefaults(t *testing.T) {
	f := newArticleFixture()

	created, err := f.service.CreateArticle(context.Background(), newArticleInput("Hello World", false))
	require.NoError(t, err)

	assert.Equal(t, "hello-world", created.Slug)
	assert.Equal(t, models.DefaultRobots, created.SEORobots)
	assert.NotZero(t, created.ID)
}

func TestCreateArticleWritesPageWhenPublished(t *testing.T) {
	f := newArticleFixture()

	created, err := f.service.CreateArticle(context.Background(), newArticleInput("Published Post", true))
	require.NoError(t, err)

	assert.NotEmpty(t, f.pages.ArticlePages[created.Slug])
}

func TestCreateArticleSkipsPageWhenUnpublished(t *testing.T) {
	f := newArticleFixture()

	created, err := f.service.CreateArticle(context.Background(), newArticleInput("Draft Post", false))
	require.NoError(t, err)

	assert.Empty(t, f.pages.ArticlePages[created.Slug])
}

func TestCreateArticleRejectsDuplicateSlug(t *testing.T) {
	f := newArticleFixture()

	_, err := f.service.CreateArticle(context.Background(), newArticleInput("Same Title", false))
	require.NoError(t, err)

	_, err = f.service.CreateArticle(context.Background(), newArticleInput("Same Title", false))
	verr, ok := validation.AsError(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	assert.Equal(t, "slug", verr.Fields[0].Field)
}

func TestCreateArticleRejectsInvalidInput(t *testing.T) {
	f := newArticleFixture()

	_, err := f.service.CreateArticle(context.Background(), &models.Article{})
	_, ok := validation.AsError(err)
	assert.True(t, ok, "expected a validation error, got %v", err)
	assert.Empty(t, f.articles.Articles, "nothing should be persisted on validation failure")
}

func TestUpdateArticleSlugChangeMovesPage(t *testing.T) {
	f := newArticleFixture()

	created, err := f.service.CreateArticle(context.Background(), newArticleInput("Old Title", true))
	require.NoError(t, err)

	input := newArticleInput("Old Title", true)
	input.Slug = "brand-new-slug"
	updated, err := f.service.UpdateArticle(context.Background(), created.ID, input)
	require.NoError(t, err)

	assert.Equal(t, "brand-new-slug", updated.Slug)
	assert.Contains(t, f.pages.DeletedArticleSlugs, "old-title")
	assert.NotEmpty(t, f.pages.ArticlePages["brand-new-slug"])
}

func TestUpdateArticlePreservesCreatedAtAndPreviewImage(t *testing.T) {
	f := newArticleFixture()

	original := newArticleInput("Keep Fields", false)
	original.PreviewImage = "https://cdn.example.com/p.jpg"
	original.PreviewImageAlt = "Preview"
	created, err := f.service.CreateArticle(context.Background(), original)
	require.NoError(t, err)
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.articles.Articles[created.ID].CreatedAt = createdAt

	input := newArticleInput("Keep Fields", false)
	input.PreviewImageAlt = "Preview"
	updated, err := f.service.UpdateArticle(context.Background(), created.ID, input)
	require.NoError(t, err)

	assert.Equal(t, createdAt, updated.CreatedAt)
	assert.Equal(t, "https://cdn.example.com/p.jpg", updated.PreviewImage)
}

func TestUpdateArticleNotFound(t *testing.T) {
	f := newArticleFixture()

	_, err := f.service.UpdateArticle(context.Background(), 99, newArticleInput("Missing", false))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnpublishRemovesPage(t *testing.T) {
	f := newArticleFixture()

	created, err := f.service.CreateArticle(context.Background(), newArticleInput("Live Post", true))
	require.NoError(t, err)
	require.NotEmpty(t, f.pages.ArticlePages[created.Slug])

	input := newArticleInput("Live Post", false)
	_, err = f.service.UpdateArticle(context.Background(), created.ID, input)
	require.NoError(t, err)

	assert.Empty(t, f.pages.ArticlePages[created.Slug])
}

func TestDeleteArticleRemovesPage(t *testing.T) {
	f := newArticleFixture()

	created, err := f.service.CreateArticle(context.Background(), newArticleInput("To Delete", true))
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteArticle(context.Background(), created.ID))

	assert.Empty(t, f.articles.Articles)
	assert.Contains(t, f.pages.DeletedArticleSlugs, created.Slug)
}

func TestDeleteArticleNotFound(t *testing.T) {
	f := newArticleFixture()

	assert.ErrorIs(t, f.service.DeleteArticle(context.Background(), 5), ErrNotFound)
}

func TestSyncFailureDoesNotFailSave(t *testing.T) {
	f := newArticleFixture()
	f.pages.SyncError = assert.AnError

	created, err := f.service.CreateArticle(context.Background(), newArticleInput("Still Saved", true))
	require.NoError(t, err)

	assert.Contains(t, f.articles.Articles, created.ID)
}

func TestCreateBlockRequiresArticle(t *testing.T) {
	f := newArticleFixture()

	_, err := f.service.CreateBlock(context.Background(), &models.ArticleBlock{
		ArticleID: 42,
		Type:      models.BlockText,
		Text:      "orphan",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateBlockResyncsPublishedArticle(t *testing.T) {
	f := newArticleFixture()

	created, err := f.service.CreateArticle(context.Background(), newArticleInput("With Blocks", true))
	require.NoError(t, err)
	pageBefore := string(f.pages.ArticlePages[created.Slug])

	_, err = f.service.CreateBlock(context.Background(), &models.ArticleBlock{
		ArticleID: created.ID,
		Type:      models.BlockText,
		Text:      "New paragraph",
	})
	require.NoError(t, err)

	pageAfter := string(f.pages.ArticlePages[created.Slug])
	assert.NotEqual(t, pageBefore, pageAfter, "page should be re-rendered with the new block")
	assert.Contains(t, pageAfter, "New paragraph")
}

func TestUpdateBlockKeepsStoredMedia(t *testing.T) {
	f := newArticleFixture()

	created, err := f.service.CreateArticle(context.Background(), newArticleInput("Media Post", false))
	require.NoError(t, err)

	block, err := f.service.CreateBlock(context.Background(), &models.ArticleBlock{
		ArticleID: created.ID,
		Type:      models.BlockImage,
		Media:     "https://cdn.example.com/a.jpg",
		MediaAlt:  "Alt",
	})
	require.NoError(t, err)

	// An update without a new file keeps the stored one
	updated, err := f.service.UpdateBlock(context.Background(), block.ID, &models.ArticleBlock{
		Type:     models.BlockImage,
		MediaAlt: "New alt",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/a.jpg", updated.Media)
	assert.Equal(t, "New alt", updated.MediaAlt)
}

func TestDeleteBlockAfterArticleGoneIsNoOp(t *testing.T) {
	f := newArticleFixture()

	created, err := f.service.CreateArticle(context.Background(), newArticleInput("Short Lived", false))
	require.NoError(t, err)
	block, err := f.service.CreateBlock(context.Background(), &models.ArticleBlock{
		ArticleID: created.ID,
		Type:      models.BlockText,
		Text:      "text",
	})
	require.NoError(t, err)

	// The article disappears but the block row is still around
	delete(f.articles.Articles, created.ID)

	assert.NoError(t, f.service.DeleteBlock(context.Background(), block.ID))
}

func TestDeleteBlockNotFound(t *testing.T) {
	f := newArticleFixture()

	assert.ErrorIs(t, f.service.DeleteBlock(context.Background(), 7), ErrNotFound)
}

func TestListPublishedFiltersAndPaginates(t *testing.T) {
	f := newArticleFixture()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		article := newArticleInput("Post", i != 4)
		article.Slug = "post-" + string(rune('a'+i))
		created, err := f.service.CreateArticle(context.Background(), article)
		require.NoError(t, err)
		f.articles.Articles[created.ID].CreatedAt = base.Add(time.Duration(i) * time.Hour)
	}

	page, err := f.service.ListPublished(context.Background(), 1, 3)
	require.NoError(t, err)

	assert.Equal(t, 1, page.CurrentPage)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrevious)
	require.NotNil(t, page.NextPage)
	assert.Equal(t, 2, *page.NextPage)
	require.Len(t, page.Data, 3)

	// Newest first; the unpublished fifth article is absent
	assert.Equal(t, "post-d", page.Data[0].Slug)

	second, err := f.service.ListPublished(context.Background(), 2, 3)
	require.NoError(t, err)
	assert.Len(t, second.Data, 1)
	assert.False(t, second.HasNext)
	assert.True(t, second.HasPrevious)
	assert.Nil(t, second.NextPage)
}

func TestListPublishedClampsPageNumber(t *testing.T) {
	f := newArticleFixture()

	for i := 0; i < 3; i++ {
		article := newArticleInput("Post", true)
		article.Slug = "clamp-" + string(rune('a'+i))
		_, err := f.service.CreateArticle(context.Background(), article)
		require.NoError(t, err)
	}

	page, err := f.service.ListPublished(context.Background(), 99, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.CurrentPage)

	page, err = f.service.ListPublished(context.Background(), -1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
}

func TestListPublishedExcerptFallsBackToSEODescription(t *testing.T) {
	f := newArticleFixture()

	article := newArticleInput("No Excerpt", true)
	article.SEODescription = "From SEO"
	_, err := f.service.CreateArticle(context.Background(), article)
	require.NoError(t, err)

	page, err := f.service.ListPublished(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "From SEO", page.Data[0].Excerpt)
}

func TestGetDetailHidesUnpublished(t *testing.T) {
	f := newArticleFixture()

	created, err := f.service.CreateArticle(context.Background(), newArticleInput("Hidden", false))
	require.NoError(t, err)

	_, err = f.service.GetDetail(context.Background(), created.Slug)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.service.GetDetail(context.Background(), "no-such-slug")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetDetailCapsRelatedArticles(t *testing.T) {
	f := newArticleFixture()

	for i := 0; i < 9; i++ {
		article := newArticleInput("Post", true)
		article.Slug = "related-" + string(rune('a'+i))
		_, err := f.service.CreateArticle(context.Background(), article)
		require.NoError(t, err)
	}

	detail, err := f.service.GetDetail(context.Background(), "related-a")
	require.NoError(t, err)

	assert.Len(t, detail.Related, relatedLimit)
	for _, related := range detail.Related {
		assert.NotEqual(t, "related-a", related.Slug)
	}
}

func TestRebuildPagesCounts(t *testing.T) {
	f := newArticleFixture()

	for i := 0; i < 3; i++ {
		article := newArticleInput("Rebuild", i < 2)
		article.Slug = "rebuild-" + string(rune('a'+i))
		_, err := f.service.CreateArticle(context.Background(), article)
		require.NoError(t, err)
	}

	rebuilt, deleted, err := f.service.RebuildPages(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, rebuilt)
	assert.Equal(t, 0, deleted)

	rebuilt, deleted, err = f.service.RebuildPages(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, rebuilt)
	assert.Equal(t, 1, deleted)
	assert.Contains(t, f.pages.DeletedArticleSlugs, "rebuild-c")
}
