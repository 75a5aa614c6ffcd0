package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/publishing-content-api/internal/config"
	"github.com/publishing-content-api/internal/mocks"
	"github.com/publishing-content-api/internal/models"
	"github.com/publishing-content-api/internal/repository"
	"github.com/publishing-content-api/internal/service"
	"github.com/publishing-content-api/internal/storage"
)

type apiFixture struct {
	router   *gin.Engine
	services *service.Services
	articles *mocks.MockArticleRepository
	projects *mocks.MockProjectRepository
	uploader *mocks.MockUploader
}

func newAPIFixture() *apiFixture {
	articles := mocks.NewMockArticleRepository()
	projects := mocks.NewMockProjectRepository()

	repos := &repository.Repositories{
		Article:      articles,
		ArticleBlock: mocks.NewMockArticleBlockRepository(),
		Project:      projects,
		ProjectBlock: mocks.NewMockProjectBlockRepository(),
		Category:     mocks.NewMockCategoryRepository(),
	}

	cfg := &config.Config{
		Site: config.SiteConfig{PublicBaseURL: "https://cultnova.ru"},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"https://cultnova.ru", "https://www.cultnova.ru"},
		},
	}

	uploader := &mocks.MockUploader{}
	services := service.NewServices(repos, mocks.NewMockPageSyncer(), uploader, cfg, zerolog.Nop())

	return &apiFixture{
		router:   NewRouter(services, cfg, zerolog.Nop()),
		services: services,
		articles: articles,
		projects: projects,
		uploader: uploader,
	}
}

func (f *apiFixture) request(t *testing.T, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) seedArticle(t *testing.T, title string, published bool) *models.Article {
	t.Helper()
	article, err := f.services.Article.CreateArticle(context.Background(), &models.Article{
		ContentMeta: models.ContentMeta{
			Title:       title,
			IsPublished: published,
		},
		SEOTitle:       title,
		SEODescription: "About " + title,
	})
	require.NoError(t, err)
	return article
}

func TestHealthCheck(t *testing.T) {
	f := newAPIFixture()

	w := f.request(t, http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestListArticles(t *testing.T) {
	f := newAPIFixture()
	f.seedArticle(t, "Published One", true)
	f.seedArticle(t, "Draft One", false)

	w := f.request(t, http.MethodGet, "/api/articles", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page service.ArticleListPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))

	assert.Equal(t, 1, page.CurrentPage)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "published-one", page.Data[0].Slug)
	assert.Equal(t, "/articles/published-one/", page.Data[0].URL)
}

func TestListArticlesLimitParsing(t *testing.T) {
	f := newAPIFixture()
	for i := 0; i < 3; i++ {
		f.seedArticle(t, "Post "+string(rune('A'+i)), true)
	}

	// Non-numeric limit falls back to the default page size
	w := f.request(t, http.MethodGet, "/api/articles?limit=abc", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page service.ArticleListPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Data, 3)

	// An explicit limit controls the page size
	w = f.request(t, http.MethodGet, "/api/articles?limit=2", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Data, 2)
	assert.True(t, page.HasNext)

	// Oversized limits are clamped rather than rejected
	w = f.request(t, http.MethodGet, "/api/articles?limit=100000", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSanitizeLimit(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", service.DefaultLimit},
		{"abc", service.DefaultLimit},
		{"5", 5},
		{"0", 1},
		{"-2", 1},
		{"100", 100},
		{"101", service.MaxLimit},
		{"100000", service.MaxLimit},
	}

	for _, tt := range tests {
		if got := sanitizeLimit(tt.raw); got != tt.want {
			t.Errorf("sanitizeLimit(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestArticleDetail(t *testing.T) {
	f := newAPIFixture()
	article := f.seedArticle(t, "Readable", true)

	w := f.request(t, http.MethodGet, "/api/articles/"+article.Slug, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `"slug":"readable"`)
	assert.Contains(t, body, `"related_articles"`)
}

func TestArticleDetailNotFoundParity(t *testing.T) {
	f := newAPIFixture()
	draft := f.seedArticle(t, "Unlisted", false)

	missing := f.request(t, http.MethodGet, "/api/articles/no-such-slug", nil, nil)
	unpublished := f.request(t, http.MethodGet, "/api/articles/"+draft.Slug, nil, nil)

	// Missing and unpublished slugs are indistinguishable
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, http.StatusNotFound, unpublished.Code)
	assert.JSONEq(t, missing.Body.String(), unpublished.Body.String())
}

func TestProjectListUnknownCategory(t *testing.T) {
	f := newAPIFixture()

	w := f.request(t, http.MethodGet, "/api/projects/no-such-category", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectCategoriesEndpoint(t *testing.T) {
	f := newAPIFixture()

	body, err := json.Marshal(models.ProjectCategory{Title: "Residential"})
	require.NoError(t, err)
	created := f.request(t, http.MethodPost, "/admin/categories", body, nil)
	require.Equal(t, http.StatusCreated, created.Code)

	w := f.request(t, http.MethodGet, "/api/projects/categories", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var categories []models.ProjectCategory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &categories))
	require.Len(t, categories, 1)
	assert.Equal(t, "residential", categories[0].Slug)
}

func TestCORSAllowedOrigins(t *testing.T) {
	f := newAPIFixture()

	tests := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"production origin", "https://cultnova.ru", true},
		{"www origin", "https://www.cultnova.ru", true},
		{"localhost any port", "http://localhost:5173", true},
		{"loopback any port", "http://127.0.0.1:3000", true},
		{"localhost without port", "http://localhost", true},
		{"unknown origin", "https://evil.example", false},
		{"https localhost not matched", "https://localhost:5173", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.request(t, http.MethodGet, "/api/articles", nil, map[string]string{"Origin": tt.origin})
			require.Equal(t, http.StatusOK, w.Code)

			got := w.Header().Get("Access-Control-Allow-Origin")
			if tt.allowed {
				assert.Equal(t, tt.origin, got)
				assert.Contains(t, w.Header().Values("Vary"), "Origin")
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	f := newAPIFixture()

	w := f.request(t, http.MethodOptions, "/api/articles", nil, map[string]string{
		"Origin": "http://localhost:5173",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Headers"))

	// Preflight from an unknown origin is answered without CORS headers
	denied := f.request(t, http.MethodOptions, "/api/articles", nil, map[string]string{
		"Origin": "https://evil.example",
	})
	assert.Equal(t, http.StatusOK, denied.Code)
	assert.Empty(t, denied.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSDoesNotApplyOutsideAPI(t *testing.T) {
	f := newAPIFixture()

	w := f.request(t, http.MethodGet, "/health", nil, map[string]string{
		"Origin": "https://cultnova.ru",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAdminCreateArticle(t *testing.T) {
	f := newAPIFixture()

	body, err := json.Marshal(map[string]interface{}{
		"title":           "New Article",
		"is_published":    false,
		"seo_title":       "New Article",
		"seo_description": "Description",
	})
	require.NoError(t, err)

	w := f.request(t, http.MethodPost, "/admin/articles", body, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Article
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "new-article", created.Slug)
	assert.NotZero(t, created.ID)
}

func TestAdminCreateArticleValidationErrors(t *testing.T) {
	f := newAPIFixture()

	w := f.request(t, http.MethodPost, "/admin/articles", []byte(`{}`), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error  string `json:"error"`
		Fields []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Fields)
}

func TestAdminUpdateArticleNotFound(t *testing.T) {
	f := newAPIFixture()

	body := []byte(`{"title":"X","seo_title":"X","seo_description":"X"}`)
	w := f.request(t, http.MethodPut, "/admin/articles/999", body, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminInvalidID(t *testing.T) {
	f := newAPIFixture()

	w := f.request(t, http.MethodDelete, "/admin/articles/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminDeleteArticle(t *testing.T) {
	f := newAPIFixture()
	article := f.seedArticle(t, "Doomed", false)

	w := f.request(t, http.MethodDelete, "/admin/articles/1", nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotContains(t, f.articles.Articles, article.ID)
}

func TestUploadMedia(t *testing.T) {
	f := newAPIFixture()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("image-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"url"`)
	assert.Equal(t, []string{"photo.jpg"}, f.uploader.Uploads)
}

func TestUploadMediaWithoutFile(t *testing.T) {
	f := newAPIFixture()

	req := httptest.NewRequest(http.MethodPost, "/admin/media", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=empty")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadMediaGatewayFailure(t *testing.T) {
	f := newAPIFixture()
	f.uploader.UploadError = storage.ErrUploadFailed

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("image-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
