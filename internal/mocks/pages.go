package mocks

import (
	"context"
	"fmt"
	"io"

	"github.com/publishing-content-api/internal/staticpage"
)

// SyncCall records one synchronizer invocation
type SyncCall struct {
	Before *staticpage.PageState
	After  *staticpage.PageState
}

// MockPageSyncer is a mock implementation of the page synchronizer. Rendered
// page bytes are kept by slug so tests can assert on page lifecycle.
type MockPageSyncer struct {
	ArticleSyncs []SyncCall
	ProjectSyncs []SyncCall

	ArticlePages map[string][]byte
	ProjectPages map[string][]byte

	DeletedArticleSlugs []string
	DeletedProjectSlugs []string

	SyncError  error
	WriteError error
}

func NewMockPageSyncer() *MockPageSyncer {
	return &MockPageSyncer{
		ArticlePages: make(map[string][]byte),
		ProjectPages: make(map[string][]byte),
	}
}

func (m *MockPageSyncer) SyncArticle(before, after *staticpage.PageState, renderPage staticpage.RenderFunc) error {
	m.ArticleSyncs = append(m.ArticleSyncs, SyncCall{Before: before, After: after})
	if m.SyncError != nil {
		return m.SyncError
	}
	if before != nil && (after == nil || before.Slug != after.Slug || !after.Published) {
		m.DeletedArticleSlugs = append(m.DeletedArticleSlugs, before.Slug)
		delete(m.ArticlePages, before.Slug)
	}
	if after != nil && after.Published {
		page, err := renderPage()
		if err != nil {
			return err
		}
		m.ArticlePages[after.Slug] = page
	}
	return nil
}

func (m *MockPageSyncer) SyncProject(before, after *staticpage.PageState, renderPage staticpage.RenderFunc) error {
	m.ProjectSyncs = append(m.ProjectSyncs, SyncCall{Before: before, After: after})
	if m.SyncError != nil {
		return m.SyncError
	}
	if before != nil && (after == nil || before.Slug != after.Slug || !after.Published) {
		m.DeletedProjectSlugs = append(m.DeletedProjectSlugs, before.Slug)
		delete(m.ProjectPages, before.Slug)
	}
	if after != nil && after.Published {
		page, err := renderPage()
		if err != nil {
			return err
		}
		m.ProjectPages[after.Slug] = page
	}
	return nil
}

func (m *MockPageSyncer) WriteArticlePage(slug string, page []byte) error {
	if m.WriteError != nil {
		return m.WriteError
	}
	m.ArticlePages[slug] = page
	return nil
}

func (m *MockPageSyncer) WriteProjectPage(slug string, page []byte) error {
	if m.WriteError != nil {
		return m.WriteError
	}
	m.ProjectPages[slug] = page
	return nil
}

func (m *MockPageSyncer) DeleteArticlePage(id int64, slug string) error {
	m.DeletedArticleSlugs = append(m.DeletedArticleSlugs, slug)
	delete(m.ArticlePages, slug)
	return nil
}

func (m *MockPageSyncer) DeleteProjectPage(slug string) error {
	m.DeletedProjectSlugs = append(m.DeletedProjectSlugs, slug)
	delete(m.ProjectPages, slug)
	return nil
}

// MockUploader is a mock implementation of the storage uploader
type MockUploader struct {
	Uploads     []string
	UploadError error
}

func (m *MockUploader) Upload(ctx context.Context, filename string, body io.Reader, folder string) (string, error) {
	if m.UploadError != nil {
		return "", m.UploadError
	}
	m.Uploads = append(m.Uploads, filename)
	return fmt.Sprintf("https://media.example.com/%s/%s", folder, filename), nil
}
