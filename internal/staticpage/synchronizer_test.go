package staticpage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func newTestSynchronizer(t *testing.T) (*Synchronizer, string) {
	t.Helper()
	root := t.TempDir()
	return New(root, zerolog.Nop()), root
}

func staticPageRender(content string) RenderFunc {
	return func() ([]byte, error) {
		return []byte(content), nil
	}
}

func fileContent(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(content)
}

func mustNotExist(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s to not exist (err = %v)", path, err)
	}
}

func TestSyncArticlePublishWritesPage(t *testing.T) {
	s, root := newTestSynchronizer(t)

	after := &PageState{ID: 1, Slug: "hello", Published: true}
	if err := s.SyncArticle(nil, after, staticPageRender("<html>hello</html>")); err != nil {
		t.Fatalf("SyncArticle: %v", err)
	}

	path := filepath.Join(root, "articles", "hello", "index.html")
	if got := fileContent(t, path); got != "<html>hello</html>" {
		t.Errorf("page content = %q", got)
	}
}

func TestSyncArticleUnpublishedCreateWritesNothing(t *testing.T) {
	s, root := newTestSynchronizer(t)

	after := &PageState{ID: 1, Slug: "draft", Published: false}
	if err := s.SyncArticle(nil, after, nil); err != nil {
		t.Fatalf("SyncArticle: %v", err)
	}

	mustNotExist(t, filepath.Join(root, "articles", "draft", "index.html"))
}

func TestSyncArticleUnpublishRemovesPageAndEmptyDirs(t *testing.T) {
	s, root := newTestSynchronizer(t)

	published := &PageState{ID: 1, Slug: "hello", Published: true}
	if err := s.SyncArticle(nil, published, staticPageRender("page")); err != nil {
		t.Fatalf("publish: %v", err)
	}

	unpublished := &PageState{ID: 1, Slug: "hello", Published: false}
	if err := s.SyncArticle(published, unpublished, nil); err != nil {
		t.Fatalf("unpublish: %v", err)
	}

	mustNotExist(t, filepath.Join(root, "articles", "hello", "index.html"))
	mustNotExist(t, filepath.Join(root, "articles", "hello"))
	mustNotExist(t, filepath.Join(root, "articles"))
}

func TestSyncArticleSlugChangeMovesPage(t *testing.T) {
	s, root := newTestSynchronizer(t)

	before := &PageState{ID: 1, Slug: "old-slug", Published: true}
	if err := s.SyncArticle(nil, before, staticPageRender("v1")); err != nil {
		t.Fatalf("publish: %v", err)
	}

	after := &PageState{ID: 1, Slug: "new-slug", Published: true}
	if err := s.SyncArticle(before, after, staticPageRender("v2")); err != nil {
		t.Fatalf("rename: %v", err)
	}

	mustNotExist(t, filepath.Join(root, "articles", "old-slug"))
	path := filepath.Join(root, "articles", "new-slug", "index.html")
	if got := fileContent(t, path); got != "v2" {
		t.Errorf("page content = %q", got)
	}
}

func TestSyncArticleDeleteSweepsLegacyLayouts(t *testing.T) {
	s, root := newTestSynchronizer(t)

	// Seed the canonical page plus both legacy layouts
	before := &PageState{ID: 7, Slug: "old-post", Published: true}
	if err := s.SyncArticle(nil, before, staticPageRender("page")); err != nil {
		t.Fatalf("publish: %v", err)
	}
	legacyFlat := filepath.Join(root, "articles", "old-post.html")
	if err := os.WriteFile(legacyFlat, []byte("legacy"), 0o644); err != nil {
		t.Fatal(err)
	}
	legacyIDDir := filepath.Join(root, "article", "7")
	if err := os.MkdirAll(legacyIDDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(legacyIDDir, "index.html"), []byte("legacy"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := s.SyncArticle(before, nil, nil); err != nil {
		t.Fatalf("delete: %v", err)
	}

	mustNotExist(t, filepath.Join(root, "articles", "old-post", "index.html"))
	mustNotExist(t, legacyFlat)
	mustNotExist(t, filepath.Join(legacyIDDir, "index.html"))
	mustNotExist(t, legacyIDDir)
	mustNotExist(t, filepath.Join(root, "article"))
	mustNotExist(t, filepath.Join(root, "articles"))
}

func TestDeleteArticlePageIsIdempotent(t *testing.T) {
	s, _ := newTestSynchronizer(t)

	if err := s.DeleteArticlePage(42, "never-existed"); err != nil {
		t.Errorf("first delete: %v", err)
	}
	if err := s.DeleteArticlePage(42, "never-existed"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestDeleteKeepsNonEmptyDirectories(t *testing.T) {
	s, root := newTestSynchronizer(t)

	first := &PageState{ID: 1, Slug: "first", Published: true}
	second := &PageState{ID: 2, Slug: "second", Published: true}
	if err := s.SyncArticle(nil, first, staticPageRender("a")); err != nil {
		t.Fatal(err)
	}
	if err := s.SyncArticle(nil, second, staticPageRender("b")); err != nil {
		t.Fatal(err)
	}

	if err := s.SyncArticle(first, nil, nil); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// The shared articles directory still holds the second page
	path := filepath.Join(root, "articles", "second", "index.html")
	if got := fileContent(t, path); got != "b" {
		t.Errorf("surviving page content = %q", got)
	}
}

func TestWriteArticlePageReplacesExisting(t *testing.T) {
	s, root := newTestSynchronizer(t)

	if err := s.WriteArticlePage("post", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteArticlePage("post", []byte("v2")); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(root, "articles", "post", "index.html")
	if got := fileContent(t, path); got != "v2" {
		t.Errorf("page content = %q, want v2", got)
	}

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Join(root, "articles", "post"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only index.html, found %d entries", len(entries))
	}
}

func TestSyncProjectLifecycle(t *testing.T) {
	s, root := newTestSynchronizer(t)

	after := &PageState{ID: 1, Slug: "tower", Published: true}
	if err := s.SyncProject(nil, after, staticPageRender("project")); err != nil {
		t.Fatalf("publish: %v", err)
	}

	path := filepath.Join(root, "projects", "tower.html")
	if got := fileContent(t, path); got != "project" {
		t.Errorf("page content = %q", got)
	}

	if err := s.SyncProject(after, nil, nil); err != nil {
		t.Fatalf("delete: %v", err)
	}
	mustNotExist(t, path)
	mustNotExist(t, filepath.Join(root, "projects"))
}

func TestSyncProjectSlugChange(t *testing.T) {
	s, root := newTestSynchronizer(t)

	before := &PageState{ID: 1, Slug: "old", Published: true}
	if err := s.SyncProject(nil, before, staticPageRender("v1")); err != nil {
		t.Fatal(err)
	}

	after := &PageState{ID: 1, Slug: "new", Published: true}
	if err := s.SyncProject(before, after, staticPageRender("v2")); err != nil {
		t.Fatal(err)
	}

	mustNotExist(t, filepath.Join(root, "projects", "old.html"))
	if got := fileContent(t, filepath.Join(root, "projects", "new.html")); got != "v2" {
		t.Errorf("page content = %q", got)
	}
}
