// Package staticpage keeps the generated static HTML files in sync with the
// persisted content items. One file exists per published item; everything
// under the output root is derived state that cmd/rebuild can reconstruct.
package staticpage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
)

// PageState is the snapshot of the fields the synchronizer keys pages on.
// Callers pass explicit before/after snapshots around a save instead of
// stashing previous values on the item itself.
type PageState struct {
	ID        int64
	Slug      string
	Published bool
}

// RenderFunc produces the page bytes; it is only invoked when a write is
// actually needed.
type RenderFunc func() ([]byte, error)

// Synchronizer writes and deletes generated pages under a single output root
type Synchronizer struct {
	root string
	log  zerolog.Logger
}

// New creates a Synchronizer writing below the given root directory
func New(root string, log zerolog.Logger) *Synchronizer {
	return &Synchronizer{
		root: root,
		log:  log.With().Str("component", "staticpage").Logger(),
	}
}

// SyncArticle applies one lifecycle transition for an article.
// before is nil on create, after is nil on delete.
func (s *Synchronizer) SyncArticle(before, after *PageState, renderPage RenderFunc) error {
	if after == nil {
		if before == nil {
			return nil
		}
		return s.DeleteArticlePage(before.ID, before.Slug)
	}

	// A slug change abandons the page at the old key.
	if before != nil && before.Published && before.Slug != after.Slug {
		if err := s.DeleteArticlePage(after.ID, before.Slug); err != nil {
			return err
		}
	}

	if !after.Published {
		return s.DeleteArticlePage(after.ID, after.Slug)
	}

	page, err := renderPage()
	if err != nil {
		return fmt.Errorf("render article %q: %w", after.Slug, err)
	}
	return s.WriteArticlePage(after.Slug, page)
}

// SyncProject applies one lifecycle transition for a project
func (s *Synchronizer) SyncProject(before, after *PageState, renderPage RenderFunc) error {
	if after == nil {
		if before == nil {
			return nil
		}
		return s.DeleteProjectPage(before.Slug)
	}

	if before != nil && before.Published && before.Slug != after.Slug {
		if err := s.DeleteProjectPage(before.Slug); err != nil {
			return err
		}
	}

	if !after.Published {
		return s.DeleteProjectPage(after.Slug)
	}

	page, err := renderPage()
	if err != nil {
		return fmt.Errorf("render project %q: %w", after.Slug, err)
	}
	return s.WriteProjectPage(after.Slug, page)
}

// ArticlePagePath returns the canonical on-disk path of an article page
func (s *Synchronizer) ArticlePagePath(slug string) string {
	return filepath.Join(s.root, "articles", slug, "index.html")
}

// ProjectPagePath returns the canonical on-disk path of a project page
func (s *Synchronizer) ProjectPagePath(slug string) string {
	return filepath.Join(s.root, "projects", slug+".html")
}

// WriteArticlePage writes the page at {root}/articles/{slug}/index.html,
// replacing any existing file. The content lands in a temp file first so a
// failed write never truncates the previous page.
func (s *Synchronizer) WriteArticlePage(slug string, page []byte) error {
	dir := filepath.Join(s.root, "articles", slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create page directory: %w", err)
	}

	if err := writeFileAtomic(filepath.Join(dir, "index.html"), page); err != nil {
		return fmt.Errorf("write article page %q: %w", slug, err)
	}

	s.log.Debug().Str("slug", slug).Msg("Article page written")
	return nil
}

// WriteProjectPage writes the page at {root}/projects/{slug}.html
func (s *Synchronizer) WriteProjectPage(slug string, page []byte) error {
	dir := filepath.Join(s.root, "projects")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create page directory: %w", err)
	}

	if err := writeFileAtomic(filepath.Join(dir, slug+".html"), page); err != nil {
		return fmt.Errorf("write project page %q: %w", slug, err)
	}

	s.log.Debug().Str("slug", slug).Msg("Project page written")
	return nil
}

// DeleteArticlePage removes the article page at the canonical path and sweeps
// the legacy layouts from earlier generations of the site:
//
//	{root}/articles/{slug}.html      (flat file layout)
//	{root}/article/{id}/index.html   (id-keyed layout)
//
// Deleting a page that does not exist is a no-op.
func (s *Synchronizer) DeleteArticlePage(id int64, slug string) error {
	articleDir := filepath.Join(s.root, "articles", slug)
	legacyIDDir := filepath.Join(s.root, "article", strconv.FormatInt(id, 10))

	paths := []string{
		filepath.Join(articleDir, "index.html"),
		filepath.Join(s.root, "articles", slug+".html"),
		filepath.Join(legacyIDDir, "index.html"),
	}
	for _, path := range paths {
		if err := removeFileIfExists(path); err != nil {
			return fmt.Errorf("delete article page %q: %w", slug, err)
		}
	}

	for _, dir := range []string{
		articleDir,
		legacyIDDir,
		filepath.Join(s.root, "article"),
		filepath.Join(s.root, "articles"),
	} {
		if err := removeDirIfEmpty(dir); err != nil {
			return fmt.Errorf("prune page directory: %w", err)
		}
	}

	s.log.Debug().Str("slug", slug).Msg("Article page deleted")
	return nil
}

// DeleteProjectPage removes the project page; missing files are a no-op
func (s *Synchronizer) DeleteProjectPage(slug string) error {
	if err := removeFileIfExists(s.ProjectPagePath(slug)); err != nil {
		return fmt.Errorf("delete project page %q: %w", slug, err)
	}
	if err := removeDirIfEmpty(filepath.Join(s.root, "projects")); err != nil {
		return fmt.Errorf("prune page directory: %w", err)
	}

	s.log.Debug().Str("slug", slug).Msg("Project page deleted")
	return nil
}

// writeFileAtomic writes via a temp file in the target directory and renames
// it over the destination.
func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".page-*.tmp")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

func removeFileIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func removeDirIfEmpty(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(entries) > 0 {
		return nil
	}
	if err := os.Remove(dir); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
