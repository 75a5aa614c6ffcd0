package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/publishing-content-api/internal/models"
	"github.com/publishing-content-api/internal/repository"
	"github.com/publishing-content-api/internal/staticpage"
	"github.com/publishing-content-api/internal/validation"
)

// projectService implements ProjectService
type projectService struct {
	projects   repository.ProjectRepository
	blocks     repository.ProjectBlockRepository
	categories repository.CategoryRepository
	pages      PageSyncer
	log        zerolog.Logger
}

func newProjectService(repos *repository.Repositories, pages PageSyncer, log zerolog.Logger) *projectService {
	return &projectService{
		projects:   repos.Project,
		blocks:     repos.ProjectBlock,
		categories: repos.Category,
		pages:      pages,
		log:        log.With().Str("service", "project").Logger(),
	}
}

// CreateCategory persists a new project category
func (s *projectService) CreateCategory(ctx context.Context, category *models.ProjectCategory) (*models.ProjectCategory, error) {
	if category.Slug == "" {
		category.Slug = validation.Slugify(category.Title)
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories returns all project categories, newest first
func (s *projectService) ListCategories(ctx context.Context) ([]models.ProjectCategory, error) {
	return s.categories.List(ctx)
}

// CreateProject validates and persists a new project
func (s *projectService) CreateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	validation.TrimProject(project)
	if project.Slug == "" {
		project.Slug = validation.Slugify(project.Title)
	}

	if err := s.validateProject(ctx, project, 0); err != nil {
		return nil, err
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}

	s.syncPage(ctx, nil, project)
	return project, nil
}

// UpdateProject validates and persists changes to an existing project
func (s *projectService) UpdateProject(ctx context.Context, id int64, project *models.Project) (*models.Project, error) {
	current, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}
	before := pageState(current.ID, current.Slug, current.IsPublished)

	validation.TrimProject(project)
	if project.Slug == "" {
		project.Slug = validation.Slugify(project.Title)
	}
	project.ID = current.ID
	project.CreatedAt = current.CreatedAt
	if project.PreviewImage == "" {
		project.PreviewImage = current.PreviewImage
	}

	if err := s.validateProject(ctx, project, current.ID); err != nil {
		return nil, err
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	s.syncPage(ctx, before, project)
	return project, nil
}

// DeleteProject removes a project; blocks cascade away
func (s *projectService) DeleteProject(ctx context.Context, id int64) error {
	current, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNotFound
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}

	before := pageState(current.ID, current.Slug, current.IsPublished)
	if err := s.pages.SyncProject(before, nil, nil); err != nil {
		s.reportSyncFailure(err, current.Slug)
	}
	return nil
}

// CreateBlock adds a block to a project
func (s *projectService) CreateBlock(ctx context.Context, block *models.ProjectBlock) (*models.ProjectBlock, error) {
	project, err := s.projects.GetByID(ctx, block.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}

	if err := validation.ValidateProjectBlock(block, nil); err != nil {
		return nil, err
	}

	if err := s.blocks.Create(ctx, block); err != nil {
		return nil, err
	}

	s.resyncIfPublished(ctx, project)
	return block, nil
}

// UpdateBlock updates a project block
func (s *projectService) UpdateBlock(ctx context.Context, id int64, block *models.ProjectBlock) (*models.ProjectBlock, error) {
	current, err := s.blocks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}

	if err := validation.ValidateProjectBlock(block, current); err != nil {
		return nil, err
	}

	block.ID = current.ID
	block.ProjectID = current.ProjectID
	if block.Media == "" && (block.Type == models.BlockImage || block.Type == models.BlockVideo) {
		block.Media = current.Media
	}
	if block.FirstVideoFrame == "" && block.Type == models.BlockVideo {
		block.FirstVideoFrame = current.FirstVideoFrame
	}

	if err := s.blocks.Update(ctx, block); err != nil {
		return nil, err
	}

	project, err := s.projects.GetByID(ctx, block.ProjectID)
	if err != nil {
		return nil, err
	}
	if project != nil {
		s.resyncIfPublished(ctx, project)
	}
	return block, nil
}

// DeleteBlock removes a project block; a block whose project has already been
// deleted is a no-op.
func (s *projectService) DeleteBlock(ctx context.Context, id int64) error {
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

	project, err := s.projects.GetByID(ctx, current.ProjectID)
	if err != nil {
		return err
	}
	if project == nil {
		return nil
	}

	s.resyncIfPublished(ctx, project)
	return nil
}

// ListByCategory returns a page of projects in a category, newest first.
// Unlike articles, project listings are not filtered by publication.
func (s *projectService) ListByCategory(ctx context.Context, categorySlug string, page, limit int) (*ProjectListPage, error) {
	category, err := s.categories.GetBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}

	total, err := s.projects.CountByCategory(ctx, categorySlug)
	if err != nil {
		return nil, err
	}

	page = sanitizePage(page, limit, total)
	projects, err := s.projects.ListByCategory(ctx, categorySlug, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	result := &ProjectListPage{
		Page:        page,
		HasNext:     page*limit < total,
		HasPrevious: page > 1,
		Data:        []ProjectSummary{},
	}
	if result.HasNext {
		next := page + 1
		result.NextPage = &next
	}

	for _, project := range projects {
		result.Data = append(result.Data, ProjectSummary{
			ID:           project.ID,
			Title:        project.Title,
			Slug:         project.Slug,
			CustomerName: project.CustomerName,
			Year:         project.Year,
			Type:         project.ProjectType,
			Preview:      nilIfEmpty(project.PreviewImage),
		})
	}

	return result, nil
}

// GetDetailBlocks returns the ordered per-type content projection of a
// project's blocks.
func (s *projectService) GetDetailBlocks(ctx context.Context, slug string) ([]ProjectBlockView, error) {
	project, err := s.projects.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}

	blocks, err := s.blocks.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	views := []ProjectBlockView{}
	for _, block := range blocks {
		view := ProjectBlockView{Type: block.Type}
		switch block.Type {
		case models.BlockImage:
			view.Content = nilIfEmpty(block.Media)
		case models.BlockVideo:
			view.Content = nilIfEmpty(block.Media)
			view.FirstVideoFrame = nilIfEmpty(block.FirstVideoFrame)
		case models.BlockText, models.BlockHeading:
			view.Content = nilIfEmpty(block.Text)
		}
		views = append(views, view)
	}

	return views, nil
}

// RebuildPages regenerates the static pages of all published projects and,
// optionally, deletes pages of unpublished ones.
func (s *projectService) RebuildPages(ctx context.Context, deleteUnpublished bool) (int, int, error) {
	published, err := s.projects.ListByPublished(ctx, true)
	if err != nil {
		return 0, 0, err
	}

	rebuilt := 0
	for _, project := range published {
		page, err := s.renderPage(ctx, project)
		if err != nil {
			return rebuilt, 0, err
		}
		if err := s.pages.WriteProjectPage(project.Slug, page); err != nil {
			return rebuilt, 0, err
		}
		rebuilt++
	}

	deleted := 0
	if deleteUnpublished {
		unpublished, err := s.projects.ListByPublished(ctx, false)
		if err != nil {
			return rebuilt, deleted, err
		}
		for _, project := range unpublished {
			if err := s.pages.DeleteProjectPage(project.Slug); err != nil {
				return rebuilt, deleted, err
			}
			deleted++
		}
	}

	return rebuilt, deleted, nil
}

func (s *projectService) validateProject(ctx context.Context, project *models.Project, excludeID int64) error {
	if err := validation.ValidateProject(project); err != nil {
		return err
	}

	taken, err := s.projects.SlugExists(ctx, project.Slug, excludeID)
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

func (s *projectService) renderPage(ctx context.Context, project *models.Project) ([]byte, error) {
	blocks, err := s.blocks.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	return staticpage.RenderProjectPage(project, blocks)
}

func (s *projectService) syncPage(ctx context.Context, before *staticpage.PageState, project *models.Project) {
	after := pageState(project.ID, project.Slug, project.IsPublished)
	renderPage := func() ([]byte, error) { return s.renderPage(ctx, project) }

	if err := s.pages.SyncProject(before, after, renderPage); err != nil {
		s.reportSyncFailure(err, project.Slug)
	}
}

func (s *projectService) resyncIfPublished(ctx context.Context, project *models.Project) {
	if !project.IsPublished {
		return
	}
	s.syncPage(ctx, pageState(project.ID, project.Slug, true), project)
}

func (s *projectService) reportSyncFailure(err error, slug string) {
	s.log.Error().Err(err).Str("slug", slug).
		Msg("Static page out of sync with database, run the rebuild tool")
}
