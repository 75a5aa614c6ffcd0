package mocks

import (
	"context"
	"sort"

	"github.com/publishing-content-api/internal/models"
)

// MockArticleRepository is a mock implementation of ArticleRepository
type MockArticleRepository struct {
	Articles    map[int64]*models.Article
	NextID      int64
	CreateError error
	UpdateError error
	DeleteError error
	ListError   error
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		Articles: make(map[int64]*models.Article),
		NextID:   1,
	}
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	article.ID = m.NextID
	m.NextID++
	copied := *article
	m.Articles[copied.ID] = &copied
	return nil
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	copied := *article
	m.Articles[copied.ID] = &copied
	return nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.Articles, id)
	return nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	return m.Articles[id], nil
}

func (m *MockArticleRepository) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Article, error) {
	for _, article := range m.Articles {
		if article.Slug != slug {
			continue
		}
		if publishedOnly && !article.IsPublished {
			continue
		}
		return article, nil
	}
	return nil, nil
}

func (m *MockArticleRepository) ListPublished(ctx context.Context, offset, limit int) ([]*models.Article, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	published := m.sortedPublished()
	if offset >= len(published) {
		return nil, nil
	}
	published = published[offset:]
	if len(published) > limit {
		published = published[:limit]
	}
	return published, nil
}

func (m *MockArticleRepository) ListRelated(ctx context.Context, excludeSlug string, limit int) ([]*models.Article, error) {
	var related []*models.Article
	for _, article := range m.sortedPublished() {
		if article.Slug == excludeSlug {
			continue
		}
		related = append(related, article)
		if len(related) == limit {
			break
		}
	}
	return related, nil
}

func (m *MockArticleRepository) ListByPublished(ctx context.Context, published bool) ([]*models.Article, error) {
	var matched []*models.Article
	for _, article := range m.sortedAll() {
		if article.IsPublished == published {
			matched = append(matched, article)
		}
	}
	return matched, nil
}

func (m *MockArticleRepository) CountPublished(ctx context.Context) (int, error) {
	count := 0
	for _, article := range m.Articles {
		if article.IsPublished {
			count++
		}
	}
	return count, nil
}

func (m *MockArticleRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	for _, article := range m.Articles {
		if article.Slug == slug && article.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockArticleRepository) sortedAll() []*models.Article {
	all := make([]*models.Article, 0, len(m.Articles))
	for _, article := range m.Articles {
		all = append(all, article)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	return all
}

func (m *MockArticleRepository) sortedPublished() []*models.Article {
	var published []*models.Article
	for _, article := range m.sortedAll() {
		if article.IsPublished {
			published = append(published, article)
		}
	}
	return published
}

// MockArticleBlockRepository is a mock implementation of ArticleBlockRepository
type MockArticleBlockRepository struct {
	Blocks      map[int64]*models.ArticleBlock
	NextID      int64
	CreateError error
	UpdateError error
	DeleteError error
}

func NewMockArticleBlockRepository() *MockArticleBlockRepository {
	return &MockArticleBlockRepository{
		Blocks: make(map[int64]*models.ArticleBlock),
		NextID: 1,
	}
}

func (m *MockArticleBlockRepository) Create(ctx context.Context, block *models.ArticleBlock) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	block.ID = m.NextID
	m.NextID++
	copied := *block
	m.Blocks[copied.ID] = &copied
	return nil
}

func (m *MockArticleBlockRepository) Update(ctx context.Context, block *models.ArticleBlock) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	copied := *block
	m.Blocks[copied.ID] = &copied
	return nil
}

func (m *MockArticleBlockRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.Blocks, id)
	return nil
}

func (m *MockArticleBlockRepository) GetByID(ctx context.Context, id int64) (*models.ArticleBlock, error) {
	return m.Blocks[id], nil
}

func (m *MockArticleBlockRepository) ListByArticle(ctx context.Context, articleID int64) ([]models.ArticleBlock, error) {
	var blocks []models.ArticleBlock
	for _, block := range m.Blocks {
		if block.ArticleID == articleID {
			blocks = append(blocks, *block)
		}
	}
	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].Order != blocks[j].Order {
			return blocks[i].Order < blocks[j].Order
		}
		return blocks[i].ID < blocks[j].ID
	})
	return blocks, nil
}

// MockProjectRepository is a mock implementation of ProjectRepository.
// CategoryIDsBySlug maps category slugs to IDs for category filtering.
type MockProjectRepository struct {
	Projects          map[int64]*models.Project
	CategoryIDsBySlug map[string]int64
	NextID            int64
	CreateError       error
	UpdateError       error
	DeleteError       error
}

func NewMockProjectRepository() *MockProjectRepository {
	return &MockProjectRepository{
		Projects:          make(map[int64]*models.Project),
		CategoryIDsBySlug: make(map[string]int64),
		NextID:            1,
	}
}

func (m *MockProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	project.ID = m.NextID
	m.NextID++
	copied := *project
	m.Projects[copied.ID] = &copied
	return nil
}

func (m *MockProjectRepository) Update(ctx context.Context, project *models.Project) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	copied := *project
	m.Projects[copied.ID] = &copied
	return nil
}

func (m *MockProjectRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.Projects, id)
	return nil
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	return m.Projects[id], nil
}

func (m *MockProjectRepository) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	for _, project := range m.Projects {
		if project.Slug == slug {
			return project, nil
		}
	}
	return nil, nil
}

func (m *MockProjectRepository) ListByCategory(ctx context.Context, categorySlug string, offset, limit int) ([]*models.Project, error) {
	matched := m.inCategory(categorySlug)
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *MockProjectRepository) CountByCategory(ctx context.Context, categorySlug string) (int, error) {
	return len(m.inCategory(categorySlug)), nil
}

func (m *MockProjectRepository) ListByPublished(ctx context.Context, published bool) ([]*models.Project, error) {
	var matched []*models.Project
	for _, project := range m.sortedAll() {
		if project.IsPublished == published {
			matched = append(matched, project)
		}
	}
	return matched, nil
}

func (m *MockProjectRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	for _, project := range m.Projects {
		if project.Slug == slug && project.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockProjectRepository) inCategory(categorySlug string) []*models.Project {
	categoryID := m.CategoryIDsBySlug[categorySlug]
	var matched []*models.Project
	for _, project := range m.sortedAll() {
		if project.CategoryID == categoryID {
			matched = append(matched, project)
		}
	}
	return matched
}

func (m *MockProjectRepository) sortedAll() []*models.Project {
	all := make([]*models.Project, 0, len(m.Projects))
	for _, project := range m.Projects {
		all = append(all, project)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	return all
}

// MockProjectBlockRepository is a mock implementation of ProjectBlockRepository
type MockProjectBlockRepository struct {
	Blocks      map[int64]*models.ProjectBlock
	NextID      int64
	CreateError error
	UpdateError error
	DeleteError error
}

func NewMockProjectBlockRepository() *MockProjectBlockRepository {
	return &MockProjectBlockRepository{
		Blocks: make(map[int64]*models.ProjectBlock),
		NextID: 1,
	}
}

func (m *MockProjectBlockRepository) Create(ctx context.Context, block *models.ProjectBlock) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	block.ID = m.NextID
	m.NextID++
	copied := *block
	m.Blocks[copied.ID] = &copied
	return nil
}

func (m *MockProjectBlockRepository) Update(ctx context.Context, block *models.ProjectBlock) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	copied := *block
	m.Blocks[copied.ID] = &copied
	return nil
}

func (m *MockProjectBlockRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.Blocks, id)
	return nil
}

func (m *MockProjectBlockRepository) GetByID(ctx context.Context, id int64) (*models.ProjectBlock, error) {
	return m.Blocks[id], nil
}

func (m *MockProjectBlockRepository) ListByProject(ctx context.Context, projectID int64) ([]models.ProjectBlock, error) {
	var blocks []models.ProjectBlock
	for _, block := range m.Blocks {
		if block.ProjectID == projectID {
			blocks = append(blocks, *block)
		}
	}
	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].Order != blocks[j].Order {
			return blocks[i].Order < blocks[j].Order
		}
		return blocks[i].ID < blocks[j].ID
	})
	return blocks, nil
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	Categories  map[string]*models.ProjectCategory
	NextID      int64
	CreateError error
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[string]*models.ProjectCategory),
		NextID:     1,
	}
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.ProjectCategory) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	category.ID = m.NextID
	m.NextID++
	copied := *category
	m.Categories[copied.Slug] = &copied
	return nil
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]models.ProjectCategory, error) {
	categories := make([]models.ProjectCategory, 0, len(m.Categories))
	for _, category := range m.Categories {
		categories = append(categories, *category)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].ID > categories[j].ID
	})
	return categories, nil
}

func (m *MockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.ProjectCategory, error) {
	return m.Categories[slug], nil
}
