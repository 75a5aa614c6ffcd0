package repository

import (
	"context"
	"database/sql"

	"github.com/publishing-content-api/internal/database"
	"github.com/publishing-content-api/internal/models"
)

// articleBlockRepo is the concrete implementation of ArticleBlockRepository
type articleBlockRepo struct {
	db *database.DB
}

// NewArticleBlockRepo creates a new article block repository
func NewArticleBlockRepo(db *database.DB) ArticleBlockRepository {
	return &articleBlockRepo{db: db}
}

// Create inserts a new article block
func (r *articleBlockRepo) Create(ctx context.Context, block *models.ArticleBlock) error {
	query := `
		INSERT INTO article_blocks (article_id, type, position, text, media, media_alt, caption, first_video_frame)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		block.ArticleID, block.Type, block.Order, block.Text,
		nullIfEmpty(block.Media), block.MediaAlt, block.Caption,
		nullIfEmpty(block.FirstVideoFrame),
	).Scan(&block.ID)
}

// Update rewrites all mutable fields of an article block
func (r *articleBlockRepo) Update(ctx context.Context, block *models.ArticleBlock) error {
	query := `
		UPDATE article_blocks
		SET type = $1, position = $2, text = $3, media = $4, media_alt = $5, caption = $6, first_video_frame = $7
		WHERE id = $8
	`
	result, err := r.db.ExecContext(ctx, query,
		block.Type, block.Order, block.Text,
		nullIfEmpty(block.Media), block.MediaAlt, block.Caption,
		nullIfEmpty(block.FirstVideoFrame), block.ID,
	)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// Delete removes a single article block
func (r *articleBlockRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM article_blocks WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// GetByID retrieves an article block by ID, returning nil when missing
func (r *articleBlockRepo) GetByID(ctx context.Context, id int64) (*models.ArticleBlock, error) {
	query := `
		SELECT id, article_id, type, position, text, media, media_alt, caption, first_video_frame
		FROM article_blocks WHERE id = $1
	`
	block, err := scanArticleBlock(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return block, nil
}

// ListByArticle returns all blocks of an article sorted by position
func (r *articleBlockRepo) ListByArticle(ctx context.Context, articleID int64) ([]models.ArticleBlock, error) {
	query := `
		SELECT id, article_id, type, position, text, media, media_alt, caption, first_video_frame
		FROM article_blocks WHERE article_id = $1 ORDER BY position, id
	`
	rows, err := r.db.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []models.ArticleBlock
	for rows.Next() {
		block, err := scanArticleBlock(rows.Scan)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, *block)
	}
	return blocks, rows.Err()
}

func scanArticleBlock(scan func(dest ...interface{}) error) (*models.ArticleBlock, error) {
	var block models.ArticleBlock
	var text, media, firstFrame sql.NullString

	err := scan(
		&block.ID, &block.ArticleID, &block.Type, &block.Order,
		&text, &media, &block.MediaAlt, &block.Caption, &firstFrame,
	)
	if err != nil {
		return nil, err
	}

	block.Text = text.String
	block.Media = media.String
	block.FirstVideoFrame = firstFrame.String
	return &block, nil
}

// projectBlockRepo is the concrete implementation of ProjectBlockRepository
type projectBlockRepo struct {
	db *database.DB
}

// NewProjectBlockRepo creates a new project block repository
func NewProjectBlockRepo(db *database.DB) ProjectBlockRepository {
	return &projectBlockRepo{db: db}
}

// Create inserts a new project block
func (r *projectBlockRepo) Create(ctx context.Context, block *models.ProjectBlock) error {
	query := `
		INSERT INTO project_blocks (project_id, type, position, text, media, first_video_frame)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		block.ProjectID, block.Type, block.Order, block.Text,
		nullIfEmpty(block.Media), nullIfEmpty(block.FirstVideoFrame),
	).Scan(&block.ID)
}

// Update rewrites all mutable fields of a project block
func (r *projectBlockRepo) Update(ctx context.Context, block *models.ProjectBlock) error {
	query := `
		UPDATE project_blocks
		SET type = $1, position = $2, text = $3, media = $4, first_video_frame = $5
		WHERE id = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		block.Type, block.Order, block.Text,
		nullIfEmpty(block.Media), nullIfEmpty(block.FirstVideoFrame), block.ID,
	)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// Delete removes a single project block
func (r *projectBlockRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM project_blocks WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRowsAffected(result)
}

// GetByID retrieves a project block by ID, returning nil when missing
func (r *projectBlockRepo) GetByID(ctx context.Context, id int64) (*models.ProjectBlock, error) {
	query := `
		SELECT id, project_id, type, position, text, media, first_video_frame
		FROM project_blocks WHERE id = $1
	`
	block, err := scanProjectBlock(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return block, nil
}

// ListByProject returns all blocks of a project sorted by position
func (r *projectBlockRepo) ListByProject(ctx context.Context, projectID int64) ([]models.ProjectBlock, error) {
	query := `
		SELECT id, project_id, type, position, text, media, first_video_frame
		FROM project_blocks WHERE project_id = $1 ORDER BY position, id
	`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []models.ProjectBlock
	for rows.Next() {
		block, err := scanProjectBlock(rows.Scan)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, *block)
	}
	return blocks, rows.Err()
}

func scanProjectBlock(scan func(dest ...interface{}) error) (*models.ProjectBlock, error) {
	var block models.ProjectBlock
	var text, media, firstFrame sql.NullString

	err := scan(&block.ID, &block.ProjectID, &block.Type, &block.Order, &text, &media, &firstFrame)
	if err != nil {
		return nil, err
	}

	block.Text = text.String
	block.Media = media.String
	block.FirstVideoFrame = firstFrame.String
	return &block, nil
}
