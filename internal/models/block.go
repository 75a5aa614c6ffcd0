package models

// BlockType discriminates the kinds of content blocks an item can carry
type BlockType string

const (
	BlockText    BlockType = "text"
	BlockHeading BlockType = "heading"
	BlockImage   BlockType = "image"
	BlockVideo   BlockType = "video"
)

// Valid reports whether the block type is one of the known kinds
func (t BlockType) Valid() bool {
	switch t {
	case BlockText, BlockHeading, BlockImage, BlockVideo:
		return true
	}
	return false
}

// ArticleBlock is one ordered unit of article body content
type ArticleBlock struct {
	ID              int64     `json:"id" db:"id"`
	ArticleID       int64     `json:"article_id" db:"article_id"`
	Type            BlockType `json:"type" db:"type"`
	Order           int       `json:"order" db:"position"`
	Text            string    `json:"text,omitempty" db:"text"`
	Media           string    `json:"media,omitempty" db:"media"`
	MediaAlt        string    `json:"media_alt,omitempty" db:"media_alt"`
	Caption         string    `json:"caption,omitempty" db:"caption"`
	FirstVideoFrame string    `json:"first_video_frame,omitempty" db:"first_video_frame"`
}

// ProjectBlock is one ordered unit of project body content
type ProjectBlock struct {
	ID              int64     `json:"id" db:"id"`
	ProjectID       int64     `json:"project_id" db:"project_id"`
	Type            BlockType `json:"type" db:"type"`
	Order           int       `json:"order" db:"position"`
	Text            string    `json:"text,omitempty" db:"text"`
	Media           string    `json:"media,omitempty" db:"media"`
	FirstVideoFrame string    `json:"first_video_frame,omitempty" db:"first_video_frame"`
}
