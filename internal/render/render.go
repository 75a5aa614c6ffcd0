// Package render builds the rendering context for content items: the escaped
// HTML body assembled from ordered blocks, the media list, related items, SEO
// metadata and the schema.org payload. Builders are pure: the same inputs
// always produce the same context.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/publishing-content-api/internal/models"
)

// jsonLDAuthor is the organization credited in the structured data
const jsonLDAuthor = "Cultnova"

// VideoSource is one playable source of a video media entry
type VideoSource struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// MediaItem is one image or video entry extracted from the blocks
type MediaItem struct {
	Kind    string        `json:"kind"`
	URL     string        `json:"url,omitempty"`
	Poster  string        `json:"poster,omitempty"`
	Sources []VideoSource `json:"sources,omitempty"`
	Caption string        `json:"caption"`
	Alt     string        `json:"alt,omitempty"`
}

// SEO carries the derived SEO, Open Graph and Twitter card fields
type SEO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	Robots      string `json:"robots"`
	Canonical   string `json:"canonical"`

	OGTitle       string `json:"og_title"`
	OGDescription string `json:"og_description"`
	OGImage       string `json:"og_image"`
	OGImageAlt    string `json:"og_image_alt"`

	TwitterCard        string `json:"twitter_card"`
	TwitterTitle       string `json:"twitter_title"`
	TwitterDescription string `json:"twitter_description"`
	TwitterImage       string `json:"twitter_image"`
	TwitterImageAlt    string `json:"twitter_image_alt"`
}

// RelatedArticle is the summary projection of a related published article
type RelatedArticle struct {
	Slug            string `json:"slug"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	PreviewImage    string `json:"preview_image"`
	PreviewImageAlt string `json:"preview_image_alt"`
	Excerpt         string `json:"excerpt"`
}

// ArticleContext is the full rendering context of one article
type ArticleContext struct {
	Article *models.Article `json:"article"`

	BodyHTML template.HTML `json:"body_html"`
	Media    []MediaItem   `json:"media"`
	HasVideo bool          `json:"has_video"`

	Path string `json:"path"`
	URL  string `json:"url"`

	PublishedAtDisplay string `json:"published_at_display"`
	PublishedAtISO     string `json:"published_at_iso"`
	UpdatedAtISO       string `json:"updated_at_iso"`

	SEO     SEO              `json:"seo"`
	Related []RelatedArticle `json:"related_articles"`

	// JSONLD is the schema.org Article payload, serialized so it can be
	// embedded inside a <script> tag as-is.
	JSONLD template.JS `json:"json_ld"`
}

// ArticlePath returns the public path of an article
func ArticlePath(slug string) string {
	return fmt.Sprintf("/articles/%s/", slug)
}

// ArticleURL returns the public absolute URL of an article.
// An empty base URL yields a relative path.
func ArticleURL(baseURL, slug string) string {
	path := ArticlePath(slug)
	if base := strings.TrimRight(baseURL, "/"); base != "" {
		return base + path
	}
	return path
}

// ProjectPath returns the public path of a project
func ProjectPath(slug string) string {
	return fmt.Sprintf("/projects/%s/", slug)
}

// BuildArticleContext assembles the rendering context for an article from its
// ordered blocks and the pre-fetched related articles.
func BuildArticleContext(article *models.Article, blocks []models.ArticleBlock, related []*models.Article, baseURL string) *ArticleContext {
	bodyHTML, media, hasVideo := buildBodyAndMedia(article, blocks)

	path := ArticlePath(article.Slug)
	url := ArticleURL(baseURL, article.Slug)

	seoTitle := fallback(strings.TrimSpace(article.SEOTitle), article.Title)
	seoDescription := fallback(strings.TrimSpace(article.SEODescription), strings.TrimSpace(article.Excerpt), article.Title)
	seoKeywords := strings.TrimSpace(article.SEOKeywords)
	seoRobots := fallback(strings.TrimSpace(article.SEORobots), models.DefaultRobots)
	canonical := fallback(strings.TrimSpace(article.CanonicalURL), url)

	ogImage := article.PreviewImage
	ogImageAlt := fallback(strings.TrimSpace(article.PreviewImageAlt), article.Title)

	twitterCard := "summary"
	if ogImage != "" {
		twitterCard = "summary_large_image"
	}

	publishedISO := article.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
	updatedISO := publishedISO
	if !article.UpdatedAt.IsZero() {
		updatedISO = article.UpdatedAt.Format("2006-01-02T15:04:05Z07:00")
	}

	ctx := &ArticleContext{
		Article:  article,
		BodyHTML: bodyHTML,
		Media:    media,
		HasVideo: hasVideo,
		Path:     path,
		URL:      url,

		PublishedAtDisplay: article.CreatedAt.Format("02.01.2006"),
		PublishedAtISO:     publishedISO,
		UpdatedAtISO:       updatedISO,

		SEO: SEO{
			Title:       seoTitle,
			Description: seoDescription,
			Keywords:    seoKeywords,
			Robots:      seoRobots,
			Canonical:   canonical,

			OGTitle:       seoTitle,
			OGDescription: seoDescription,
			OGImage:       ogImage,
			OGImageAlt:    ogImageAlt,

			TwitterCard:        twitterCard,
			TwitterTitle:       seoTitle,
			TwitterDescription: seoDescription,
			TwitterImage:       ogImage,
			TwitterImageAlt:    ogImageAlt,
		},

		Related: buildRelated(related),
	}

	ctx.JSONLD = buildJSONLD(ctx, seoKeywords, ogImage)
	return ctx
}

// buildBodyAndMedia walks the blocks in order and accumulates escaped HTML
// fragments and media entries.
func buildBodyAndMedia(article *models.Article, blocks []models.ArticleBlock) (template.HTML, []MediaItem, bool) {
	var parts []string
	media := []MediaItem{}
	hasVideo := false

	for _, block := range blocks {
		text := strings.TrimSpace(block.Text)

		switch block.Type {
		case models.BlockHeading:
			if text != "" {
				parts = append(parts, fmt.Sprintf(`<h3 class="article__subtitle">%s</h3>`, html.EscapeString(text)))
			}
		case models.BlockText:
			for _, paragraph := range strings.Split(text, "\n") {
				if paragraph = strings.TrimSpace(paragraph); paragraph != "" {
					parts = append(parts, fmt.Sprintf("<p>%s</p>", html.EscapeString(paragraph)))
				}
			}
		case models.BlockImage:
			if block.Media != "" {
				media = append(media, MediaItem{
					Kind:    "image",
					URL:     block.Media,
					Caption: strings.TrimSpace(block.Caption),
					Alt:     fallback(strings.TrimSpace(block.MediaAlt), article.Title),
				})
			}
		case models.BlockVideo:
			if block.Media != "" {
				hasVideo = true
				media = append(media, MediaItem{
					Kind:    "video",
					Poster:  block.FirstVideoFrame,
					Sources: []VideoSource{{URL: block.Media, Type: "video/mp4"}},
					Caption: strings.TrimSpace(block.Caption),
				})
			}
		}
	}

	return template.HTML(strings.Join(parts, "")), media, hasVideo
}

func buildRelated(related []*models.Article) []RelatedArticle {
	items := []RelatedArticle{}
	for _, article := range related {
		title := strings.TrimSpace(article.Title)
		excerpt := fallback(strings.TrimSpace(article.Excerpt), strings.TrimSpace(article.SEODescription), title)
		items = append(items, RelatedArticle{
			Slug:            article.Slug,
			Title:           title,
			URL:             ArticlePath(article.Slug),
			PreviewImage:    article.PreviewImage,
			PreviewImageAlt: fallback(strings.TrimSpace(article.PreviewImageAlt), title),
			Excerpt:         excerpt,
		})
	}
	return items
}

// articleJSONLD mirrors the schema.org Article shape
type articleJSONLD struct {
	Context          string       `json:"@context"`
	Type             string       `json:"@type"`
	Headline         string       `json:"headline"`
	Description      string       `json:"description"`
	DatePublished    string       `json:"datePublished"`
	DateModified     string       `json:"dateModified"`
	Author           jsonLDEntity `json:"author"`
	MainEntityOfPage string       `json:"mainEntityOfPage"`
	URL              string       `json:"url"`
	Image            string       `json:"image,omitempty"`
	Keywords         string       `json:"keywords,omitempty"`
}

type jsonLDEntity struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

func buildJSONLD(ctx *ArticleContext, keywords, image string) template.JS {
	payload := articleJSONLD{
		Context:          "https://schema.org",
		Type:             "Article",
		Headline:         ctx.SEO.Title,
		Description:      ctx.SEO.Description,
		DatePublished:    ctx.PublishedAtISO,
		DateModified:     ctx.UpdatedAtISO,
		Author:           jsonLDEntity{Type: "Organization", Name: jsonLDAuthor},
		MainEntityOfPage: ctx.SEO.Canonical,
		URL:              ctx.URL,
		Image:            image,
		Keywords:         keywords,
	}

	// The default encoder escapes <, > and & so a "</script>" sequence in
	// user content cannot terminate the embedding script tag.
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "{}"
	}
	return template.JS(strings.TrimSpace(buf.String()))
}

// fallback returns the first non-empty value
func fallback(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
