package staticpage

import (
	"bytes"
	"html/template"

	"github.com/publishing-content-api/internal/models"
	"github.com/publishing-content-api/internal/render"
)

// articlePageTemplate is the full public article page. Body fragments arrive
// pre-escaped from the render package; everything else is escaped here.
const articlePageTemplate = `<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{ .SEO.Title }}</title>
<meta name="description" content="{{ .SEO.Description }}">
{{- if .SEO.Keywords }}
<meta name="keywords" content="{{ .SEO.Keywords }}">
{{- end }}
<meta name="robots" content="{{ .SEO.Robots }}">
<link rel="canonical" href="{{ .SEO.Canonical }}">
<meta property="og:type" content="article">
<meta property="og:title" content="{{ .SEO.OGTitle }}">
<meta property="og:description" content="{{ .SEO.OGDescription }}">
{{- if .SEO.OGImage }}
<meta property="og:image" content="{{ .SEO.OGImage }}">
<meta property="og:image:alt" content="{{ .SEO.OGImageAlt }}">
{{- end }}
<meta property="og:url" content="{{ .URL }}">
<meta name="twitter:card" content="{{ .SEO.TwitterCard }}">
<meta name="twitter:title" content="{{ .SEO.TwitterTitle }}">
<meta name="twitter:description" content="{{ .SEO.TwitterDescription }}">
{{- if .SEO.TwitterImage }}
<meta name="twitter:image" content="{{ .SEO.TwitterImage }}">
<meta name="twitter:image:alt" content="{{ .SEO.TwitterImageAlt }}">
{{- end }}
<script type="application/ld+json">{{ .JSONLD }}</script>
</head>
<body>
<article class="article">
<h1 class="article__title">{{ .Article.Title }}</h1>
<time class="article__date" datetime="{{ .PublishedAtISO }}">{{ .PublishedAtDisplay }}</time>
<div class="article__body">{{ .BodyHTML }}</div>
{{- if .Media }}
<div class="article__media{{ if .HasVideo }} article__media--video{{ end }}">
{{- range .Media }}
{{- if eq .Kind "image" }}
<figure>
<img src="{{ .URL }}" alt="{{ .Alt }}" loading="lazy">
{{- if .Caption }}<figcaption>{{ .Caption }}</figcaption>{{ end }}
</figure>
{{- else }}
<figure>
<video controls preload="none"{{ if .Poster }} poster="{{ .Poster }}"{{ end }}>
{{- range .Sources }}
<source src="{{ .URL }}" type="{{ .Type }}">
{{- end }}
</video>
{{- if .Caption }}<figcaption>{{ .Caption }}</figcaption>{{ end }}
</figure>
{{- end }}
{{- end }}
</div>
{{- end }}
</article>
{{- if .Related }}
<section class="article__related">
<h2>Related articles</h2>
<ul>
{{- range .Related }}
<li>
<a href="{{ .URL }}">
{{- if .PreviewImage }}<img src="{{ .PreviewImage }}" alt="{{ .PreviewImageAlt }}" loading="lazy">{{ end }}
<span>{{ .Title }}</span>
</a>
<p>{{ .Excerpt }}</p>
</li>
{{- end }}
</ul>
</section>
{{- end }}
</body>
</html>
`

// projectPageTemplate is the simpler project page layout
const projectPageTemplate = `<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{ .Project.Title }}</title>
</head>
<body>
<article class="project">
<h1 class="project__title">{{ .Project.Title }}</h1>
<dl class="project__facts">
<dt>Customer</dt><dd>{{ .Project.CustomerName }}</dd>
<dt>Year</dt><dd>{{ .Project.Year }}</dd>
<dt>Type</dt><dd>{{ .Project.ProjectType }}</dd>
</dl>
<div class="project__body">
{{- range .Blocks }}
{{- if eq .Type "heading" }}
<h3>{{ .Text }}</h3>
{{- else if eq .Type "text" }}
<p>{{ .Text }}</p>
{{- else if eq .Type "image" }}
<img src="{{ .Media }}" alt="" loading="lazy">
{{- else if eq .Type "video" }}
<video controls preload="none"{{ if .FirstVideoFrame }} poster="{{ .FirstVideoFrame }}"{{ end }}>
<source src="{{ .Media }}" type="video/mp4">
</video>
{{- end }}
{{- end }}
</div>
</article>
</body>
</html>
`

var (
	articleTmpl = template.Must(template.New("article_detail").Parse(articlePageTemplate))
	projectTmpl = template.Must(template.New("project_detail").Parse(projectPageTemplate))
)

// RenderArticlePage renders the complete static article page
func RenderArticlePage(ctx *render.ArticleContext) ([]byte, error) {
	var buf bytes.Buffer
	if err := articleTmpl.Execute(&buf, ctx); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// projectPageData feeds the project template
type projectPageData struct {
	Project *models.Project
	Blocks  []models.ProjectBlock
}

// RenderProjectPage renders the complete static project page
func RenderProjectPage(project *models.Project, blocks []models.ProjectBlock) ([]byte, error) {
	var buf bytes.Buffer
	if err := projectTmpl.Execute(&buf, projectPageData{Project: project, Blocks: blocks}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
