package model

import (
	"regexp"
	"strings"
)

type BlogPost struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Slug             string `json:"slug"`
	Content          string `json:"content"`
	AuthorName       string `json:"author_name,omitempty"`
	PhotoURL         string `json:"photo_url,omitempty"`
	FeaturedImageURL string `json:"featured_image_url,omitempty"`
	CreatedAt        string `json:"created_at,omitempty"`
}

// Paragraphs splits content on newlines as the post page renders it.
func (p *BlogPost) Paragraphs() []string { return strings.Split(p.Content, "\n") }

var (
	slugDrop   = regexp.MustCompile(`[^\w\s-]`)
	slugSpace  = regexp.MustCompile(`\s+`)
	slugHyphen = regexp.MustCompile(`-+`)
)

// Slugify derives a URL slug from a post title.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugDrop.ReplaceAllString(s, "")
	s = slugSpace.ReplaceAllString(s, "-")
	s = slugHyphen.ReplaceAllString(s, "-")
	return strings.TrimSpace(s)
}

// Excerpt returns the first n runes of content followed by "...".
func Excerpt(content string, n int) string {
	r := []rune(content)
	if len(r) > n {
		r = r[:n]
	}
	return string(r) + "..."
}
