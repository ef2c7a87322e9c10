package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrInvalidResponse wraps any provider output that cannot be read as an article
var ErrInvalidResponse = errors.New("AI response is not valid JSON")

const maxMetaDescription = 160

var (
	embeddedArticle = regexp.MustCompile(`(?s)\{.*"title".*"content_html".*\}`)
	htmlTag         = regexp.MustCompile(`<[^>]*>`)
	whitespace      = regexp.MustCompile(`\s+`)

	urlPipeText   = regexp.MustCompile(`\[(https?://[^\]|]+)\|([^\]]+)\]`)
	textPipeURL   = regexp.MustCompile(`\[([^\]|]+)\|(https?://[^\]]+)\]`)
	markdownLink  = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)]+)\)`)
	bracketedLink = regexp.MustCompile(`\[(https?://[^\]]+)\]`)

	entityReplacer = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
	)
)

// ExtractJSON pulls the JSON document out of a model reply that may wrap it
// in code fences or chatter.
func ExtractJSON(text string) (string, error) {
	jsonStr := strings.TrimSpace(text)

	if strings.Contains(text, "```json") {
		jsonStr = between(text, "```json")
	} else if strings.Contains(text, "```") {
		jsonStr = between(text, "```")
	}

	if strings.HasPrefix(jsonStr, "<") || strings.HasPrefix(jsonStr, "Maaf") || strings.HasPrefix(jsonStr, "Sorry") {
		match := embeddedArticle.FindString(text)
		if match == "" {
			return "", fmt.Errorf("%w. Please try again. Response started with: %s", ErrInvalidResponse, prefix(jsonStr, 50))
		}
		jsonStr = match
	}

	firstBrace := strings.Index(jsonStr, "{")
	firstBracket := strings.Index(jsonStr, "[")
	start := firstBracket
	if firstBrace != -1 && (firstBracket == -1 || firstBrace < firstBracket) {
		start = firstBrace
	}
	if start > 0 {
		jsonStr = jsonStr[start:]
	}

	if strings.HasPrefix(jsonStr, "{") {
		if end := strings.LastIndex(jsonStr, "}"); end != -1 {
			jsonStr = jsonStr[:end+1]
		}
	} else if strings.HasPrefix(jsonStr, "[") {
		if end := strings.LastIndex(jsonStr, "]"); end != -1 {
			jsonStr = jsonStr[:end+1]
		}
	}

	return jsonStr, nil
}

// ParseArticle extracts, decodes and cleans an article from a model reply.
func ParseArticle(text string) (*GeneratedArticle, error) {
	jsonStr, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	var article GeneratedArticle
	if err := json.Unmarshal([]byte(jsonStr), &article); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if article.Title == "" && article.ContentHTML == "" {
		return nil, fmt.Errorf("%w: missing title and content_html", ErrInvalidResponse)
	}

	return PostProcess(&article), nil
}

// PostProcess strips markup from plain-text fields, caps the meta
// description and repairs link syntax the models tend to emit.
func PostProcess(article *GeneratedArticle) *GeneratedArticle {
	if article.MetaDescription != "" {
		article.MetaDescription = StripHTML(article.MetaDescription)
		if utf8.RuneCountInString(article.MetaDescription) > maxMetaDescription {
			article.MetaDescription = string([]rune(article.MetaDescription)[:maxMetaDescription-3]) + "..."
		}
	}
	if article.Title != "" {
		article.Title = StripHTML(article.Title)
	}
	if article.ContentHTML != "" {
		content := FixMalformedLinks(article.ContentHTML)
		content = strings.ReplaceAll(content, "&nbsp;", " ")
		article.ContentHTML = whitespace.ReplaceAllString(content, " ")
	}
	if article.Tags == nil {
		article.Tags = []string{}
	}
	return article
}

// StripHTML removes tags and common entities and collapses whitespace.
func StripHTML(s string) string {
	s = htmlTag.ReplaceAllString(s, "")
	s = entityReplacer.Replace(s)
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// FixMalformedLinks rewrites [url|text], [text|url], [text](url) and [url]
// into anchors.
func FixMalformedLinks(content string) string {
	content = urlPipeText.ReplaceAllString(content, `<a href="$1">$2</a>`)
	content = textPipeURL.ReplaceAllString(content, `<a href="$2">$1</a>`)
	content = markdownLink.ReplaceAllString(content, `<a href="$2">$1</a>`)
	content = bracketedLink.ReplaceAllString(content, `<a href="$1">$1</a>`)
	return content
}

func between(text, fence string) string {
	parts := strings.SplitN(text, fence, 2)
	if len(parts) < 2 {
		return strings.TrimSpace(text)
	}
	inner := parts[1]
	if end := strings.Index(inner, "```"); end != -1 {
		inner = inner[:end]
	}
	return strings.TrimSpace(inner)
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
