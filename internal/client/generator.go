package client

import "context"

// GenerateRequest carries the inputs of one article generation
type GenerateRequest struct {
	Keyword          string
	Intent           string
	CustomPrompt     string
	ProductKnowledge string
	UseCustomOnly    bool
}

// GeneratedArticle is the provider output after post-processing
type GeneratedArticle struct {
	Title           string   `json:"title"`
	MetaDescription string   `json:"meta_description"`
	Tags            []string `json:"tags"`
	ContentHTML     string   `json:"content_html"`
}

// ArticleGenerator is an external text-generation capability
type ArticleGenerator interface {
	Name() string
	IsConfigured() bool
	GenerateArticle(ctx context.Context, req *GenerateRequest) (*GeneratedArticle, error)
}
