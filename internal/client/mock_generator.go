package client

import (
	"context"
	"fmt"
	"strings"
)

// MockGenerator returns a canned article. It is used when no provider has
// an API key, so the pipeline stays usable in development.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator { return &MockGenerator{} }

func (m *MockGenerator) Name() string { return "mock" }

func (m *MockGenerator) IsConfigured() bool { return true }

func (m *MockGenerator) GenerateArticle(ctx context.Context, req *GenerateRequest) (*GeneratedArticle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kw := strings.TrimSpace(req.Keyword)
	article := &GeneratedArticle{
		Title:           fmt.Sprintf("Panduan Lengkap %s", kw),
		MetaDescription: fmt.Sprintf("Semua yang perlu kamu tahu tentang %s, dijelaskan dengan santai dan gampang dipahami.", kw),
		Tags:            []string{strings.ToLower(kw), req.Intent},
		ContentHTML: fmt.Sprintf(
			"<h2>Apa itu %s?</h2><p>Nah, %s lagi banyak dicari.</p><h2>Kenapa Penting?</h2><p>Selain itu, %s punya banyak manfaat.</p>",
			kw, kw, kw,
		),
	}
	if req.ProductKnowledge != "" {
		article.ContentHTML += "<h2>Rekomendasi</h2><p>" + req.ProductKnowledge + "</p>"
	}
	return PostProcess(article), nil
}
