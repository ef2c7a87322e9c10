package model

import (
	"time"

	"gorm.io/datatypes"
)

// Article is a generated piece of content
type Article struct {
	ID                  uint                        `json:"id" gorm:"primaryKey"`
	KeywordID           *uint                       `json:"keywordId" gorm:"column:keyword_id"`
	Title               string                      `json:"title" gorm:"not null"`
	Slug                string                      `json:"slug" gorm:"uniqueIndex;not null"`
	MetaDescription     string                      `json:"metaDescription" gorm:"column:meta_description"`
	ContentHTML         string                      `json:"contentHtml" gorm:"column:content_html;type:text;not null"`
	PreviousContentHTML *string                     `json:"previousContentHtml" gorm:"column:previous_content_html;type:text"`
	MainKeyword         string                      `json:"mainKeyword" gorm:"column:main_keyword"`
	Tags                datatypes.JSONSlice[string] `json:"tags"`
	ImageURL            string                      `json:"imageUrl" gorm:"column:image_url"`
	ImageAlt            string                      `json:"imageAlt" gorm:"column:image_alt"`
	Author              string                      `json:"author"`
	Status              ArticleStatus               `json:"status" gorm:"not null;default:draft"`
	PublishedAt         *time.Time                  `json:"publishedAt" gorm:"index"`
	Views               int                         `json:"views" gorm:"not null;default:0"`
	Version             int                         `json:"version" gorm:"not null;default:1"`
	CreatedAt           time.Time                   `json:"createdAt"`
	UpdatedAt           time.Time                   `json:"updatedAt"`
}

func (Article) TableName() string { return "articles" }

// CanUndo reports whether a previous version is stored.
func (a *Article) CanUndo() bool {
	return a.PreviousContentHTML != nil && *a.PreviousContentHTML != ""
}

// ArticleRef is the short form attached to a completed job
type ArticleRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// ArticleViews is an article's view count as listed on the dashboard
type ArticleViews struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Views int    `json:"views"`
}

// ViewArticleRequest is the body of POST /api/analytics/view.
// ID wins when both are set.
type ViewArticleRequest struct {
	ID   uint   `json:"id"`
	Slug string `json:"slug"`
}

// DashboardStats is returned by GET /api/dashboard/stats
type DashboardStats struct {
	TotalArticles     int64          `json:"totalArticles"`
	TotalKeywords     int64          `json:"totalKeywords"`
	PendingKeywords   int64          `json:"pendingKeywords"`
	TotalViews        int64          `json:"totalViews"`
	TopViewedArticles []ArticleViews `json:"topViewedArticles"`
}

// UpdateArticleRequest is the body of PUT /api/articles/:slug.
// Tags accepts either a JSON array or a comma separated string.
type UpdateArticleRequest struct {
	Title           string      `json:"title" validate:"required,max=300"`
	MetaDescription string      `json:"metaDescription" validate:"max=500"`
	ContentHTML     string      `json:"contentHtml" validate:"required"`
	ImageURL        string      `json:"imageUrl" validate:"omitempty,url"`
	ImageAlt        string      `json:"imageAlt" validate:"max=300"`
	MainKeyword     string      `json:"mainKeyword" validate:"max=200"`
	Tags            interface{} `json:"tags"`
	Version         int         `json:"version" validate:"omitempty,min=1"`
}

// UndoResponse is returned by POST /api/articles/:slug/undo
type UndoResponse struct {
	*Article
	Message        string         `json:"message"`
	RestoredFormat SnapshotFormat `json:"restoredFormat"`
}
