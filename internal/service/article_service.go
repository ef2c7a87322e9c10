package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/artikelin/api/internal/model"
	"github.com/artikelin/api/internal/store"
)

const topViewedLimit = 5

const (
	msgUndoStructured = "All fields restored to previous version"
	msgUndoLegacy     = "Content restored to previous version (legacy format, content only)"
)

// ArticleService manages stored articles, including one-level undo of the
// last regeneration.
type ArticleService struct {
	store *store.Store
	now   func() time.Time
}

func NewArticleService(s *store.Store) *ArticleService {
	return &ArticleService{store: s, now: time.Now}
}

// List returns article summaries, most recently published first
func (s *ArticleService) List(ctx context.Context) ([]model.Article, error) {
	articles, err := s.store.Articles.List(ctx)
	if err != nil {
		return nil, PersistenceError("failed to list articles", err)
	}
	return articles, nil
}

func (s *ArticleService) Get(ctx context.Context, slug string) (*model.Article, error) {
	return getArticle(ctx, s.store, slug)
}

// Update applies a manual edit. When req.Version is set it must match the
// stored version.
func (s *ArticleService) Update(ctx context.Context, slug string, req *model.UpdateArticleRequest) (*model.Article, error) {
	article, err := getArticle(ctx, s.store, slug)
	if err != nil {
		return nil, err
	}

	version := article.Version
	if req.Version != 0 {
		version = req.Version
	}

	fields := map[string]interface{}{
		"title":            req.Title,
		"meta_description": req.MetaDescription,
		"content_html":     req.ContentHTML,
		"image_url":        req.ImageURL,
		"image_alt":        req.ImageAlt,
		"main_keyword":     req.MainKeyword,
	}
	if req.Tags != nil {
		tags, err := parseTags(req.Tags)
		if err != nil {
			return nil, err
		}
		fields["tags"] = datatypes.JSONSlice[string](tags)
	}

	if err := s.store.Articles.UpdateVersioned(ctx, article.ID, version, fields); err != nil {
		return nil, versionedWriteError("failed to update article", err)
	}
	return s.reload(ctx, article.ID)
}

// Publish marks the article published as of now
func (s *ArticleService) Publish(ctx context.Context, slug string) error {
	article, err := getArticle(ctx, s.store, slug)
	if err != nil {
		return err
	}
	if err := s.store.Articles.Publish(ctx, article.ID, s.now()); err != nil {
		return PersistenceError("failed to publish article", err)
	}
	return nil
}

func (s *ArticleService) Delete(ctx context.Context, slug string) error {
	article, err := getArticle(ctx, s.store, slug)
	if err != nil {
		return err
	}
	if err := s.store.Articles.Delete(ctx, article.ID); err != nil {
		return PersistenceError("failed to delete article", err)
	}
	return nil
}

// Undo swaps the article with its stored previous version. Structured
// snapshots restore content, title, meta description and tags; legacy
// snapshots restore content only. Undoing twice returns to the start.
func (s *ArticleService) Undo(ctx context.Context, slug string) (*model.UndoResponse, error) {
	article, err := getArticle(ctx, s.store, slug)
	if err != nil {
		return nil, err
	}
	if !article.CanUndo() {
		return nil, ValidationError("No previous version available to undo")
	}

	previous, format := model.DecodeSnapshot(*article.PreviousContentHTML)

	var (
		fields  map[string]interface{}
		message string
	)
	switch format {
	case model.SnapshotStructured:
		current, err := model.SnapshotOf(article).Encode()
		if err != nil {
			return nil, PersistenceError("failed to encode snapshot", err)
		}
		tags := previous.Tags
		if tags == nil {
			tags = []string{}
		}
		fields = map[string]interface{}{
			"content_html":          previous.ContentHTML,
			"title":                 previous.Title,
			"meta_description":      previous.MetaDescription,
			"tags":                  datatypes.JSONSlice[string](tags),
			"previous_content_html": current,
		}
		message = msgUndoStructured

	default:
		if previous.ContentHTML == article.ContentHTML {
			return nil, NoOpError("Previous version is identical to current content")
		}
		fields = map[string]interface{}{
			"content_html":          previous.ContentHTML,
			"previous_content_html": article.ContentHTML,
		}
		message = msgUndoLegacy
	}

	if err := s.store.Articles.UpdateVersioned(ctx, article.ID, article.Version, fields); err != nil {
		return nil, versionedWriteError("failed to undo article", err)
	}

	restored, err := s.reload(ctx, article.ID)
	if err != nil {
		return nil, err
	}
	return &model.UndoResponse{
		Article:        restored,
		Message:        message,
		RestoredFormat: format,
	}, nil
}

// RecordView counts one view of the article named by id or, failing that,
// by slug. The increment is a single statement so concurrent views are
// never lost.
func (s *ArticleService) RecordView(ctx context.Context, req *model.ViewArticleRequest) error {
	slug := strings.TrimSpace(req.Slug)
	if req.ID == 0 && slug == "" {
		return ValidationError("Missing id or slug")
	}

	ok, err := s.store.Articles.IncrementViews(ctx, req.ID, slug)
	if err != nil {
		return PersistenceError("failed to record view", err)
	}
	if !ok {
		return NotFoundError("Article not found")
	}
	return nil
}

// Stats summarizes articles, keywords and views for the dashboard
func (s *ArticleService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	var (
		stats model.DashboardStats
		err   error
	)
	if stats.TotalArticles, err = s.store.Articles.Count(ctx); err != nil {
		return nil, PersistenceError("failed to count articles", err)
	}
	if stats.TotalKeywords, err = s.store.Keywords.Count(ctx); err != nil {
		return nil, PersistenceError("failed to count keywords", err)
	}
	if stats.PendingKeywords, err = s.store.Keywords.Count(ctx, model.KeywordStatusNew); err != nil {
		return nil, PersistenceError("failed to count keywords", err)
	}
	if stats.TotalViews, err = s.store.Articles.TotalViews(ctx); err != nil {
		return nil, PersistenceError("failed to sum views", err)
	}
	if stats.TopViewedArticles, err = s.store.Articles.MostViewed(ctx, topViewedLimit); err != nil {
		return nil, PersistenceError("failed to list top articles", err)
	}
	return &stats, nil
}

func (s *ArticleService) reload(ctx context.Context, id uint) (*model.Article, error) {
	article, err := s.store.Articles.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFoundError("Article not found")
	}
	if err != nil {
		return nil, PersistenceError("failed to load article", err)
	}
	return article, nil
}

func getArticle(ctx context.Context, st *store.Store, slug string) (*model.Article, error) {
	article, err := st.Articles.GetBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFoundError("Article not found")
	}
	if err != nil {
		return nil, PersistenceError("failed to load article", err)
	}
	return article, nil
}

func versionedWriteError(msg string, err error) error {
	if errors.Is(err, store.ErrVersionConflict) {
		return ConflictError("Article was modified by another request, reload and try again", err)
	}
	return PersistenceError(msg, err)
}

// parseTags accepts a JSON array of strings or a comma separated string.
func parseTags(v interface{}) ([]string, error) {
	switch t := v.(type) {
	case string:
		return model.ParseTagList(t), nil
	case []string:
		return t, nil
	case []interface{}:
		tags := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, ValidationError(fmt.Sprintf("Tags must be strings, got %T", item))
			}
			if s = strings.TrimSpace(s); s != "" {
				tags = append(tags, s)
			}
		}
		return tags, nil
	default:
		return nil, ValidationError("Tags must be an array or a comma separated string")
	}
}
