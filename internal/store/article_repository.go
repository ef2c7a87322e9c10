package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/artikelin/api/internal/model"
)

type ArticleRepository struct {
	db *gorm.DB
}

// Create inserts article. A slug collision yields ErrDuplicateSlug.
func (r *ArticleRepository) Create(ctx context.Context, article *model.Article) error {
	err := r.db.WithContext(ctx).Create(article).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateSlug
	}
	return err
}

func (r *ArticleRepository) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	var article model.Article
	if err := r.db.WithContext(ctx).First(&article, "slug = ?", slug).Error; err != nil {
		return nil, notFound(err)
	}
	return &article, nil
}

func (r *ArticleRepository) GetByID(ctx context.Context, id uint) (*model.Article, error) {
	var article model.Article
	if err := r.db.WithContext(ctx).First(&article, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &article, nil
}

// Ref returns the id, title and slug of an article.
func (r *ArticleRepository) Ref(ctx context.Context, id uint) (*model.ArticleRef, error) {
	var ref model.ArticleRef
	err := r.db.WithContext(ctx).
		Model(&model.Article{}).
		Select("id", "title", "slug").
		Where("id = ?", id).
		Take(&ref).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &ref, nil
}

func (r *ArticleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Article{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// List returns all articles without their content bodies, newest first.
func (r *ArticleRepository) List(ctx context.Context) ([]model.Article, error) {
	articles := []model.Article{}
	err := r.db.WithContext(ctx).
		Omit("content_html").
		Order("published_at DESC").
		Order("id DESC").
		Find(&articles).Error
	return articles, err
}

// UpdateVersioned writes fields in one statement, only if the stored version
// still equals version, and bumps the version. ErrVersionConflict is returned
// when no row matched.
func (r *ArticleRepository) UpdateVersioned(ctx context.Context, id uint, version int, fields map[string]interface{}) error {
	updates := map[string]interface{}{
		"version":    gorm.Expr("version + 1"),
		"updated_at": time.Now(),
	}
	for k, v := range fields {
		updates[k] = v
	}

	res := r.db.WithContext(ctx).
		Model(&model.Article{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// IncrementViews adds one view to the article with the given id, or with
// the given slug when id is zero. It reports whether an article matched.
func (r *ArticleRepository) IncrementViews(ctx context.Context, id uint, slug string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Article{})
	if id != 0 {
		q = q.Where("id = ?", id)
	} else {
		q = q.Where("slug = ?", slug)
	}
	res := q.UpdateColumn("views", gorm.Expr("views + ?", 1))
	return res.RowsAffected > 0, res.Error
}

func (r *ArticleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Article{}).Count(&count).Error
	return count, err
}

func (r *ArticleRepository) TotalViews(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Article{}).
		Select("COALESCE(SUM(views), 0)").
		Scan(&total).Error
	return total, err
}

// MostViewed returns up to limit articles ordered by view count.
func (r *ArticleRepository) MostViewed(ctx context.Context, limit int) ([]model.ArticleViews, error) {
	top := []model.ArticleViews{}
	err := r.db.WithContext(ctx).
		Model(&model.Article{}).
		Select("id", "title", "slug", "views").
		Order("views DESC").
		Order("id DESC").
		Limit(limit).
		Find(&top).Error
	return top, err
}

func (r *ArticleRepository) Publish(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Article{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       model.ArticleStatusPublished,
			"published_at": at,
		}).Error
}

func (r *ArticleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Article{}, id).Error
}
