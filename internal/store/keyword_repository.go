package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/artikelin/api/internal/model"
)

type KeywordRepository struct {
	db *gorm.DB
}

func (r *KeywordRepository) CreateBatch(ctx context.Context, keywords []model.Keyword) error {
	if len(keywords) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&keywords).Error
}

func (r *KeywordRepository) Get(ctx context.Context, id uint) (*model.Keyword, error) {
	var kw model.Keyword
	if err := r.db.WithContext(ctx).First(&kw, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &kw, nil
}

func (r *KeywordRepository) List(ctx context.Context) ([]model.Keyword, error) {
	keywords := []model.Keyword{}
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&keywords).Error
	return keywords, err
}

// SetStatus updates the keyword status. A missing keyword is not an error.
func (r *KeywordRepository) SetStatus(ctx context.Context, id uint, status model.KeywordStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Keyword{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Count returns the number of keywords, or of those with one of statuses
// when any are given.
func (r *KeywordRepository) Count(ctx context.Context, statuses ...model.KeywordStatus) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Keyword{})
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *KeywordRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Keyword{}, id)
	return res.RowsAffected > 0, res.Error
}

type SettingRepository struct {
	db *gorm.DB
}

func (r *SettingRepository) Get(ctx context.Context, key string) (*model.Setting, error) {
	var setting model.Setting
	if err := r.db.WithContext(ctx).First(&setting, "key = ?", key).Error; err != nil {
		return nil, notFound(err)
	}
	return &setting, nil
}

// Upsert creates or replaces the value stored under key.
func (r *SettingRepository) Upsert(ctx context.Context, key, value string) (*model.Setting, error) {
	setting := &model.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, key)
}
