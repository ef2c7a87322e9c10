package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/artikelin/api/internal/model"
)

type JobRepository struct {
	db *gorm.DB
}

func (r *JobRepository) Create(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *JobRepository) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &job, nil
}

// ListActive returns pending and processing jobs, newest first.
func (r *JobRepository) ListActive(ctx context.Context) ([]model.Job, error) {
	jobs := []model.Job{}
	err := r.db.WithContext(ctx).
		Where("status IN ?", model.ActiveJobStatuses).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

// Transition moves a job from one status to another only if it is still in
// the expected status. It reports whether the row was changed.
func (r *JobRepository) Transition(ctx context.Context, id uuid.UUID, from, to model.JobStatus, fields map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	for k, v := range fields {
		updates[k] = v
	}

	res := r.db.WithContext(ctx).
		Model(&model.Job{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
