package model

import (
	"time"

	"github.com/google/uuid"
)

// Job represents one requested generate or regenerate operation
type Job struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	JobType       JobType   `json:"jobType" gorm:"column:job_type;not null;default:generate"`
	KeywordID     *uint     `json:"keywordId" gorm:"column:keyword_id"`
	Keyword       string    `json:"keyword" gorm:"not null"`
	Intent        string    `json:"intent" gorm:"not null"`
	CustomPrompt  *string   `json:"customPrompt" gorm:"type:text"`
	UseCustomOnly bool      `json:"useCustomOnly" gorm:"not null;default:false"`
	ArticleSlug   *string   `json:"articleSlug"`
	Status        JobStatus `json:"status" gorm:"not null;default:pending;index"`
	ArticleID     *uint     `json:"articleId"`
	Error         *string   `json:"error" gorm:"type:text"`
	CreatedAt     time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Job) TableName() string { return "generation_jobs" }

// CreateJobRequest is the body of POST /api/jobs
type CreateJobRequest struct {
	JobType       JobType `json:"jobType" validate:"omitempty,oneof=generate regenerate"`
	KeywordID     *uint   `json:"keywordId" validate:"omitempty,min=1"`
	Keyword       string  `json:"keyword" validate:"max=200"`
	Intent        string  `json:"intent" validate:"max=50"`
	CustomPrompt  string  `json:"customPrompt" validate:"max=10000"`
	ArticleSlug   string  `json:"articleSlug" validate:"max=255"`
	UseCustomOnly bool    `json:"useCustomOnly"`
}

// JobResponse is a job plus its resolved article, if any
type JobResponse struct {
	*Job
	Article *ArticleRef `json:"article"`
}

// CancelJobResponse is returned on successful cancellation
type CancelJobResponse struct {
	Success bool      `json:"success"`
	JobID   uuid.UUID `json:"jobId"`
	Status  JobStatus `json:"status"`
}
