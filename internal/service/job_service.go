package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/artikelin/api/internal/client"
	"github.com/artikelin/api/internal/model"
	"github.com/artikelin/api/internal/monitoring"
	"github.com/artikelin/api/internal/store"
)

// JobRunner executes one job to completion. Run must not panic and must not
// return before the job has reached a terminal status or been skipped.
type JobRunner interface {
	Run(ctx context.Context, jobID uuid.UUID, generator client.ArticleGenerator)
}

// Spawner starts task in the background
type Spawner func(task func())

// JobService creates, cancels and reports on generation jobs. Jobs are
// executed detached from the request that created them.
type JobService struct {
	store    *store.Store
	settings *SettingsService
	registry *client.ProviderRegistry
	runner   JobRunner
	log      *logrus.Logger

	spawn Spawner
	wg    sync.WaitGroup
}

type JobServiceOption func(*JobService)

// WithSpawner replaces the default goroutine spawner. Tests use it to hold
// tasks back until they choose to run them.
func WithSpawner(spawn Spawner) JobServiceOption {
	return func(s *JobService) { s.spawn = spawn }
}

func NewJobService(st *store.Store, settings *SettingsService, registry *client.ProviderRegistry, runner JobRunner, log *logrus.Logger, opts ...JobServiceOption) *JobService {
	s := &JobService{
		store:    st,
		settings: settings,
		registry: registry,
		runner:   runner,
		log:      log,
	}
	s.spawn = s.goSpawn
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateJob validates and persists a pending job, then dispatches it.
// It returns as soon as the job is stored.
func (s *JobService) CreateJob(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error) {
	jobType := req.JobType
	if jobType == "" {
		jobType = model.JobTypeGenerate
	}
	if !jobType.Valid() {
		return nil, ValidationError("Invalid job type")
	}

	keyword := strings.TrimSpace(req.Keyword)
	intent := strings.TrimSpace(req.Intent)
	if keyword == "" || intent == "" {
		return nil, ValidationError("Keyword and intent are required")
	}

	articleSlug := strings.TrimSpace(req.ArticleSlug)
	if jobType == model.JobTypeRegenerate && articleSlug == "" {
		return nil, ValidationError("Article slug is required for regenerate jobs")
	}

	job := &model.Job{
		ID:            uuid.New(),
		JobType:       jobType,
		KeywordID:     req.KeywordID,
		Keyword:       keyword,
		Intent:        intent,
		UseCustomOnly: req.UseCustomOnly,
		Status:        model.JobStatusPending,
	}
	if req.CustomPrompt != "" {
		prompt := req.CustomPrompt
		job.CustomPrompt = &prompt
	}
	if articleSlug != "" {
		job.ArticleSlug = &articleSlug
	}

	if err := s.store.Jobs.Create(ctx, job); err != nil {
		return nil, PersistenceError("failed to create job", err)
	}
	monitoring.RecordJobCreated(string(job.JobType))

	generator := s.resolveProvider(ctx)
	s.dispatch(ctx, job.ID, generator)

	s.log.WithFields(logrus.Fields{
		"job_id":   job.ID,
		"job_type": job.JobType,
		"keyword":  job.Keyword,
	}).Info("Job created")

	return job, nil
}

// CancelJob cancels a job that has not started yet
func (s *JobService) CancelJob(ctx context.Context, id uuid.UUID) (*model.CancelJobResponse, error) {
	job, err := s.getJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := cancelConflict(job.Status); err != nil {
		return nil, err
	}

	ok, err := s.store.Jobs.Transition(ctx, id, model.JobStatusPending, model.JobStatusCancelled, nil)
	if err != nil {
		return nil, PersistenceError("failed to cancel job", err)
	}
	if !ok {
		// The executor picked the job up between the read and the write.
		job, err := s.getJob(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := cancelConflict(job.Status); err != nil {
			return nil, err
		}
		return nil, ConflictError("Job could not be cancelled", nil)
	}

	s.log.WithField("job_id", id).Info("Job cancelled")

	return &model.CancelJobResponse{
		Success: true,
		JobID:   id,
		Status:  model.JobStatusCancelled,
	}, nil
}

func cancelConflict(status model.JobStatus) error {
	switch {
	case status == model.JobStatusProcessing:
		return ConflictError("Cannot cancel a job that is already processing", nil)
	case status.IsTerminal():
		return ConflictError("Job is already finished", nil)
	}
	return nil
}

// GetJob returns a job and, once completed, a reference to its article
func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*model.JobResponse, error) {
	job, err := s.getJob(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &model.JobResponse{Job: job}
	if job.Status == model.JobStatusCompleted && job.ArticleID != nil {
		ref, err := s.store.Articles.Ref(ctx, *job.ArticleID)
		switch {
		case err == nil:
			resp.Article = ref
		case !errors.Is(err, store.ErrNotFound):
			return nil, PersistenceError("failed to load job article", err)
		}
	}
	return resp, nil
}

// ListActiveJobs returns pending and processing jobs, newest first
func (s *JobService) ListActiveJobs(ctx context.Context) ([]model.Job, error) {
	jobs, err := s.store.Jobs.ListActive(ctx)
	if err != nil {
		return nil, PersistenceError("failed to list jobs", err)
	}
	return jobs, nil
}

// Wait blocks until every dispatched job has returned or ctx is done
func (s *JobService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *JobService) getJob(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	job, err := s.store.Jobs.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFoundError("Job not found")
	}
	if err != nil {
		return nil, PersistenceError("failed to load job", err)
	}
	return job, nil
}

// resolveProvider picks the generator once, at creation time, so a settings
// change while the job waits does not affect it.
func (s *JobService) resolveProvider(ctx context.Context) client.ArticleGenerator {
	name, err := s.settings.AIProvider(ctx)
	if err != nil {
		s.log.WithError(err).Warn("Failed to read AI provider setting, using default")
	}
	return s.registry.Resolve(name)
}

func (s *JobService) dispatch(ctx context.Context, id uuid.UUID, generator client.ArticleGenerator) {
	// keep request values (trace span) but not its cancellation
	runCtx := context.WithoutCancel(ctx)
	s.spawn(func() {
		s.runner.Run(runCtx, id, generator)
	})
}

func (s *JobService) goSpawn(task func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		task()
	}()
}
