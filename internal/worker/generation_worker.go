package worker

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/semaphore"
	"gorm.io/datatypes"

	"github.com/artikelin/api/internal/client"
	"github.com/artikelin/api/internal/model"
	"github.com/artikelin/api/internal/monitoring"
	"github.com/artikelin/api/internal/service"
	"github.com/artikelin/api/internal/store"
)

const (
	defaultAuthor = "Admin"
	fallbackSlug  = "artikel"

	articleInsertSavepoint = "article_insert"
)

var errNoProvider = errors.New("no AI provider is configured")

// Notifier receives job updates for connected websocket clients
type Notifier interface {
	BroadcastStatus(jobID uuid.UUID, jobType model.JobType, status model.JobStatus)
	BroadcastComplete(jobID uuid.UUID, article *model.ArticleRef)
	BroadcastError(jobID uuid.UUID, code, message string)
}

// GenerationWorker executes generate and regenerate jobs
type GenerationWorker struct {
	store    *store.Store
	settings *service.SettingsService
	notifier Notifier
	log      *logrus.Logger
	sem      *semaphore.Weighted
	now      func() time.Time

	// slugChecked runs between the slug lookup and the insert; tests use it
	// to land a competing insert in that window.
	slugChecked func(ctx context.Context, tx *store.Store)
}

// NewGenerationWorker creates a worker. maxConcurrency caps simultaneous
// provider calls across all jobs; 0 means no cap.
func NewGenerationWorker(s *store.Store, settings *service.SettingsService, notifier Notifier, log *logrus.Logger, maxConcurrency int64) *GenerationWorker {
	w := &GenerationWorker{
		store:    s,
		settings: settings,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
	if w.notifier == nil {
		w.notifier = nopNotifier{}
	}
	if maxConcurrency > 0 {
		w.sem = semaphore.NewWeighted(maxConcurrency)
	}
	return w
}

// Run executes one job. A job that is gone or no longer pending is skipped
// without any write. Every failure after the job has started is recorded
// on the job; nothing escapes to the caller.
func (w *GenerationWorker) Run(ctx context.Context, jobID uuid.UUID, generator client.ArticleGenerator) {
	logger := w.log.WithField("job_id", jobID)

	// set once the job is processing, so a panic outside execute still
	// leaves it terminal
	var running *model.Job
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Error("Job runner panicked")
			if running != nil {
				w.failRecovered(ctx, logger, running, fmt.Errorf("job panicked: %v", r))
			}
		}
	}()

	job, err := w.store.Jobs.Get(ctx, jobID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.WithError(err).Error("Failed to load job")
		}
		return
	}
	if job.Status != model.JobStatusPending {
		logger.WithField("status", job.Status).Info("Job is no longer pending, skipping")
		return
	}

	started, err := w.store.Jobs.Transition(ctx, jobID, model.JobStatusPending, model.JobStatusProcessing, nil)
	if err != nil {
		logger.WithError(err).Error("Failed to start job")
		return
	}
	if !started {
		logger.Info("Job was cancelled before it started, skipping")
		return
	}
	running = job

	ctx, span := monitoring.StartSpan(ctx, "job.execute",
		attribute.String("job.id", jobID.String()),
		attribute.String("job.type", string(job.JobType)),
	)
	defer span.End()

	start := time.Now()
	monitoring.IncJobsInFlight()
	defer monitoring.DecJobsInFlight()

	logger = logger.WithField("job_type", job.JobType)
	logger.Info("Job processing")
	w.notifier.BroadcastStatus(jobID, job.JobType, model.JobStatusProcessing)

	ref, err := w.execute(ctx, jobID, generator)
	if err != nil {
		monitoring.SetSpanError(span, err)
		w.fail(ctx, logger, job, err)
		monitoring.RecordJobFinished(string(job.JobType), string(model.JobStatusFailed), time.Since(start))
		return
	}

	monitoring.RecordJobFinished(string(job.JobType), string(model.JobStatusCompleted), time.Since(start))
	logger.WithField("slug", ref.Slug).Info("Job completed")
	w.notifier.BroadcastStatus(jobID, job.JobType, model.JobStatusCompleted)
	w.notifier.BroadcastComplete(jobID, ref)
}

func (w *GenerationWorker) execute(ctx context.Context, jobID uuid.UUID, generator client.ArticleGenerator) (ref *model.ArticleRef, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()

	job, err := w.store.Jobs.Get(ctx, jobID)
	if err != nil {
		return nil, service.PersistenceError("failed to load job", err)
	}

	knowledge, err := w.settings.ProductKnowledge(ctx)
	if err != nil {
		w.log.WithError(err).WithField("job_id", jobID).Warn("Failed to read product knowledge, continuing without it")
		knowledge = ""
	}

	req := &client.GenerateRequest{
		Keyword:          job.Keyword,
		Intent:           job.Intent,
		ProductKnowledge: knowledge,
		UseCustomOnly:    job.UseCustomOnly,
	}
	if job.CustomPrompt != nil {
		req.CustomPrompt = *job.CustomPrompt
	}

	generated, err := w.generate(ctx, generator, req)
	if err != nil {
		return nil, service.ProviderError(err)
	}

	if job.JobType == model.JobTypeRegenerate {
		return w.applyRegenerate(ctx, job, generated)
	}
	return w.applyGenerate(ctx, job, generated)
}

func (w *GenerationWorker) generate(ctx context.Context, generator client.ArticleGenerator, req *client.GenerateRequest) (*client.GeneratedArticle, error) {
	if generator == nil {
		return nil, errNoProvider
	}
	if w.sem != nil {
		if err := w.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer w.sem.Release(1)
	}
	return generator.GenerateArticle(ctx, req)
}

// applyRegenerate replaces the article content and keeps a structured
// snapshot of what it replaced. The article write and job completion
// commit together.
func (w *GenerationWorker) applyRegenerate(ctx context.Context, job *model.Job, generated *client.GeneratedArticle) (*model.ArticleRef, error) {
	if job.ArticleSlug == nil {
		return nil, service.NotFoundError("Article not found for regeneration")
	}

	var ref *model.ArticleRef
	err := w.store.Transaction(ctx, func(tx *store.Store) error {
		article, err := tx.Articles.GetBySlug(ctx, *job.ArticleSlug)
		if errors.Is(err, store.ErrNotFound) {
			return service.NotFoundError("Article not found for regeneration")
		}
		if err != nil {
			return service.PersistenceError("failed to load article", err)
		}

		snapshot, err := model.SnapshotOf(article).Encode()
		if err != nil {
			return service.PersistenceError("failed to encode snapshot", err)
		}

		err = tx.Articles.UpdateVersioned(ctx, article.ID, article.Version, map[string]interface{}{
			"previous_content_html": snapshot,
			"content_html":          generated.ContentHTML,
			"title":                 generated.Title,
			"meta_description":      generated.MetaDescription,
			"tags":                  tagsOf(generated),
		})
		if errors.Is(err, store.ErrVersionConflict) {
			return service.ConflictError("Article was modified while it was being regenerated", err)
		}
		if err != nil {
			return service.PersistenceError("failed to update article", err)
		}

		if err := completeJob(ctx, tx, job.ID, article.ID); err != nil {
			return err
		}
		ref = &model.ArticleRef{ID: article.ID, Title: generated.Title, Slug: article.Slug}
		return nil
	})
	return ref, err
}

// applyGenerate inserts a new published article under a unique slug
func (w *GenerationWorker) applyGenerate(ctx context.Context, job *model.Job, generated *client.GeneratedArticle) (*model.ArticleRef, error) {
	base := slug.Make(job.Keyword)
	if base == "" {
		base = fallbackSlug
	}

	var ref *model.ArticleRef
	err := w.store.Transaction(ctx, func(tx *store.Store) error {
		now := w.now()

		suffixed := fmt.Sprintf("%s-%d", base, now.UnixMilli())
		finalSlug := base
		exists, err := tx.Articles.SlugExists(ctx, base)
		if err != nil {
			return service.PersistenceError("failed to check slug", err)
		}
		if exists {
			finalSlug = suffixed
		}

		if w.slugChecked != nil {
			w.slugChecked(ctx, tx)
		}

		article := &model.Article{
			KeywordID:       job.KeywordID,
			Title:           generated.Title,
			Slug:            finalSlug,
			MetaDescription: generated.MetaDescription,
			ContentHTML:     generated.ContentHTML,
			MainKeyword:     job.Keyword,
			Tags:            tagsOf(generated),
			ImageURL:        imageURL(finalSlug),
			ImageAlt:        "Ilustrasi " + generated.Title,
			Author:          defaultAuthor,
			Status:          model.ArticleStatusPublished,
			PublishedAt:     &now,
			Version:         1,
		}
		if err := insertArticle(ctx, tx, article, suffixed); err != nil {
			return err
		}

		if job.KeywordID != nil {
			if err := tx.Keywords.SetStatus(ctx, *job.KeywordID, model.KeywordStatusPublished); err != nil {
				return service.PersistenceError("failed to update keyword", err)
			}
		}

		if err := completeJob(ctx, tx, job.ID, article.ID); err != nil {
			return err
		}
		ref = &model.ArticleRef{ID: article.ID, Title: article.Title, Slug: article.Slug}
		return nil
	})
	return ref, err
}

// insertArticle creates article. When another writer took its slug after
// the existence check, the insert is retried once under fallback. The
// savepoint keeps the transaction usable after the failed statement.
func insertArticle(ctx context.Context, tx *store.Store, article *model.Article, fallback string) error {
	if err := tx.SavePoint(ctx, articleInsertSavepoint); err != nil {
		return service.PersistenceError("failed to save article", err)
	}

	err := tx.Articles.Create(ctx, article)
	if errors.Is(err, store.ErrDuplicateSlug) && article.Slug != fallback {
		if err := tx.RollbackTo(ctx, articleInsertSavepoint); err != nil {
			return service.PersistenceError("failed to save article", err)
		}
		article.ID = 0
		article.Slug = fallback
		article.ImageURL = imageURL(fallback)
		err = tx.Articles.Create(ctx, article)
	}
	if err != nil {
		return service.PersistenceError("failed to save article", err)
	}
	return nil
}

func imageURL(articleSlug string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/800/400", url.PathEscape(articleSlug))
}

func completeJob(ctx context.Context, tx *store.Store, jobID uuid.UUID, articleID uint) error {
	ok, err := tx.Jobs.Transition(ctx, jobID, model.JobStatusProcessing, model.JobStatusCompleted, map[string]interface{}{
		"article_id": articleID,
	})
	if err != nil {
		return service.PersistenceError("failed to complete job", err)
	}
	if !ok {
		return service.ConflictError("Job is no longer processing", nil)
	}
	return nil
}

// failRecovered is fail for the top-level recover. A second panic, such as
// from the notifier, is logged and dropped.
func (w *GenerationWorker) failRecovered(ctx context.Context, logger *logrus.Entry, job *model.Job, cause error) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Error("Job runner panicked while failing job")
		}
	}()
	w.fail(ctx, logger, job, cause)
}

func (w *GenerationWorker) fail(ctx context.Context, logger *logrus.Entry, job *model.Job, cause error) {
	msg := cause.Error()
	logger.WithError(cause).Error("Job failed")

	ok, err := w.store.Jobs.Transition(ctx, job.ID, model.JobStatusProcessing, model.JobStatusFailed, map[string]interface{}{
		"error": msg,
	})
	if err != nil {
		logger.WithError(err).Error("Failed to mark job as failed")
		return
	}
	if !ok {
		logger.Warn("Job left processing before it could be marked failed")
		return
	}

	w.notifier.BroadcastStatus(job.ID, job.JobType, model.JobStatusFailed)
	w.notifier.BroadcastError(job.ID, errorCode(cause), msg)
}

func errorCode(err error) string {
	switch service.KindOf(err) {
	case service.KindProvider:
		return "AI_ERROR"
	case service.KindNotFound:
		return "NOT_FOUND"
	case service.KindConflict:
		return "CONFLICT"
	default:
		return "JOB_FAILED"
	}
}

func tagsOf(generated *client.GeneratedArticle) datatypes.JSONSlice[string] {
	if generated.Tags == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](generated.Tags)
}

type nopNotifier struct{}

func (nopNotifier) BroadcastStatus(uuid.UUID, model.JobType, model.JobStatus) {}
func (nopNotifier) BroadcastComplete(uuid.UUID, *model.ArticleRef)            {}
func (nopNotifier) BroadcastError(uuid.UUID, string, string)                  {}
