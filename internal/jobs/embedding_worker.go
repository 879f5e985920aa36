package jobs

import (
	"context"
	"fmt"
	"log"

	"github.com/vendo-labs/vendoai/internal/domain"
)

// MaxRetries bounds how many times a failing job is re-queued before it is
// marked failed for good.
const MaxRetries = 3

type EmbeddingJobRepository interface {
	GetPendingJobs(ctx context.Context) ([]*domain.EmbeddingJob, error)
	UpdateJobStatus(ctx context.Context, jobID string, status domain.EmbeddingJobStatus, errMsg string) error
	IncrementRetries(ctx context.Context, jobID string) error
}

// Indexer rebuilds the chunk embeddings for a single source.
type Indexer interface {
	IndexProduct(ctx context.Context, productID string) error
	IndexDocument(ctx context.Context, documentID string) error
}

// EmbeddingWorker drains pending embedding jobs. One job failing does not
// stop the batch.
type EmbeddingWorker struct {
	repo    EmbeddingJobRepository
	indexer Indexer
}

func NewEmbeddingWorker(repo EmbeddingJobRepository, indexer Indexer) *EmbeddingWorker {
	return &EmbeddingWorker{
		repo:    repo,
		indexer: indexer,
	}
}

// ProcessJobs implements JobProcessor.
func (w *EmbeddingWorker) ProcessJobs(ctx context.Context) error {
	pending, err := w.repo.GetPendingJobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch pending jobs: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	log.Printf("Processing %d pending embedding jobs", len(pending))
	for _, job := range pending {
		if err := w.processJob(ctx, job); err != nil {
			log.Printf("Error processing job %s: %v", job.ID, err)
		}
	}
	return nil
}

func (w *EmbeddingWorker) processJob(ctx context.Context, job *domain.EmbeddingJob) error {
	log.Printf("Processing job %s for %s %s", job.ID, job.SourceType, job.SourceID)

	var indexErr error
	switch job.SourceType {
	case domain.ChunkSourceProduct:
		indexErr = w.indexer.IndexProduct(ctx, job.SourceID)
	case domain.ChunkSourceDocument:
		indexErr = w.indexer.IndexDocument(ctx, job.SourceID)
	default:
		return fmt.Errorf("job %s has unknown source type %q", job.ID, job.SourceType)
	}
	if indexErr != nil {
		return w.retryOrFail(ctx, job, indexErr)
	}

	if err := w.repo.UpdateJobStatus(ctx, job.ID, domain.EmbeddingJobStatusCompleted, ""); err != nil {
		return fmt.Errorf("failed to update job status to completed: %w", err)
	}
	log.Printf("Job %s completed successfully", job.ID)
	return nil
}

// retryOrFail bumps the retry counter and either re-queues the job or, once
// MaxRetries is hit, marks it failed with the final error.
func (w *EmbeddingWorker) retryOrFail(ctx context.Context, job *domain.EmbeddingJob, jobErr error) error {
	log.Printf("Job %s failed: %v", job.ID, jobErr)

	if err := w.repo.IncrementRetries(ctx, job.ID); err != nil {
		return fmt.Errorf("failed to increment retries: %w", err)
	}

	attempt := job.Retries + 1
	if attempt >= MaxRetries {
		log.Printf("Job %s exceeded max retries (%d), marking as failed", job.ID, MaxRetries)
		msg := fmt.Sprintf("max retries exceeded: %v", jobErr)
		if err := w.repo.UpdateJobStatus(ctx, job.ID, domain.EmbeddingJobStatusFailed, msg); err != nil {
			return fmt.Errorf("failed to update job status to failed: %w", err)
		}
		return nil
	}

	log.Printf("Job %s will be retried (attempt %d/%d)", job.ID, attempt, MaxRetries)
	msg := fmt.Sprintf("retry %d: %v", attempt, jobErr)
	if err := w.repo.UpdateJobStatus(ctx, job.ID, domain.EmbeddingJobStatusPending, msg); err != nil {
		return fmt.Errorf("failed to reset job status to pending: %w", err)
	}
	return nil
}
