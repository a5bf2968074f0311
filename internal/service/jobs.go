package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/clipforge/internal/domain"
	"github.com/timmy/clipforge/internal/extract"
	"github.com/timmy/clipforge/internal/logger"
	"github.com/timmy/clipforge/internal/repository"
	"github.com/timmy/clipforge/internal/resolver"
)

// Extractor cuts one clip from resolved media.
type Extractor interface {
	Extract(ctx context.Context, media *domain.ResolvedMedia, assetID string, start, end float64) (*domain.ClipResult, error)
}

// Materializer downloads a job's source stream(s) to local files for the
// download-then-cut strategy.
type Materializer interface {
	Materialize(ctx context.Context, media *domain.ResolvedMedia, jobID string) (*domain.ResolvedMedia, func(), error)
}

// JobService owns the clip job lifecycle: submission, the background runner,
// and polling. The runner is the sole mutator of a job after creation.
type JobService struct {
	repo       *repository.JobRepository
	resolver   resolver.Resolver
	extractor  Extractor
	downloader Materializer
	artifacts  *ArtifactService
	sweeper    *Sweeper
	mode       extract.Mode
	logger     *logger.Logger
}

// JobServiceConfig holds configuration for the job service.
type JobServiceConfig struct {
	Mode extract.Mode
}

// NewJobService creates a new job service.
// Parameters:
//   - repo: job store.
//   - res: media resolver (normally the provider fallback chain).
//   - extractor: clip extractor.
//   - downloader: asset materializer for download mode.
//   - artifacts: artifact service used for remote mirroring.
//   - sweeper: retention sweeper notified on terminal transitions.
//   - log: base logger.
//   - cfg: job service configuration.
// Returns:
//   - *JobService: initialized service.
func NewJobService(
	repo *repository.JobRepository,
	res resolver.Resolver,
	extractor Extractor,
	downloader Materializer,
	artifacts *ArtifactService,
	sweeper *Sweeper,
	log *logger.Logger,
	cfg *JobServiceConfig,
) *JobService {
	return &JobService{
		repo:       repo,
		resolver:   res,
		extractor:  extractor,
		downloader: downloader,
		artifacts:  artifacts,
		sweeper:    sweeper,
		mode:       cfg.Mode,
		logger:     log,
	}
}

// Submit validates the batch request, persists a pending job, and spawns its
// runner. It returns immediately; per-item validation stays lazy and happens
// in the runner.
// Parameters:
//   - ctx: request context (used only for the initial insert).
//   - assetID: external source identifier.
//   - clips: ordered requested ranges.
// Returns:
//   - *domain.Job: the created pending record.
//   - []string: deterministic artifact name per requested clip (empty string
//     for items missing a bound).
//   - error: *domain.ValidationError for an empty asset ID or clip list.
func (s *JobService) Submit(ctx context.Context, assetID string, clips []domain.ClipRange) (*domain.Job, []string, error) {
	if assetID == "" {
		return nil, nil, &domain.ValidationError{Reason: "asset_id is required"}
	}
	if len(clips) == 0 {
		return nil, nil, &domain.ValidationError{Reason: "clips must not be empty"}
	}

	job := &domain.Job{
		ID:             uuid.New().String(),
		AssetID:        assetID,
		Status:         domain.JobStatusPending,
		RequestedClips: clips,
		Total:          len(clips),
		Results:        domain.ClipResults{},
		Errors:         domain.ClipErrors{},
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, nil, fmt.Errorf("failed to persist job: %w", err)
	}

	filenames := make([]string, len(clips))
	for i, clip := range clips {
		if clip.Start != nil && clip.End != nil {
			filenames[i] = extract.ClipName(assetID, *clip.Start, *clip.End)
		}
	}

	go s.runJob(job.ID, assetID)

	return job, filenames, nil
}

// Get returns the current job record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: job ID.
// Returns:
//   - *domain.Job: job record.
//   - error: repository.ErrJobNotFound for unknown or swept IDs.
func (s *JobService) Get(ctx context.Context, id string) (*domain.Job, error) {
	return s.repo.GetByID(ctx, id)
}

// runJob drives one job end-to-end on a detached context so it outlives the
// submitting request.
func (s *JobService) runJob(jobID, assetID string) {
	ctx := logger.WithFields(context.Background(), logger.Fields{
		logger.FieldJobID:     jobID,
		logger.FieldAssetID:   assetID,
		logger.FieldComponent: "runner",
	})

	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		logger.CtxError(ctx, "Runner could not load job: %v", err)
		return
	}

	// Panic boundary: anything escaping the per-clip handling fails the job
	// instead of crashing the process.
	defer func() {
		if r := recover(); r != nil {
			logger.CtxError(ctx, "Runner panicked: %v", r)
			s.markFailed(ctx, job, fmt.Sprintf("internal error: %v", r))
		}
	}()

	job.Status = domain.JobStatusProcessing
	job.Processed = 0
	if err := s.repo.Save(ctx, job); err != nil {
		logger.CtxError(ctx, "Failed to mark job processing: %v", err)
		return
	}

	media, err := s.resolver.Resolve(ctx, job.AssetID)
	if err != nil {
		s.markFailed(ctx, job, err.Error())
		return
	}

	if s.mode == extract.ModeDownload {
		localMedia, cleanup, err := s.downloader.Materialize(ctx, media, job.ID)
		if err != nil {
			s.markFailed(ctx, job, err.Error())
			return
		}
		defer cleanup()
		media = localMedia
	}

	for i, clip := range job.RequestedClips {
		s.processClip(ctx, job, media, i, clip)

		job.Processed++
		if err := s.repo.Save(ctx, job); err != nil {
			logger.CtxError(ctx, "Failed to persist progress after clip %d: %v", i, err)
		}
	}

	now := time.Now().UTC()
	job.Status = domain.JobStatusFinished
	job.CompletedAt = &now
	if err := s.repo.Save(ctx, job); err != nil {
		logger.CtxError(ctx, "Failed to finalize job: %v", err)
		return
	}

	if len(job.Results) > 0 {
		names := make([]string, 0, len(job.Results))
		for _, r := range job.Results {
			names = append(names, r.OutputName)
		}
		if err := s.artifacts.Mirror(ctx, names); err != nil {
			logger.CtxWarn(ctx, "Failed to mirror artifacts to remote storage: %v", err)
		}
	}

	logger.With(logger.Fields{
		logger.FieldCount:  len(job.Results),
		logger.FieldStatus: string(job.Status),
	}).Info(ctx, "Job finished: %d/%d clips succeeded", len(job.Results), job.Total)

	s.sweeper.Schedule(job.ID)
}

// processClip runs one item through validation and extraction, appending to
// results or errors. Failures here never end the batch.
func (s *JobService) processClip(ctx context.Context, job *domain.Job, media *domain.ResolvedMedia, index int, clip domain.ClipRange) {
	if err := clip.Validate(); err != nil {
		logger.CtxWarn(ctx, "Clip %d rejected: %v", index, err)
		job.Errors = append(job.Errors, domain.ClipError{Index: index, Message: err.Error(), Clip: clip})
		return
	}

	result, err := s.extractor.Extract(ctx, media, job.AssetID, *clip.Start, *clip.End)
	if err != nil {
		logger.CtxWarn(ctx, "Clip %d extraction failed: %v", index, err)
		job.Errors = append(job.Errors, domain.ClipError{Index: index, Message: err.Error(), Clip: clip})
		return
	}

	job.Results = append(job.Results, *result)
}

// markFailed records a batch-level failure: no clips were attempted, or the
// shared download could not be materialized.
func (s *JobService) markFailed(ctx context.Context, job *domain.Job, message string) {
	if job.Status.IsTerminal() {
		return
	}
	now := time.Now().UTC()
	job.Status = domain.JobStatusFailed
	job.Error = message
	job.CompletedAt = &now
	if err := s.repo.Save(ctx, job); err != nil {
		logger.CtxError(ctx, "Failed to persist failed status: %v", err)
		return
	}
	logger.CtxError(ctx, "Job failed: %s", message)
	s.sweeper.Schedule(job.ID)
}
