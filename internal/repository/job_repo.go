package repository

import (
	"context"
	"errors"
	"time"

	"github.com/timmy/clipforge/internal/domain"
	"gorm.io/gorm"
)

// ErrJobNotFound is returned when no job record exists for the given ID.
// Callers must render it as a not-found condition, not a server error.
var ErrJobNotFound = errors.New("job not found")

// JobRepository handles clip job persistence.
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new JobRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *JobRepository: repository instance bound to db.
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new job record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - job: job record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// GetByID retrieves a job by its ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: job ID.
// Returns:
//   - *domain.Job: job record if found.
//   - error: ErrJobNotFound when absent, otherwise the lookup failure.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	var job domain.Job
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

// Save overwrites the full job record. The runner is the sole mutator of an
// active job, so last-writer-wins semantics are sufficient here.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - job: job record with updated fields.
// Returns:
//   - error: non-nil if the write fails.
func (r *JobRepository) Save(ctx context.Context, job *domain.Job) error {
	return r.db.WithContext(ctx).Save(job).Error
}

// Delete removes a job record. Deleting an absent ID is not an error.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: job ID.
// Returns:
//   - error: non-nil if the delete fails.
func (r *JobRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Job{}, "id = ?", id).Error
}

// ListExpired returns terminal jobs whose completion predates the cutoff.
// Used by the retention sweeper's periodic scan so jobs that became terminal
// before a process restart still expire.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - cutoff: completion-time threshold.
// Returns:
//   - []domain.Job: expired terminal jobs.
//   - error: non-nil if the query fails.
func (r *JobRepository) ListExpired(ctx context.Context, cutoff time.Time) ([]domain.Job, error) {
	var jobs []domain.Job
	err := r.db.WithContext(ctx).
		Where("status IN ?", []domain.JobStatus{domain.JobStatusFinished, domain.JobStatusFailed}).
		Where("completed_at IS NOT NULL AND completed_at < ?", cutoff).
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}
