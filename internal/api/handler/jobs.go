package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/clipforge/internal/domain"
	"github.com/timmy/clipforge/internal/repository"
	"github.com/timmy/clipforge/internal/service"
)

// JobHandler handles clip job submission and polling.
type JobHandler struct {
	jobs      *service.JobService
	artifacts *service.ArtifactService
}

// NewJobHandler creates a new job handler.
// Parameters:
//   - jobs: job lifecycle service.
//   - artifacts: artifact service used to build download URLs.
// Returns:
//   - *JobHandler: initialized handler.
func NewJobHandler(jobs *service.JobService, artifacts *service.ArtifactService) *JobHandler {
	return &JobHandler{jobs: jobs, artifacts: artifacts}
}

// SubmitJobRequest is the request body for job submission.
type SubmitJobRequest struct {
	AssetID string             `json:"asset_id"`
	Clips   []domain.ClipRange `json:"clips"`
}

// SubmitJobResponse acknowledges an accepted job.
type SubmitJobResponse struct {
	JobID         string   `json:"job_id"`
	Status        string   `json:"status"`
	TotalClips    int      `json:"total_clips"`
	ClipFilenames []string `json:"clip_filenames"`
}

// clipResultView is a ClipResult enriched with its download URL.
type clipResultView struct {
	domain.ClipResult
	URL string `json:"url"`
}

// jobView is the polling response.
type jobView struct {
	JobID       string             `json:"job_id"`
	AssetID     string             `json:"asset_id"`
	Status      domain.JobStatus   `json:"status"`
	Total       int                `json:"total"`
	Processed   int                `json:"processed"`
	Results     []clipResultView   `json:"results"`
	Errors      []domain.ClipError `json:"errors"`
	Error       string             `json:"error,omitempty"`
	CreatedAt   string             `json:"created_at"`
	CompletedAt string             `json:"completed_at,omitempty"`
}

// Submit handles POST /api/v1/jobs.
// Parameters:
//   - c: Gin request context.
func (h *JobHandler) Submit(c *gin.Context) {
	var req SubmitJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	job, filenames, err := h.jobs.Submit(c.Request.Context(), req.AssetID, req.Clips)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create job"})
		return
	}

	c.JSON(http.StatusAccepted, SubmitJobResponse{
		JobID:         job.ID,
		Status:        string(job.Status),
		TotalClips:    job.Total,
		ClipFilenames: filenames,
	})
}

// Get handles GET /api/v1/jobs/:id.
// Parameters:
//   - c: Gin request context.
func (h *JobHandler) Get(c *gin.Context) {
	id := c.Param("id")

	job, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load job"})
		return
	}

	c.JSON(http.StatusOK, h.view(job))
}

func (h *JobHandler) view(job *domain.Job) jobView {
	results := make([]clipResultView, 0, len(job.Results))
	for _, r := range job.Results {
		results = append(results, clipResultView{
			ClipResult: r,
			URL:        h.artifacts.URL(r.OutputName),
		})
	}

	errs := job.Errors
	if errs == nil {
		errs = domain.ClipErrors{}
	}

	view := jobView{
		JobID:     job.ID,
		AssetID:   job.AssetID,
		Status:    job.Status,
		Total:     job.Total,
		Processed: job.Processed,
		Results:   results,
		Errors:    errs,
		Error:     job.Error,
		CreatedAt: job.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if job.CompletedAt != nil {
		view.CompletedAt = job.CompletedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return view
}
