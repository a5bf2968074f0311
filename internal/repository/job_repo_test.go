package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/timmy/clipforge/internal/config"
	"github.com/timmy/clipforge/internal/domain"
)

func newTestRepo(t *testing.T) *JobRepository {
	t.Helper()
	db, err := InitDB(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "jobs.db"),
		MaxIdleConns: 1,
		MaxOpenConns: 1,
		AutoMigrate:  true,
	})
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	return NewJobRepository(db)
}

func floatPtr(v float64) *float64 { return &v }

func testJob(id string) *domain.Job {
	return &domain.Job{
		ID:      id,
		AssetID: "dQw4w9WgXcQ",
		Status:  domain.JobStatusPending,
		RequestedClips: domain.ClipRanges{
			{Start: floatPtr(10), End: floatPtr(20)},
		},
		Total:     1,
		Results:   domain.ClipResults{},
		Errors:    domain.ClipErrors{},
		CreatedAt: time.Now().UTC(),
	}
}

func TestJobRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	job := testJob("job-1")
	if err := repo.Create(ctx, job); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.AssetID != job.AssetID {
		t.Errorf("AssetID mismatch: got %s, want %s", got.AssetID, job.AssetID)
	}
	if got.Status != domain.JobStatusPending {
		t.Errorf("Status mismatch: got %s", got.Status)
	}
	if len(got.RequestedClips) != 1 {
		t.Fatalf("RequestedClips not round-tripped: %+v", got.RequestedClips)
	}
	if got.RequestedClips[0].Start == nil || *got.RequestedClips[0].Start != 10 {
		t.Errorf("Clip start not round-tripped: %+v", got.RequestedClips[0])
	}
}

func TestJobSaveUpdates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	job := testJob("job-1")
	if err := repo.Create(ctx, job); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	job.Status = domain.JobStatusProcessing
	job.Processed = 1
	job.Results = append(job.Results, domain.ClipResult{Start: 10, End: 20, OutputName: "abc.mp4", SizeBytes: 42})
	if err := repo.Save(ctx, job); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != domain.JobStatusProcessing || got.Processed != 1 {
		t.Errorf("Update not persisted: status=%s processed=%d", got.Status, got.Processed)
	}
	if len(got.Results) != 1 || got.Results[0].OutputName != "abc.mp4" {
		t.Errorf("Results not persisted: %+v", got.Results)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrJobNotFound) {
		t.Errorf("Expected ErrJobNotFound, got %v", err)
	}
}

func TestDeleteAbsentJob(t *testing.T) {
	repo := newTestRepo(t)

	if err := repo.Delete(context.Background(), "missing"); err != nil {
		t.Errorf("Deleting an absent job should not fail: %v", err)
	}
}

func TestListExpired(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	old := now.Add(-time.Hour)
	recent := now.Add(-time.Minute)

	expired := testJob("expired")
	expired.Status = domain.JobStatusFinished
	expired.CompletedAt = &old

	fresh := testJob("fresh")
	fresh.Status = domain.JobStatusFailed
	fresh.CompletedAt = &recent

	active := testJob("active")
	active.Status = domain.JobStatusProcessing

	for _, job := range []*domain.Job{expired, fresh, active} {
		if err := repo.Create(ctx, job); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	jobs, err := repo.ListExpired(ctx, now.Add(-30*time.Minute))
	if err != nil {
		t.Fatalf("ListExpired failed: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("Expected 1 expired job, got %d", len(jobs))
	}
	if jobs[0].ID != "expired" {
		t.Errorf("Wrong job returned: %s", jobs[0].ID)
	}
}
