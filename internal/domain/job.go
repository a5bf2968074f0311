package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// JobStatus represents the lifecycle state of a clip job.
// Values include JobStatusPending, JobStatusProcessing, JobStatusFinished, and JobStatusFailed.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusFinished   JobStatus = "finished"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether the status permits no further transitions.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusFinished || s == JobStatusFailed
}

// ClipRange is one requested [start, end) range in seconds.
// Start and End are pointers so a missing value survives request decoding
// and is reported as a per-item validation error instead of failing the batch.
type ClipRange struct {
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

// Validate checks that both bounds are present and ordered.
// Parameters: none.
// Returns:
//   - error: *ValidationError when a bound is missing, negative, or unordered.
func (c ClipRange) Validate() error {
	if c.Start == nil || c.End == nil {
		return &ValidationError{Reason: "start and end are required"}
	}
	if *c.Start < 0 {
		return &ValidationError{Reason: "start must not be negative"}
	}
	if *c.End <= *c.Start {
		return &ValidationError{Reason: "end must be greater than start"}
	}
	return nil
}

// ClipResult records one successful extraction.
type ClipResult struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	OutputName string  `json:"output_name"`
	Title      string  `json:"title,omitempty"`
	Resolution string  `json:"resolution,omitempty"`
	SizeBytes  int64   `json:"size_bytes"`
}

// ClipError records one failed item by its position in the requested list.
type ClipError struct {
	Index   int       `json:"index"`
	Message string    `json:"message"`
	Clip    ClipRange `json:"clip"`
}

// ClipRanges is stored as a JSON text column.
type ClipRanges []ClipRange

// ClipResults is stored as a JSON text column.
type ClipResults []ClipResult

// ClipErrors is stored as a JSON text column.
type ClipErrors []ClipError

// Value implements the driver.Valuer interface for database serialization.
func (c ClipRanges) Value() (driver.Value, error) { return jsonValue(c) }

// Scan implements the sql.Scanner interface for database deserialization.
func (c *ClipRanges) Scan(value interface{}) error { return jsonScan(value, c) }

// Value implements the driver.Valuer interface for database serialization.
func (c ClipResults) Value() (driver.Value, error) { return jsonValue(c) }

// Scan implements the sql.Scanner interface for database deserialization.
func (c *ClipResults) Scan(value interface{}) error { return jsonScan(value, c) }

// Value implements the driver.Valuer interface for database serialization.
func (c ClipErrors) Value() (driver.Value, error) { return jsonValue(c) }

// Scan implements the sql.Scanner interface for database deserialization.
func (c *ClipErrors) Scan(value interface{}) error { return jsonScan(value, c) }

func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonScan(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan JSON column")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, dest)
}

// Job is the unit of asynchronous work for one asset and its clip list.
// The runner is the sole mutator after creation; the submitting handler only
// constructs the initial record.
type Job struct {
	ID             string      `gorm:"type:text;primaryKey" json:"job_id"`
	AssetID        string      `gorm:"type:text;not null;index" json:"asset_id"`
	Status         JobStatus   `gorm:"type:text;index;default:pending" json:"status"`
	RequestedClips ClipRanges  `gorm:"type:text" json:"requested_clips"`
	Total          int         `json:"total"`
	Processed      int         `json:"processed"`
	Results        ClipResults `gorm:"type:text" json:"results"`
	Errors         ClipErrors  `gorm:"type:text" json:"errors"`
	Error          string      `gorm:"type:text" json:"error,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	CompletedAt    *time.Time  `json:"completed_at,omitempty"`
}

// TableName returns the database table name for Job.
func (Job) TableName() string {
	return "clip_jobs"
}
