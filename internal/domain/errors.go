package domain

import (
	"fmt"
	"strings"
	"time"
)

// ResolutionError means no provider could supply usable media. It carries the
// per-provider reasons so the job-level error explains the whole chain.
type ResolutionError struct {
	AssetID string
	Reasons []string
}

func (e *ResolutionError) Error() string {
	if len(e.Reasons) == 0 {
		return fmt.Sprintf("no provider could resolve asset %s", e.AssetID)
	}
	return fmt.Sprintf("no provider could resolve asset %s: %s", e.AssetID, strings.Join(e.Reasons, "; "))
}

// DownloadError means materializing a source stream to local storage failed.
type DownloadError struct {
	Locator string
	Err     error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed: %v", e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// ExtractionError means the transcoder exited non-zero or violated its
// post-condition (missing or empty output).
type ExtractionError struct {
	OutputName string
	Err        error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction of %s failed: %v", e.OutputName, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ValidationError means a clip request item is missing or malformed.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// TimeoutError means an operation exceeded its wall-clock bound.
type TimeoutError struct {
	Op    string
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s exceeded %s", e.Op, e.Limit)
}
