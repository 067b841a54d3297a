package services

import (
	"fmt"
)

// Stage names of the generation pipeline.
const (
	StageNotes      = "notes"
	StageFlashcards = "flashcards"
	StageQuiz       = "quiz"
)

// ConfigurationError means a required credential is missing.
type ConfigurationError struct{ Message string }

func (e *ConfigurationError) Error() string { return e.Message }

// DecodeError means binary content could not be decoded.
type DecodeError struct{ Err error }

func (e *DecodeError) Error() string { return fmt.Sprintf("failed to decode content: %v", e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }

// UpstreamError is a failed completion call. Body is for server-side logs only.
type UpstreamError struct {
	Stage      string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Stage == "" {
		return "Failed to generate content"
	}
	if e.Stage == StageQuiz {
		return "Failed to generate quiz"
	}
	return "Failed to generate " + e.Stage
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Detail describes the failure for logging.
func (e *UpstreamError) Detail() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("status=%d: %v", e.StatusCode, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return fmt.Sprintf("status=%d body=%s", e.StatusCode, truncate(e.Body, 512))
	}
}

// ExtractionError means a response held no parseable JSON array. It is always recovered.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Reason, e.Err)
	}
	return "extraction failed: " + e.Reason
}

func (e *ExtractionError) Unwrap() error { return e.Err }

type ValidationError struct{ Message string }

func (e *ValidationError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
