package model

import (
	"context"
	"io"
)

// BatchProcessor aggregates user files.
type BatchProcessor interface {
	ProcessUserFiles(ctx context.Context, paths []string) BatchResult
	ProcessManifest(ctx context.Context, r io.Reader) (BatchResult, error)
}

// FileSummary is the aggregate of one successfully processed file.
// UserCount is the raw length of the users array, TotalValue sums only the
// entries whose value could be read as a number.
type FileSummary struct {
	File       string  `json:"file"`
	UserCount  int     `json:"user_count"`
	TotalValue float64 `json:"total_value"`
}

// ProcessingError describes a file that could not be processed.
type ProcessingError struct {
	File   string `json:"file"`
	Reason string `json:"error"`
	Cause  error  `json:"-"`
}

// NewProcessingError creates ProcessingError for the file with an optional cause.
func NewProcessingError(file, reason string, cause error) *ProcessingError {
	return &ProcessingError{File: file, Reason: reason, Cause: cause}
}

func (e *ProcessingError) Error() string {
	return e.Reason + " (file: " + e.File + ")"
}

func (e *ProcessingError) Unwrap() error {
	return e.Cause
}

// Diagnostic is an entry-level anomaly that was tolerated while processing a file.
type Diagnostic struct {
	File    string `json:"file"`
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// BatchResult holds the outcome of a batch run. Every input path appears
// exactly once, either in Summaries or in Errors.
type BatchResult struct {
	Summaries   []FileSummary     `json:"summaries"`
	Errors      []ProcessingError `json:"errors"`
	Diagnostics []Diagnostic      `json:"diagnostics,omitempty"`
}
