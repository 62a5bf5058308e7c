package service

import "errors"

var (
	// ErrInvalidInput marks malformed input to a mutating operation: empty
	// required string, non-positive amount. Nothing is persisted.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means the referenced report, section or activity no longer
	// exists.
	ErrNotFound = errors.New("not found")

	// ErrReportFinalized rejects content mutation of a FINAL report.
	ErrReportFinalized = errors.New("report is finalized")

	// ErrNotFinalized rejects reopening a report that is already a draft.
	ErrNotFinalized = errors.New("report is not finalized")

	// ErrEmptyReport rejects finalizing a day with no client sections or no
	// activities.
	ErrEmptyReport = errors.New("report has no content to finalize")

	// ErrDraftExists rejects reopening a report when its day already has
	// another draft.
	ErrDraftExists = errors.New("a draft already exists")
)
