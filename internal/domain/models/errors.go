package models

import "errors"

// Error taxonomy shared by the pipeline, the use cases and the HTTP layer.
// Callers wrap these with fmt.Errorf("...: %w") and match with errors.Is.
var (
	// ErrInvalidInput marks an empty or malformed return window, feature
	// vector or context.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLabelMismatch marks a distribution whose labels are not exactly
	// {hold, buy, sell}.
	ErrLabelMismatch = errors.New("label mismatch")

	// ErrClassifier marks a failure of the model behind the probability
	// source. Fatal for the run; never retried.
	ErrClassifier = errors.New("classifier failure")

	// ErrNotFound marks a missing session, sample or cached recommendation.
	ErrNotFound = errors.New("not found")
)
