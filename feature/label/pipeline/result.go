package pipeline

import (
	"errors"
	"fmt"
)

// Error kinds of the ingestion pipeline. Callers classify collected errors by
// unwrapping against these sentinels.
var (
	// ErrMissingContext reports that required scope (document, parent section,
	// product) was absent. Aborts only the current call.
	ErrMissingContext = errors.New("missing context")
	// ErrMalformedReference reports an identifier that failed to parse. The
	// offending child is skipped and processing continues.
	ErrMalformedReference = errors.New("malformed reference")
	// ErrStoreFailure reports a persistence error. Aborts the current call;
	// sibling subtrees and other products still proceed.
	ErrStoreFailure = errors.New("store failure")
)

// Result is the outcome of one resolveHierarchy or synchronizeCharacteristics
// call. Success means the call ran to completion; it stays true when children
// were merely skipped (malformed references), and turns false when the call
// aborted on a store failure or missing context. Callers decide whether a
// non-empty error list is pipeline-fatal.
type Result struct {
	// Success indicates the call ran to completion.
	Success bool `json:"success"`

	// Created counts rows written by this call (edges or characteristics).
	Created int `json:"created"`

	// MissingContext counts aborts due to absent required scope.
	MissingContext int `json:"missing_context"`

	// MalformedReferences counts children skipped over unparseable identifiers.
	MalformedReferences int `json:"malformed_references"`

	// StoreFailures counts persistence errors.
	StoreFailures int `json:"store_failures"`

	// Errors contains human-readable messages for every recorded failure.
	Errors []string `json:"errors"`
}

// NewResult returns an empty successful Result.
func NewResult() Result {
	return Result{Success: true, Errors: []string{}}
}

// RecordMissingContext records an absent-scope abort.
func (r *Result) RecordMissingContext(format string, args ...any) {
	r.Success = false
	r.MissingContext++
	r.Errors = append(r.Errors, fmt.Sprintf("%v: %s", ErrMissingContext, fmt.Sprintf(format, args...)))
}

// RecordMalformedReference records a skipped child. The call keeps going, so
// Success is left untouched.
func (r *Result) RecordMalformedReference(format string, args ...any) {
	r.MalformedReferences++
	r.Errors = append(r.Errors, fmt.Sprintf("%v: %s", ErrMalformedReference, fmt.Sprintf(format, args...)))
}

// RecordStoreFailure records a persistence error and marks the call failed.
func (r *Result) RecordStoreFailure(err error) {
	r.Success = false
	r.StoreFailures++
	r.Errors = append(r.Errors, fmt.Sprintf("%v: %v", ErrStoreFailure, err))
}

// RecordSkippedChild records a child whose recursive resolution failed. The
// child is skipped and siblings proceed, so Success is left untouched; the
// counter incremented follows the error's kind.
func (r *Result) RecordSkippedChild(err error) {
	switch {
	case errors.Is(err, ErrStoreFailure):
		r.StoreFailures++
	case errors.Is(err, ErrMissingContext):
		r.MissingContext++
	default:
		r.MalformedReferences++
	}
	r.Errors = append(r.Errors, err.Error())
}

// Merge folds another result into this one. Success degrades monotonically.
func (r *Result) Merge(other Result) {
	r.Success = r.Success && other.Success
	r.Created += other.Created
	r.MissingContext += other.MissingContext
	r.MalformedReferences += other.MalformedReferences
	r.StoreFailures += other.StoreFailures
	r.Errors = append(r.Errors, other.Errors...)
}
