package services

import (
	"errors"
	"strings"
)

// Engine errors. The first group marks caller/invariant problems that must
// never be retried automatically; the second group is transient contention
// that callers may retry a bounded number of times.
var (
	ErrDuplicateRequest   = errors.New("an assessment already exists for this request")
	ErrNotFound           = errors.New("record not found")
	ErrPreconditionFailed = errors.New("stage precondition not met")
	ErrInvalidTransition  = errors.New("stage transition not allowed")
	ErrForbidden          = errors.New("actor is not allowed to perform this operation")

	ErrStaleState          = errors.New("assessment stage changed concurrently")
	ErrAllocationExhausted = errors.New("sequence allocation retries exhausted")
)

// IsRetryable reports whether the caller may retry the operation after
// re-reading state or backing off
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStaleState) || errors.Is(err, ErrAllocationExhausted)
}

// translateDBError maps database constraint violations onto the typed
// errors above so raw driver errors never leak to callers. The invariants
// live in the schema (unique request_id, appointment CHECK constraint);
// application-level checks are only a fast-fail in front of them.
func translateDBError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed: assessments.request_id") {
		return ErrDuplicateRequest
	}
	if strings.Contains(msg, "CHECK constraint failed") {
		return ErrPreconditionFailed
	}
	return err
}

// isTransientDBError reports whether the error is a transient SQLite
// contention condition worth retrying
func isTransientDBError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "SQLITE_BUSY")
}
