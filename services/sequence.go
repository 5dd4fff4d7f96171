package services

import (
	"fmt"
	"math/rand"
	"time"

	"claim_flow_app_go/models"

	"gorm.io/gorm"
)

// Sequence kinds double as the identifier prefix.
// Format: {PREFIX}-{4-digit year}-{3-digit zero-padded sequence}
const (
	SequenceKindClaim       = "CLM" // insurance claim requests
	SequenceKindRequest     = "REQ" // private requests
	SequenceKindInspection  = "INS"
	SequenceKindAppointment = "APT"
	SequenceKindAssessment  = "ASM"
)

const (
	// maxAllocationAttempts bounds the retry loop around transient lock errors
	maxAllocationAttempts = 3
	// allocationBackoffBase is the base delay between allocation retries
	allocationBackoffBase = 25 * time.Millisecond
)

// NextSequence reserves the next value of the (kind, year) counter. The
// increment and read happen in a single statement, so no two callers can
// observe the same value, and running it on a transaction hands the caller
// a number that is only consumed if that transaction commits.
func NextSequence(tx *gorm.DB, kind string, year int) (int64, error) {
	var value int64
	err := tx.Raw(
		`INSERT INTO sequence_counters (kind, year, value) VALUES (?, ?, 1)
		 ON CONFLICT(kind, year) DO UPDATE SET value = value + 1
		 RETURNING value`,
		kind, year,
	).Scan(&value).Error
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s-%d: %w", kind, year, err)
	}
	return value, nil
}

// FormatSequenceNumber renders an allocated value in the canonical
// identifier format, e.g. ASM-2025-014. Values beyond 999 widen naturally.
func FormatSequenceNumber(kind string, year int, value int64) string {
	return fmt.Sprintf("%s-%04d-%03d", kind, year, value)
}

// AllocateNumber reserves and formats the next identifier for a kind in
// the current year. Transient lock contention is retried a bounded number
// of times with jittered backoff; exhaustion surfaces as
// ErrAllocationExhausted, which is retryable by the caller.
func AllocateNumber(database *gorm.DB, kind string) (string, error) {
	return AllocateNumberForYear(database, kind, time.Now().Year())
}

// AllocateNumberForYear is AllocateNumber with an explicit year.
func AllocateNumberForYear(database *gorm.DB, kind string, year int) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxAllocationAttempts; attempt++ {
		if attempt > 0 {
			backoff := allocationBackoffBase << (attempt - 1)
			jitter := time.Duration(rand.Int63n(int64(backoff)))
			time.Sleep(backoff + jitter)
		}

		value, err := NextSequence(database, kind, year)
		if err == nil {
			return FormatSequenceNumber(kind, year, value), nil
		}
		if !isTransientDBError(err) {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("%w: %v", ErrAllocationExhausted, lastErr)
}

// RequestSequenceKind picks the request-number prefix for a claim type
func RequestSequenceKind(claimType string) string {
	if claimType == models.ClaimTypePrivate {
		return SequenceKindRequest
	}
	return SequenceKindClaim
}
