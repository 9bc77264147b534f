package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for attempt failures that carry no extra detail.
var (
	// ErrEmptyResponse means the oracle returned nothing usable.
	ErrEmptyResponse = errors.New("oracle returned empty or unusable content")

	// ErrVerificationInconclusive means a detector ran but its output could
	// not be parsed. Distinct from a clean run with zero issues.
	ErrVerificationInconclusive = errors.New("detector output could not be parsed")
)

// PatchMismatchError reports a SEARCH/REPLACE response that could not be
// applied: a malformed delimiter sequence, or a SEARCH block absent from the
// current content. No partial edits are ever committed.
type PatchMismatchError struct {
	Reason string
}

func (e *PatchMismatchError) Error() string {
	return fmt.Sprintf("patch mismatch: %s", e.Reason)
}

// SizeSafetyError reports a candidate rejected by the length safety bound.
type SizeSafetyError struct {
	OriginalLen  int
	CandidateLen int
}

func (e *SizeSafetyError) Error() string {
	return fmt.Sprintf("size safety rejection: candidate %d bytes vs original %d bytes (allowed %.1fx-%.1fx)",
		e.CandidateLen, e.OriginalLen, SizeBoundLower, SizeBoundUpper)
}

// OracleError wraps a transport, timeout, or backend failure from the
// code-generation service.
type OracleError struct {
	Err error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("oracle call failed: %v", e.Err)
}

func (e *OracleError) Unwrap() error { return e.Err }
