package entities

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across repositories and use cases. Handlers map
// these onto HTTP statuses; nothing below the handler layer knows about
// status codes.
var (
	ErrNotFound = errors.New("not found")
	ErrNoTOV    = errors.New("no TOV value found")
)

// ConflictError is a duplicate unique key on device registration. Field
// names the offending column ("name" or "oracleIndex") so the caller can
// highlight the right input.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	if e.Field == "oracleIndex" {
		return "Oracle index already exists"
	}
	return "Device name already exists"
}

// UpstreamError wraps a ledger connectivity or query failure. The whole
// sync aborts on the first one; there is no retry.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("ledger %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
