// Package common defines shared constants and sentinel errors used across
// client and server layers of the auction system. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Store availability errors. ErrDriverUnavailable means the database
	// driver itself is absent (degraded/demo mode for reads, hard failure
	// for writes); ErrStoreUnreachable means a live connectivity failure
	// against an otherwise configured store. Both feed the same degraded
	// policy but are distinct, checked conditions.
	ErrDriverUnavailable = errors.New("store driver unavailable")
	ErrStoreUnreachable  = errors.New("store unreachable")

	// ErrStoreRejected covers constraint violations on writes, e.g. a
	// duplicate username on registration. The store's own reason is not
	// distinguished further at this layer.
	ErrStoreRejected = errors.New("store rejected write")

	// Validation errors, raised before any store access. Never retried.
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidPassword = errors.New("password does not meet requirements")

	// Bid placement errors.
	ErrBidTooLow         = errors.New("bid does not exceed current highest bid")
	ErrLedgerUnavailable = errors.New("ledger unavailable")

	// Schema bootstrap errors. PartialApply is reported once but does not
	// unset the initialized flag, so a half-created schema is not retried
	// on every call.
	ErrSchemaUnreachable  = errors.New("schema bootstrap: admin connection unreachable")
	ErrSchemaPartialApply = errors.New("schema bootstrap: script partially applied")
)
