package models

import "errors"

// Sentinel errors for domain-level error discrimination.
// Repositories wrap these so handlers can map them to HTTP status codes
// without leaking driver details.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")
)
