package crm

import "errors"

// ErrAuthExpired means the upstream rejected the current access lease.
// Callers must surface it, never retry with the same lease.
var ErrAuthExpired = errors.New("crm access token is expired")

// ErrNoContent means the upstream had no record for a detail lookup.
var ErrNoContent = errors.New("crm returned no content")
