// ABOUTME: Sentinel errors for the storage layer.
// ABOUTME: ErrNotFound keeps missing-row outcomes distinct from transactional failures.
package storage

import "errors"

// ErrNotFound reports an operation against an identifier that does not
// exist. Callers test with errors.Is; it is not a transactional failure.
var ErrNotFound = errors.New("not found")
