package memory

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks embedding-backend failures: the service could not
// be reached, returned a server error, or timed out. The Store absorbs it
// by entering degraded mode; it is never returned from Add or Retrieve.
var ErrUnavailable = errors.New("embedding service unavailable")

// ErrInvalidInput marks caller contract violations: empty text,
// non-positive TopK, unknown record kind.
var ErrInvalidInput = errors.New("invalid input")

// DimensionMismatchError reports an embedding whose dimension differs from
// the one the index was created with. This indicates a configuration error
// (e.g. the backend model changed mid-session) and is returned to the
// caller rather than absorbed silently.
type DimensionMismatchError struct {
	Want int // dimension the index was created with
	Got  int // dimension the embedder returned
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: index has %d, got %d", e.Want, e.Got)
}
