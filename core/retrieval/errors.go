package retrieval

import (
	"errors"
	"fmt"
)

// ErrEntityNotFound is returned when a requested entity does not exist.
// It marks an expected empty outcome, not a store failure.
var ErrEntityNotFound = errors.New("entity not found")

// HardRetrievalError indicates the search index call itself failed. It is not
// recoverable locally and is propagated to the caller. Graph store failures
// never surface as this error; they degrade to vector-only results instead.
type HardRetrievalError struct {
	Err error
}

func (e *HardRetrievalError) Error() string {
	return fmt.Sprintf("vector search failed: %v", e.Err)
}

func (e *HardRetrievalError) Unwrap() error {
	return e.Err
}
