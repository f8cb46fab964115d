package model

import "errors"

// Store-level error kinds. All assembler errors are recoverable-to-caller
// and none is transient, so callers never retry. Wrap with
// fmt.Errorf("...: %w") and test with errors.Is.
var (
	// ErrUnknownEntity: a relation references an entity the store has
	// never created.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrRelationIntegrity: an operation would create a second relation
	// where the model guarantees at most one.
	ErrRelationIntegrity = errors.New("relation integrity violation")
)
