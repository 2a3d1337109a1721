package model

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownVariant is matched by every UnknownVariantError.
	ErrUnknownVariant = errors.New("unknown variant")

	// ErrReferentialIntegrity is matched by every ReferentialIntegrityError.
	ErrReferentialIntegrity = errors.New("referential integrity violation")

	// ErrOutputIO is matched by every OutputIOError.
	ErrOutputIO = errors.New("output io failure")

	// ErrDuplicateElement is returned when two elements share an ID.
	ErrDuplicateElement = errors.New("duplicate element id")

	// ErrUnsupportedSchema is returned when an artifact declares a schema
	// version this build cannot read.
	ErrUnsupportedSchema = errors.New("unsupported artifact schema")
)

// UnknownVariantError reports a discriminator or kind value that does not
// name any element or connection variant.
type UnknownVariantError struct {
	Context string // "element" or "connection"
	Value   string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown %s variant %q", e.Context, e.Value)
}

// Is lets errors.Is match ErrUnknownVariant.
func (e *UnknownVariantError) Is(target error) bool {
	return target == ErrUnknownVariant
}

// ReferentialIntegrityError reports a connection whose endpoint does not
// reference an element of the same graph.
type ReferentialIntegrityError struct {
	Connection Connection
	MissingID  string
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s connection %s -> %s references missing element %q",
		e.Connection.Kind, e.Connection.StartID, e.Connection.EndID, e.MissingID)
}

// Is lets errors.Is match ErrReferentialIntegrity.
func (e *ReferentialIntegrityError) Is(target error) bool {
	return target == ErrReferentialIntegrity
}

// OutputIOError reports a failure to create or write the output artifact.
type OutputIOError struct {
	Path string
	Op   string // "create", "write", "sync", "close"
	Err  error
}

func (e *OutputIOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OutputIOError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrOutputIO.
func (e *OutputIOError) Is(target error) bool {
	return target == ErrOutputIO
}
