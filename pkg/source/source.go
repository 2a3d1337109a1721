// Package source defines the boundary between the extraction engine and
// the host that parses source code and binds types. A Provider exposes
// type declarations, the type references they make, and resolution of
// those references to fully-qualified names.
package source

import (
	"context"
	"errors"
)

// ErrUnknownLanguage is returned when no provider exists for a language.
var ErrUnknownLanguage = errors.New("unknown source language")

// Visibility of a declaration.
type Visibility int

const (
	NonPublic Visibility = iota
	Public
)

// DeclKind classifies a declaration.
type DeclKind int

const (
	// DeclOther is any declaration that is neither a class nor an interface
	// (aliases, enums in languages where they are distinct, function types).
	DeclOther DeclKind = iota
	DeclClass
	DeclInterface
)

func (k DeclKind) String() string {
	switch k {
	case DeclClass:
		return "class"
	case DeclInterface:
		return "interface"
	default:
		return "other"
	}
}

// Declaration is a type declaration handle.
type Declaration interface {
	Name() string
	QualifiedName() string
	Visibility() Visibility
	Kind() DeclKind
}

// TypeRef is an opaque handle to a type reference written in source.
type TypeRef interface {
	String() string
}

// ResolvedType is what a type reference binds to: the fully-qualified name
// of the underlying type and the fully-qualified names of its ordered
// generic arguments.
type ResolvedType struct {
	QualifiedName string
	Args          []string
}

// Provider exposes the declarations of one project.
//
// Declarations must be called before any other method; the remaining
// methods only accept declarations returned by it. Once Declarations has
// returned, the other methods are read-only and safe for concurrent use.
type Provider interface {
	// Name identifies the provider in logs and telemetry.
	Name() string

	// Declarations enumerates every type declaration of the project.
	Declarations(ctx context.Context) ([]Declaration, error)

	// Supertypes returns the directly declared supertype references.
	Supertypes(d Declaration) []TypeRef

	// Properties returns the type references of instance properties,
	// including constructor parameters promoted to properties.
	Properties(d Declaration) []TypeRef

	// Parameters returns the type references of every parameter of every
	// member function.
	Parameters(d Declaration) []TypeRef

	// Resolve binds a type reference. It reports false when the reference
	// cannot be bound to any named type.
	Resolve(ref TypeRef) (ResolvedType, bool)
}
