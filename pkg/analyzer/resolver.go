package analyzer

import (
	"github.com/simonhull/firebird-suite/heron/pkg/logger"
	"github.com/simonhull/firebird-suite/heron/pkg/model"
	"github.com/simonhull/firebird-suite/heron/pkg/source"
)

// DropReason explains why a type reference produced no connection.
type DropReason string

const (
	// DropUnresolvable means the provider could not bind the reference.
	DropUnresolvable DropReason = "unresolvable"
	// DropMultiArgument means the type has two or more generic arguments.
	DropMultiArgument DropReason = "multi_argument"
	// DropUnknownElement means the canonical name is not a collected element.
	DropUnknownElement DropReason = "unknown_element"
)

// Resolver maps type references to elements of a symbol table.
//
// A reference to a type with no generic arguments maps to the type
// itself. A reference to a type with exactly one argument maps to the
// argument, so List<Wheel> and Optional<Wheel> both point at Wheel.
// Types with two or more arguments do not map to anything.
type Resolver struct {
	provider source.Provider
	table    *SymbolTable
	logger   logger.Logger
}

// NewResolver creates a resolver over a frozen symbol table.
func NewResolver(provider source.Provider, table *SymbolTable, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewSilentLogger()
	}
	return &Resolver{provider: provider, table: table, logger: log}
}

// Canonical returns the qualified name a reference stands for after
// generic unwrapping.
func (r *Resolver) Canonical(ref source.TypeRef) (string, bool) {
	name, reason := r.canonical(ref)
	return name, reason == ""
}

func (r *Resolver) canonical(ref source.TypeRef) (string, DropReason) {
	rt, ok := r.provider.Resolve(ref)
	if !ok {
		return "", DropUnresolvable
	}
	switch len(rt.Args) {
	case 0:
		return rt.QualifiedName, ""
	case 1:
		return rt.Args[0], ""
	default:
		return "", DropMultiArgument
	}
}

// Lookup resolves ref to a collected element. Misses are counted and
// logged at debug level; they are never errors.
func (r *Resolver) Lookup(ref source.TypeRef) (model.Element, bool) {
	name, reason := r.canonical(ref)
	if reason == "" {
		if e, ok := r.table.Lookup(name); ok {
			return e, true
		}
		reason = DropUnknownElement
	}

	referencesDropped.WithLabelValues(string(reason)).Inc()
	if r.logger.Enabled(logger.LevelDebug) {
		r.logger.Debug("Dropped type reference",
			logger.F("ref", ref.String()),
			logger.F("reason", reason),
			logger.F("canonical", name))
	}
	return model.Element{}, false
}
