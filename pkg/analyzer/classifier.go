package analyzer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/simonhull/firebird-suite/heron/pkg/model"
	"github.com/simonhull/firebird-suite/heron/pkg/source"
)

// Passes selects which relationship passes run.
type Passes struct {
	Inheritance bool
	Aggregation bool
	Uses        bool
}

// AllPasses enables every pass.
func AllPasses() Passes {
	return Passes{Inheritance: true, Aggregation: true, Uses: true}
}

// Classifier derives connections from the declarations of a symbol table.
// Every pass only reads the table and the provider, so passes can run
// concurrently.
type Classifier struct {
	provider source.Provider
	table    *SymbolTable
	resolver *Resolver
	tracer   trace.Tracer
}

// NewClassifier creates a classifier. A nil tracer disables spans.
func NewClassifier(provider source.Provider, table *SymbolTable, resolver *Resolver, tracer trace.Tracer) *Classifier {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &Classifier{provider: provider, table: table, resolver: resolver, tracer: tracer}
}

// Inheritance emits one connection per resolved supertype reference,
// starting at the subtype. A class or other non-interface pointing at an
// interface implements it; every other pairing extends.
func (c *Classifier) Inheritance(ctx context.Context) ([]model.Connection, error) {
	var out []model.Connection
	for _, s := range c.table.Symbols() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, ref := range c.provider.Supertypes(s.Decl) {
			super, ok := c.resolver.Lookup(ref)
			if !ok {
				continue
			}
			kind, err := inheritanceKind(s.Element.Kind, super.Kind)
			if err != nil {
				return nil, err
			}
			out = append(out, model.Connection{Kind: kind, StartID: s.Element.ID, EndID: super.ID})
		}
	}
	return out, nil
}

func inheritanceKind(sub, super model.ElementKind) (model.ConnectionKind, error) {
	switch sub {
	case model.ElementClass:
	case model.ElementInterface:
		return model.Extends, nil
	default:
		return 0, &model.UnknownVariantError{Context: "element", Value: sub.String()}
	}

	switch super {
	case model.ElementInterface:
		return model.Implements, nil
	case model.ElementClass:
		return model.Extends, nil
	default:
		return 0, &model.UnknownVariantError{Context: "element", Value: super.String()}
	}
}

// Aggregation emits Aggregates(part, owner) for every property whose type
// resolves to an element. The part is the start of the connection.
func (c *Classifier) Aggregation(ctx context.Context) ([]model.Connection, error) {
	var out []model.Connection
	for _, s := range c.table.Symbols() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, ref := range c.provider.Properties(s.Decl) {
			part, ok := c.resolver.Lookup(ref)
			if !ok {
				continue
			}
			out = append(out, model.Connection{Kind: model.Aggregates, StartID: part.ID, EndID: s.Element.ID})
		}
	}
	return out, nil
}

// Uses emits Uses(owner, param) for every member function parameter whose
// type resolves to an element.
func (c *Classifier) Uses(ctx context.Context) ([]model.Connection, error) {
	var out []model.Connection
	for _, s := range c.table.Symbols() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, ref := range c.provider.Parameters(s.Decl) {
			used, ok := c.resolver.Lookup(ref)
			if !ok {
				continue
			}
			out = append(out, model.Connection{Kind: model.Uses, StartID: s.Element.ID, EndID: used.ID})
		}
	}
	return out, nil
}

type pass struct {
	name string
	run  func(context.Context) ([]model.Connection, error)
}

// Classify runs the enabled passes concurrently and returns the union of
// their connections without duplicates, ordered by pass then by
// declaration.
func (c *Classifier) Classify(ctx context.Context, enabled Passes) ([]model.Connection, error) {
	var passes []pass
	if enabled.Inheritance {
		passes = append(passes, pass{"inheritance", c.Inheritance})
	}
	if enabled.Aggregation {
		passes = append(passes, pass{"aggregation", c.Aggregation})
	}
	if enabled.Uses {
		passes = append(passes, pass{"uses", c.Uses})
	}

	results := make([][]model.Connection, len(passes))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range passes {
		g.Go(func() error {
			pctx, span := c.tracer.Start(gctx, "analyzer.pass."+p.name)
			defer span.End()

			conns, err := p.run(pctx)
			if err != nil {
				span.RecordError(err)
				return fmt.Errorf("%s pass: %w", p.name, err)
			}
			span.SetAttributes(attribute.Int("heron.connections", len(conns)))
			results[i] = conns
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[model.Connection]struct{})
	var out []model.Connection
	for _, conns := range results {
		for _, conn := range conns {
			if _, dup := seen[conn]; dup {
				continue
			}
			seen[conn] = struct{}{}
			out = append(out, conn)
		}
	}
	return out, nil
}
