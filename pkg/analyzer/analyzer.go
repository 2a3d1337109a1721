// Package analyzer extracts a structural model from a source provider.
//
// Analysis runs in stages. Collection turns public class and interface
// declarations into elements and freezes them in a SymbolTable. The
// classifier then resolves the type references of every collected
// declaration against that table and emits Extends, Implements,
// Aggregates and Uses connections. References that resolve to nothing are
// dropped, counted and logged, never reported as errors.
package analyzer

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/simonhull/firebird-suite/heron/pkg/logger"
	"github.com/simonhull/firebird-suite/heron/pkg/model"
	"github.com/simonhull/firebird-suite/heron/pkg/source"
)

const tracerName = "heron.analyzer"

// Analyzer runs the extraction pipeline over one provider.
type Analyzer struct {
	provider source.Provider
	logger   logger.Logger
	ids      IDGenerator
	passes   Passes
	tracer   trace.Tracer
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger. The default is logger.Default().
func WithLogger(log logger.Logger) Option {
	return func(a *Analyzer) { a.logger = log }
}

// WithIDs sets the element ID scheme. The default is DeterministicIDs.
func WithIDs(ids IDGenerator) Option {
	return func(a *Analyzer) { a.ids = ids }
}

// WithPasses selects the relationship passes. The default is AllPasses.
func WithPasses(p Passes) Option {
	return func(a *Analyzer) { a.passes = p }
}

// WithTracerProvider sets where stage spans go. The default is the global
// provider registered with otel.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *Analyzer) { a.tracer = tp.Tracer(tracerName) }
}

// NewAnalyzer creates a new Analyzer
func NewAnalyzer(provider source.Provider, opts ...Option) *Analyzer {
	a := &Analyzer{
		provider: provider,
		logger:   logger.Default(),
		ids:      DeterministicIDs(),
		passes:   AllPasses(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs collection and classification and returns the model.
func (a *Analyzer) Analyze(ctx context.Context) (*model.Graph, error) {
	ctx, span := a.tracer.Start(ctx, "analyzer.Analyze",
		trace.WithAttributes(attribute.String("heron.provider", a.provider.Name())))
	defer span.End()

	log := a.logger.WithFields(logger.F("provider", a.provider.Name()))
	log.Info("Starting analysis")
	start := time.Now()

	graph, err := a.analyze(ctx, log)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	elements, connections := graph.Len()
	span.SetAttributes(
		attribute.Int("heron.elements", elements),
		attribute.Int("heron.connections", connections),
	)
	log.Info("Analysis complete",
		logger.F("elements", elements),
		logger.F("connections", connections),
		logger.F("duration", time.Since(start).Round(time.Millisecond)))
	return graph, nil
}

func (a *Analyzer) analyze(ctx context.Context, log logger.Logger) (*model.Graph, error) {
	table, err := a.collect(ctx, log)
	if err != nil {
		return nil, err
	}

	graph := model.NewGraph()
	for _, s := range table.Symbols() {
		if err := graph.AddElement(s.Element); err != nil {
			return nil, fmt.Errorf("adding element %s: %w", s.Decl.QualifiedName(), err)
		}
		elementsCollected.WithLabelValues(s.Element.Kind.String()).Inc()
	}

	// Check context cancellation
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conns, err := a.classify(ctx, log, table)
	if err != nil {
		return nil, err
	}
	if err := graph.Merge(conns...); err != nil {
		return nil, err
	}
	for _, c := range conns {
		connectionsEmitted.WithLabelValues(c.Kind.String()).Inc()
	}
	return graph, nil
}

func (a *Analyzer) collect(ctx context.Context, log logger.Logger) (*SymbolTable, error) {
	ctx, span := a.tracer.Start(ctx, "analyzer.collect")
	defer span.End()
	defer observeStage("collect", time.Now())

	decls, err := a.provider.Declarations(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("listing declarations: %w", err)
	}

	table, err := Collect(decls, a.ids)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	for _, qn := range table.Duplicates() {
		log.Warn("Duplicate qualified name, references resolve to the first declaration",
			logger.F("name", qn))
	}

	span.SetAttributes(
		attribute.Int("heron.declarations", len(decls)),
		attribute.Int("heron.elements", table.Len()),
	)
	log.Debug("Collected elements",
		logger.F("declarations", len(decls)),
		logger.F("elements", table.Len()))
	return table, nil
}

func (a *Analyzer) classify(ctx context.Context, log logger.Logger, table *SymbolTable) ([]model.Connection, error) {
	ctx, span := a.tracer.Start(ctx, "analyzer.classify",
		trace.WithAttributes(
			attribute.Bool("heron.pass.inheritance", a.passes.Inheritance),
			attribute.Bool("heron.pass.aggregation", a.passes.Aggregation),
			attribute.Bool("heron.pass.uses", a.passes.Uses),
		))
	defer span.End()
	defer observeStage("classify", time.Now())

	resolver := NewResolver(a.provider, table, log)
	conns, err := NewClassifier(a.provider, table, resolver, a.tracer).Classify(ctx, a.passes)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("heron.connections", len(conns)))
	log.Debug("Classified relationships", logger.F("connections", len(conns)))
	return conns, nil
}

func observeStage(stage string, start time.Time) {
	analysisDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
