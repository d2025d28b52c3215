package pipeline

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mohammad-safakhou/computesales/internal/catalog"
	"github.com/mohammad-safakhou/computesales/internal/document"
	"github.com/mohammad-safakhou/computesales/internal/report"
	"github.com/mohammad-safakhou/computesales/internal/sales"
	"github.com/mohammad-safakhou/computesales/internal/telemetry"
)

// State is a step of a run.
type State int

const (
	LoadingCatalog State = iota
	LoadingSales
	Aggregating
	Done
)

func (s State) String() string {
	switch s {
	case LoadingCatalog:
		return "loading_catalog"
	case LoadingSales:
		return "loading_sales"
	case Aggregating:
		return "aggregating"
	case Done:
		return "done"
	}
	return "unknown"
}

// Loader is the part of document.Loader a run needs.
type Loader interface {
	Load(ctx context.Context, name string) (any, error)
}

// Pipeline joins a price catalog with sales records and prints the total.
type Pipeline struct {
	loader  Loader
	out     report.Printer
	tracer  trace.Tracer
	metrics *telemetry.Metrics
	log     zerolog.Logger
	state   State
}

// Option configures a Pipeline.
type Option func(*Pipeline)

func WithTracer(t trace.Tracer) Option { return func(p *Pipeline) { p.tracer = t } }

func WithMetrics(m *telemetry.Metrics) Option { return func(p *Pipeline) { p.metrics = m } }

func WithLogger(l zerolog.Logger) Option { return func(p *Pipeline) { p.log = l } }

func New(loader Loader, out report.Printer, opts ...Option) *Pipeline {
	p := &Pipeline{
		loader:  loader,
		out:     out,
		tracer:  otel.Tracer("computesales/internal/pipeline"),
		metrics: telemetry.NewMetrics(),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State reports where the last run stopped.
func (p *Pipeline) State() State { return p.state }

func (p *Pipeline) transition(s State) {
	p.log.Debug().Str("from", p.state.String()).Str("to", s.String()).Msg("pipeline state")
	p.state = s
}

// Run executes one pass over the two documents. A document that cannot be
// loaded ends the run early after printing "Exiting"; that is not an error.
func (p *Pipeline) Run(ctx context.Context, catalogDoc, salesDoc string) *report.Run {
	run := report.NewRun(catalogDoc, salesDoc)
	p.state = LoadingCatalog

	ctx, span := p.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("run.id", run.ID),
		attribute.String("catalog.document", catalogDoc),
		attribute.String("sales.document", salesDoc),
	))
	defer span.End()

	rawCatalog, ok := p.load(ctx, "catalog", catalogDoc)
	if !ok {
		p.exit(span)
		return run
	}
	prices := p.validateCatalog(ctx, rawCatalog, run)

	p.transition(LoadingSales)
	rawSales, ok := p.load(ctx, "sales", salesDoc)
	if !ok {
		p.exit(span)
		return run
	}
	sold := p.validateSales(ctx, rawSales, run)

	p.transition(Aggregating)
	_, aggSpan := p.tracer.Start(ctx, "pipeline.aggregate")
	total, misses := sales.Total(prices, sold, p.out)
	aggSpan.SetAttributes(attribute.Int("join.misses", misses), attribute.Float64("total", total))
	aggSpan.End()
	p.metrics.ObserveTotal(total, misses)

	p.out.Println("\n" + report.TotalLine(total))

	run.JoinMisses = misses
	run.Total = total
	run.FormattedTotal = report.FormatDollars(total)
	run.Completed = true
	p.transition(Done)
	p.log.Debug().Str("run_id", run.ID).Float64("total", total).Int("join_misses", misses).Msg("run completed")
	return run
}

func (p *Pipeline) load(ctx context.Context, kind, name string) (any, bool) {
	ctx, span := p.tracer.Start(ctx, "pipeline.load_"+kind, trace.WithAttributes(attribute.String("document", name)))
	defer span.End()

	v, err := p.loader.Load(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, document.Reason(err))
		p.metrics.DocumentFailed(kind, document.Reason(err))
		return nil, false
	}
	return v, true
}

func (p *Pipeline) exit(span trace.Span) {
	p.out.Println("Exiting")
	span.SetAttributes(attribute.Bool("run.completed", false))
	p.transition(Done)
}

func (p *Pipeline) validateCatalog(ctx context.Context, raw any, run *report.Run) catalog.Prices {
	_, span := p.tracer.Start(ctx, "pipeline.validate_catalog")
	defer span.End()

	prices, sum := catalog.Validate(raw, p.out)
	span.SetAttributes(attribute.Int("records.accepted", sum.Accepted), attribute.Int("records.rejected", sum.Rejected))
	p.metrics.ObserveDocument("catalog", sum)
	run.CatalogAccepted, run.CatalogRejected = sum.Accepted, sum.Rejected
	p.log.Debug().Int("accepted", sum.Accepted).Int("rejected", sum.Rejected).Int("titles", len(prices)).Bool("malformed", sum.Malformed).Msg("catalog validated")
	return prices
}

func (p *Pipeline) validateSales(ctx context.Context, raw any, run *report.Run) []sales.Sale {
	_, span := p.tracer.Start(ctx, "pipeline.validate_sales")
	defer span.End()

	sold, sum := sales.Validate(raw, p.out)
	span.SetAttributes(attribute.Int("records.accepted", sum.Accepted), attribute.Int("records.rejected", sum.Rejected))
	p.metrics.ObserveDocument("sales", sum)
	run.SalesAccepted, run.SalesRejected = sum.Accepted, sum.Rejected
	p.log.Debug().Int("accepted", sum.Accepted).Int("rejected", sum.Rejected).Bool("malformed", sum.Malformed).Msg("sales validated")
	return sold
}
