// Package commands implements CLI command handlers for sortedarray.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Swoorup/the-sorted-array/internal/config"
	"github.com/Swoorup/the-sorted-array/internal/dataset"
	"github.com/Swoorup/the-sorted-array/internal/observability"
	"github.com/Swoorup/the-sorted-array/internal/render"
	"github.com/Swoorup/the-sorted-array/pkg/sortedarray"
	"github.com/Swoorup/the-sorted-array/pkg/version"
)

// Sentinel errors shared by the subcommands.
var (
	ErrInvalidRange    = errors.New("range start is after its end")
	ErrNeedsAscending  = errors.New("operation needs ascending data")
	ErrOrderMismatch   = errors.New("inputs are sorted in different orders")
	ErrNotInitialized  = errors.New("command runtime not initialized")
	ErrValidationFails = errors.New("validation failed")
)

const spanPrefix = "sortedarray."

type providerFactory func(cfg observability.Config) (observability.Providers, error)

// Globals holds the persistent flags and the runtime every subcommand shares.
// Attach registers it on the root command; Close must run after Execute.
type Globals struct {
	configPath      string
	output          string
	verbose         bool
	quiet           bool
	noColor         bool
	metricsTextfile string

	initProviders providerFactory

	cfg       *config.Config
	providers observability.Providers
	metrics   *observability.REDMetrics
}

// NewGlobals returns Globals backed by observability.Init.
func NewGlobals() *Globals {
	return newGlobalsWithDeps(observability.Init)
}

func newGlobalsWithDeps(initProviders providerFactory) *Globals {
	return &Globals{initProviders: initProviders}
}

// Attach registers the persistent flags on root and sets up the runtime
// before any subcommand runs.
func (g *Globals) Attach(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringVar(&g.configPath, "config", "", "Config file (default: sortedarray.yaml in ., ./config or ~/.config/sortedarray)")
	flags.StringVar(&g.output, "output", "", "Output format: table, json, yaml")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&g.quiet, "quiet", "q", false, "suppress output")
	flags.BoolVar(&g.noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&g.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file on exit")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		mode := observability.ModeCLI
		if cmd.Name() == replayCommandName {
			mode = observability.ModeScript
		}

		return g.setup(cmd, mode)
	}
}

func (g *Globals) setup(cmd *cobra.Command, mode observability.AppMode) error {
	cfg, err := config.LoadConfig(g.configPath)
	if err != nil {
		return err
	}

	g.applyFlags(cmd, cfg)

	validateErr := cfg.Validate()
	if validateErr != nil {
		return fmt.Errorf("invalid flags: %w", validateErr)
	}

	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.Prometheus = cfg.Telemetry.MetricsTextfile != ""
	obsCfg.DebugTrace = cfg.Telemetry.DebugTrace
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.TraceVerbose = cfg.Telemetry.TraceVerbose
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.Format == config.LogFormatJSON

	providers, err := g.initProviders(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return errors.Join(fmt.Errorf("init metrics: %w", err), providers.Shutdown(context.Background()))
	}

	render.SetColor(cfg.Render.Color)

	g.cfg = cfg
	g.providers = providers
	g.metrics = metrics

	return nil
}

// applyFlags lets explicitly set persistent flags override the config.
func (g *Globals) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("output") {
		cfg.Output.Format = g.output
	}

	if g.verbose {
		cfg.Logging.Level = "debug"
	}

	if g.quiet {
		cfg.Logging.Level = "error"
	}

	if g.noColor {
		cfg.Render.Color = false
	}

	if flags.Changed("metrics-textfile") {
		cfg.Telemetry.MetricsTextfile = g.metricsTextfile
	}
}

// Close writes the metrics textfile, when one is configured, and flushes
// telemetry. It is a no-op when setup never ran.
func (g *Globals) Close(ctx context.Context) error {
	if g.providers.Shutdown == nil {
		return nil
	}

	var textfileErr error
	if path := g.cfg.Telemetry.MetricsTextfile; path != "" {
		textfileErr = observability.WriteTextfile(path, g.providers.Registry)
	}

	shutdownErr := g.providers.Shutdown(ctx)
	g.providers = observability.Providers{}

	return errors.Join(textfileErr, shutdownErr)
}

func (g *Globals) logger() *slog.Logger {
	if g.providers.Logger == nil {
		return slog.Default()
	}

	return g.providers.Logger
}

// instrument runs fn inside a span named after op and records RED metrics.
// fn returns the number of items it read.
func (g *Globals) instrument(cmd *cobra.Command, op string, fn func(ctx context.Context, span trace.Span) (int, error)) error {
	if g.metrics == nil {
		return ErrNotInitialized
	}

	ctx, span := g.providers.Tracer.Start(cmd.Context(), spanPrefix+op)
	defer span.End()

	done := g.metrics.TrackInflight(ctx, op)
	defer done()

	start := time.Now()
	items, err := fn(ctx, span)
	elapsed := time.Since(start)

	status := observability.StatusOK
	if err != nil {
		status = observability.StatusError

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	span.SetAttributes(attribute.Int("sortedarray.items", items))

	g.metrics.RecordRequest(ctx, op, status, elapsed)
	g.metrics.RecordItems(ctx, op, items)

	g.logger().DebugContext(ctx, "command finished",
		"op", op, "status", status, "items", items, "duration", elapsed)

	return err
}

func (g *Globals) defaultOrder() (sortedarray.Order, error) {
	order, err := sortedarray.ParseOrder(g.cfg.Data.Order)
	if err != nil {
		return sortedarray.Ascending, fmt.Errorf("data order: %w", err)
	}

	return order, nil
}

// loadDocument reads path, validating it first when the config asks for
// it, and resolves its sort order.
func (g *Globals) loadDocument(path string) (*dataset.Document, sortedarray.Order, error) {
	fallback, err := g.defaultOrder()
	if err != nil {
		return nil, fallback, err
	}

	var doc *dataset.Document

	if g.cfg.Data.Validate {
		doc, err = dataset.ValidateDocument(path, fallback)
	} else {
		doc, err = dataset.Load(path)
	}

	if err != nil {
		return nil, fallback, err
	}

	order, err := doc.SortOrder(fallback)
	if err != nil {
		return nil, fallback, err
	}

	return doc, order, nil
}

// loadAscending is loadDocument for operations defined on ascending data only.
func (g *Globals) loadAscending(path string) (*dataset.Document, error) {
	doc, order, err := g.loadDocument(path)
	if err != nil {
		return nil, err
	}

	if order != sortedarray.Ascending {
		return nil, fmt.Errorf("%s: %w", path, ErrNeedsAscending)
	}

	return doc, nil
}

// emit writes v as JSON or YAML, or calls table for the table format.
func (g *Globals) emit(w io.Writer, v any, table func()) error {
	switch g.cfg.Output.Format {
	case config.FormatJSON:
		return dataset.Encode(w, dataset.FormatJSON, v)
	case config.FormatYAML:
		return dataset.Encode(w, dataset.FormatYAML, v)
	default:
		table()

		return nil
	}
}

// save writes items to out with the document's declared order.
func (g *Globals) save(ctx context.Context, out string, order sortedarray.Order, items []dataset.Record) error {
	doc := &dataset.Document{Order: order.String(), Items: items}

	err := dataset.Save(out, doc)
	if err != nil {
		return err
	}

	g.logger().InfoContext(ctx, "document written", "path", out, "items", len(items))

	return nil
}

func checkRange(r sortedarray.Range[float64]) error {
	if r.From > r.To {
		return fmt.Errorf("%w: %s", ErrInvalidRange, render.FormatRange(r))
	}

	return nil
}

// newDocument wraps items for output, so an empty result encodes as [].
func newDocument(order sortedarray.Order, items []dataset.Record) dataset.Document {
	return dataset.Document{Order: order.String(), Items: orEmpty(items)}
}

// orEmpty returns s, or an empty slice when s is nil.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
