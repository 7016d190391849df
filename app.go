package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/chazu/meshbox/pkg/bbox"
	"github.com/chazu/meshbox/pkg/config"
	"github.com/chazu/meshbox/pkg/engine"
	"github.com/chazu/meshbox/pkg/export"
	"github.com/chazu/meshbox/pkg/geom"
	"github.com/chazu/meshbox/pkg/kernel/sdfx"
	"github.com/chazu/meshbox/pkg/mesh"
	"github.com/chazu/meshbox/pkg/metrics"
	"github.com/chazu/meshbox/pkg/search"
)

// App runs the build pipeline: source, mesh, per-rank partitions, boxes.
type App struct {
	cfg     *config.Config
	engine  *engine.Engine
	logger  *slog.Logger
	metrics *metrics.Collector
}

// SourceError reports problems in the mesh source itself.
type SourceError struct {
	Errors []engine.EvalError
}

func (e *SourceError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ee := range e.Errors {
		msgs[i] = ee.Error()
	}
	return "source: " + strings.Join(msgs, "; ")
}

// Result is what one build produced.
type Result struct {
	Document *export.Document
	Elements int
	Nodes    int
}

// NewApp creates an App from a validated configuration. collector may be nil.
func NewApp(cfg *config.Config, logger *slog.Logger, collector *metrics.Collector) (*App, error) {
	timeout, err := cfg.EvalTimeout()
	if err != nil {
		return nil, err
	}
	k := sdfx.New(sdfx.WithMeshCells(cfg.Kernel.MeshCells))
	return &App{
		cfg: cfg,
		engine: engine.NewEngine(
			engine.WithKernel(k),
			engine.WithDimension(cfg.Dimension),
			engine.WithTimeout(timeout),
			engine.WithLogger(logger),
		),
		logger:  logger,
		metrics: collector,
	}, nil
}

// Build evaluates source and returns the boxes of every element, grouped
// by the rank that owns it.
func (a *App) Build(ctx context.Context, source string) (*Result, error) {
	// Step 1: Evaluate the source into a mesh.
	m, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	if len(evalErrs) > 0 {
		return nil, &SourceError{Errors: evalErrs}
	}

	// Step 2: Split it across the configured ranks.
	parts, err := mesh.Partition(m, a.cfg.Ranks)
	if err != nil {
		return nil, err
	}
	a.logger.Info("partitioned mesh",
		"dim", m.Dim(), "elements", m.ElementCount(), "ranks", len(parts))

	// Step 3: One traversal per rank, dispatched on the mesh dimension.
	opts := []bbox.Option{bbox.WithLogger(a.logger)}
	if a.metrics != nil {
		opts = append(opts, bbox.WithObserver(a.metrics))
	}

	var doc *export.Document
	switch m.Dim() {
	case 1:
		doc, err = collect[geom.Vec1](ctx, parts, a.logger, opts...)
	case 2:
		doc, err = collect[geom.Vec2](ctx, parts, a.logger, opts...)
	case 3:
		doc, err = collect[geom.Vec3](ctx, parts, a.logger, opts...)
	default:
		err = fmt.Errorf("unsupported dimension %d", m.Dim())
	}
	if err != nil {
		return nil, err
	}

	return &Result{Document: doc, Elements: m.ElementCount(), Nodes: m.NodeCount()}, nil
}

// collect builds the boxes of every part concurrently. Each goroutine owns
// its part, its adapter and its output collection.
func collect[P geom.Point](ctx context.Context, parts []*mesh.Mesh, logger *slog.Logger, opts ...bbox.Option) (*export.Document, error) {
	perRank := make([][]search.Box[P], len(parts))

	g, ctx := errgroup.WithContext(ctx)
	for i, part := range parts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			field, err := mesh.Coordinates[P](part)
			if err != nil {
				return fmt.Errorf("rank %d: %w", part.Rank(), err)
			}

			var boxes []search.Box[P]
			op := bbox.NewBuildBoundingBoxes(&boxes, field, opts...)
			if err := mesh.Traverse(part, op); err != nil {
				op.Invalidate()
				return fmt.Errorf("rank %d: %w", part.Rank(), err)
			}
			logger.Debug("rank finished", "rank", part.Rank(), "boxes", len(boxes))
			perRank[i] = boxes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byRank := make(map[uint32][]search.Box[P], len(parts))
	for i, part := range parts {
		byRank[part.Rank()] = perRank[i]
	}
	return export.NewDocument(byRank), nil
}
