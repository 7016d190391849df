package bbox

import (
	"io"
	"log/slog"

	"github.com/chazu/meshbox/pkg/geom"
	"github.com/chazu/meshbox/pkg/mesh"
	"github.com/chazu/meshbox/pkg/search"
)

// Compile-time interface check.
var _ mesh.ElementOp = (*BuildBoundingBoxes[geom.Vec3])(nil)

// BuildBoundingBoxes appends one box per visited element to a caller-owned
// slice. The slice and the coordinate field are borrowed: the caller keeps
// ownership and must keep both alive for the duration of the traversal.
//
// An instance drives exactly one traversal. After FiniElementOp or
// Invalidate every further call fails with ErrLifecycleViolation.
type BuildBoundingBoxes[P geom.Point] struct {
	boxes    *[]search.Box[P]
	builder  *Builder[P]
	state    State
	rank     uint32
	built    int
	logger   *slog.Logger
	observer Observer
}

// Option configures a BuildBoundingBoxes.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	observer Observer
}

// WithLogger logs every built box at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithObserver reports built boxes and failures to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// NewBuildBoundingBoxes returns a Fresh adapter appending to boxes and
// reading coordinates from field.
func NewBuildBoundingBoxes[P geom.Point](boxes *[]search.Box[P], field mesh.Field[P], opts ...Option) *BuildBoundingBoxes[P] {
	o := options{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &BuildBoundingBoxes[P]{
		boxes:    boxes,
		builder:  NewBuilder(field),
		state:    Fresh,
		logger:   o.logger,
		observer: o.observer,
	}
}

// State returns the lifecycle state.
func (op *BuildBoundingBoxes[P]) State() State { return op.state }

// Init rebinds the adapter to another output slice and field. Only a Fresh
// adapter can be rebound.
func (op *BuildBoundingBoxes[P]) Init(boxes *[]search.Box[P], field mesh.Field[P]) error {
	if op.state != Fresh {
		return ErrRebind
	}
	op.boxes = boxes
	op.builder = NewBuilder(field)
	return nil
}

// InitElementOp implements mesh.ElementOp.
func (op *BuildBoundingBoxes[P]) InitElementOp() error {
	if op.state == Spent {
		return ErrLifecycleViolation
	}
	op.state = Active
	return nil
}

// Visit implements mesh.ElementOp. It builds the box for elem, tags it with
// the rank of bulk and appends it. The traversal is never stopped early.
func (op *BuildBoundingBoxes[P]) Visit(elem mesh.Entity, bulk mesh.BulkData) (mesh.VisitAction, error) {
	if op.state == Spent {
		op.observer.ElementFailed(op.rank, reason(ErrLifecycleViolation))
		return mesh.Continue, ErrLifecycleViolation
	}
	op.state = Active
	op.rank = bulk.ParallelRank()

	bb, err := op.builder.BoundingBox(elem, bulk)
	if err != nil {
		op.observer.ElementFailed(op.rank, reason(err))
		return mesh.Continue, err
	}
	bb = bb.WithProc(op.rank)
	op.logger.Debug("built bounding box", "box", bb.String())

	*op.boxes = append(*op.boxes, bb)
	op.built++
	op.observer.BoxBuilt(op.rank)
	return mesh.Continue, nil
}

// FiniElementOp implements mesh.ElementOp. The adapter is Spent afterwards.
func (op *BuildBoundingBoxes[P]) FiniElementOp() error {
	if op.state != Spent {
		op.observer.TraversalFinished(op.rank, op.built)
	}
	op.state = Spent
	return nil
}

// Invalidate marks the adapter Spent without reporting a finished
// traversal, for use after an aborted traversal.
func (op *BuildBoundingBoxes[P]) Invalidate() {
	op.state = Spent
}
