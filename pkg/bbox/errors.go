package bbox

import (
	"errors"
	"fmt"
)

var (
	// ErrLifecycleViolation is returned when a spent adapter is used again.
	ErrLifecycleViolation = errors.New("bbox: lifecycle violation: adapter must be reconstructed before reuse")

	// ErrRebind is returned when an adapter is rebound after it has started.
	ErrRebind = fmt.Errorf("%w: rebinding is only valid before the first element", ErrLifecycleViolation)

	// ErrEmptyElement is returned for an element with no nodes.
	ErrEmptyElement = errors.New("bbox: empty element: bounding box undefined for zero nodes")

	// ErrMissingCoordinate is returned when a node has no coordinate data.
	ErrMissingCoordinate = errors.New("bbox: missing coordinate data")
)

// ElementError reports why the box for one element could not be built.
// The message leaves out ElementID; mesh.Traverse prefixes it.
type ElementError struct {
	ElementID uint64
	Node      int // position in the element's node list, -1 if not node-specific
	Err       error
}

func (e *ElementError) Error() string {
	if e.Node >= 0 {
		return fmt.Sprintf("node at position %d: %v", e.Node, e.Err)
	}
	return e.Err.Error()
}

func (e *ElementError) Unwrap() error { return e.Err }

// reason returns a short label for metrics.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrLifecycleViolation):
		return "lifecycle"
	case errors.Is(err, ErrEmptyElement):
		return "empty_element"
	case errors.Is(err, ErrMissingCoordinate):
		return "missing_coordinate"
	default:
		return "other"
	}
}
