package mesh

import "fmt"

// VisitAction tells a traversal whether to keep going.
type VisitAction int

const (
	Continue VisitAction = iota
	Stop
)

func (a VisitAction) String() string {
	switch a {
	case Continue:
		return "continue"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// ElementOp is the per-element callback contract of Traverse.
type ElementOp interface {
	// InitElementOp is called once before the first element.
	InitElementOp() error
	// Visit is called once per element, in traversal order.
	Visit(elem Entity, bulk BulkData) (VisitAction, error)
	// FiniElementOp is called once after the last element.
	FiniElementOp() error
}

// Traverse drives op over every element of bulk.
//
// A Stop from Visit ends the loop early; FiniElementOp still runs. An error
// from Visit aborts the traversal immediately and FiniElementOp is not
// called, leaving the decision to finalize or discard op to the caller.
func Traverse(bulk BulkData, op ElementOp) error {
	if err := op.InitElementOp(); err != nil {
		return fmt.Errorf("mesh: init element op: %w", err)
	}
	for _, elem := range bulk.Elements() {
		action, err := op.Visit(elem, bulk)
		if err != nil {
			return fmt.Errorf("mesh: element %d: %w", bulk.Identifier(elem), err)
		}
		if action == Stop {
			break
		}
	}
	if err := op.FiniElementOp(); err != nil {
		return fmt.Errorf("mesh: fini element op: %w", err)
	}
	return nil
}
