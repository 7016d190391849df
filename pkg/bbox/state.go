package bbox

// State is the lifecycle state of a BuildBoundingBoxes.
type State int

const (
	// Fresh instances have not seen a traversal yet and may be rebound.
	Fresh State = iota
	// Active instances are inside a traversal.
	Active
	// Spent instances have finished a traversal and reject all work.
	Spent
)

func (s State) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Active:
		return "active"
	case Spent:
		return "spent"
	default:
		return "unknown"
	}
}
