package bbox

// Observer receives adapter events. Implementations must be cheap; they run
// once per element on the traversal's goroutine.
type Observer interface {
	BoxBuilt(rank uint32)
	ElementFailed(rank uint32, reason string)
	TraversalFinished(rank uint32, boxes int)
}

type nopObserver struct{}

func (nopObserver) BoxBuilt(uint32)               {}
func (nopObserver) ElementFailed(uint32, string)  {}
func (nopObserver) TraversalFinished(uint32, int) {}
