package ingestion

// Monitor provides hooks to observe ingestion progress.
// Implement this interface to report progress to the user; all calls
// happen on the goroutine running the pipeline.
type Monitor interface {
	// OfferQueued is called when a normalized offer joins the current batch.
	OfferQueued(title string)

	// BatchDispatched is called when a batch's store operations are in flight.
	BatchDispatched(operations int)

	// BatchCompleted is called when every operation of a batch has finished.
	BatchCompleted(operations int)
}

// noopMonitor is a no-op implementation of Monitor.
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (*noopMonitor) OfferQueued(_ string)  {}
func (*noopMonitor) BatchDispatched(_ int) {}
func (*noopMonitor) BatchCompleted(_ int)  {}
