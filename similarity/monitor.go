package similarity

import "github.com/google/uuid"

// ScanMonitor provides hooks to observe scan progress.
// PageFetched and AwaitingUnits are called from the pagination
// goroutine; SimilarFound and LinksWritten from background units.
type ScanMonitor interface {
	// PageFetched is called after each non-empty page, with the advanced cursor.
	PageFetched(documents int, cursor string)

	// SimilarFound is called per source document once its similar uuids are known.
	SimilarFound(id uuid.UUID, similar int)

	// LinksWritten is called after a page's links are persisted.
	LinksWritten(links int)

	// AwaitingUnits is called once pagination ends, with the number of
	// background units still running.
	AwaitingUnits(pending int)
}

// noopScanMonitor is a no-op implementation of ScanMonitor.
type noopScanMonitor struct{}

var _ ScanMonitor = (*noopScanMonitor)(nil)

func (*noopScanMonitor) PageFetched(_ int, _ string)     {}
func (*noopScanMonitor) SimilarFound(_ uuid.UUID, _ int) {}
func (*noopScanMonitor) LinksWritten(_ int)              {}
func (*noopScanMonitor) AwaitingUnits(_ int)             {}
