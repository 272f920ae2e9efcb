package main

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/poiesic/skulink/feed"
	"github.com/poiesic/skulink/ingestion"
	"github.com/poiesic/skulink/similarity"
)

// progressReporter prints stage progress to the terminal. It implements
// the monitor interfaces of all three pipeline stages.
type progressReporter struct {
	out io.Writer
}

var (
	_ feed.DownloadMonitor   = (*progressReporter)(nil)
	_ ingestion.Monitor      = (*progressReporter)(nil)
	_ similarity.ScanMonitor = (*progressReporter)(nil)
)

func newProgressReporter(out io.Writer) *progressReporter {
	return &progressReporter{out: out}
}

func (p *progressReporter) Progress(bytes int64) {
	fmt.Fprintf(p.out, "\r%.2f MB downloaded", float64(bytes)/1e6)
}

func (p *progressReporter) Done(path string, bytes int64) {
	fmt.Fprintf(p.out, "\rdownloaded %s (%.2f MB)\n", path, float64(bytes)/1e6)
}

func (p *progressReporter) OfferQueued(title string) {
	fmt.Fprintf(p.out, "%s added to queue\n", title)
}

func (p *progressReporter) BatchDispatched(operations int) {
	fmt.Fprintf(p.out, "sending %d operations to the stores...\n", operations)
}

func (p *progressReporter) BatchCompleted(_ int) {}

func (p *progressReporter) PageFetched(documents int, _ string) {
	fmt.Fprintf(p.out, "got %d products, finding similar...\n", documents)
}

func (p *progressReporter) SimilarFound(_ uuid.UUID, _ int) {}

func (p *progressReporter) LinksWritten(links int) {
	fmt.Fprintf(p.out, "similar products written for %d products\n", links)
}

func (p *progressReporter) AwaitingUnits(pending int) {
	fmt.Fprintf(p.out, "waiting for the last %d similarity units to finish...\n", pending)
}
