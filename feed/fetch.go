package feed

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// DownloadMonitor provides hooks to observe download progress.
// Implement this interface to report progress to the user; the zero
// behavior is provided by NoopDownloadMonitor.
type DownloadMonitor interface {
	// Progress is called after each chunk with the running byte total.
	Progress(bytes int64)

	// Done is called once the payload is fully written to path.
	Done(path string, bytes int64)
}

// NoopDownloadMonitor is a no-op implementation of DownloadMonitor.
type NoopDownloadMonitor struct{}

var _ DownloadMonitor = (*NoopDownloadMonitor)(nil)

func (*NoopDownloadMonitor) Progress(_ int64)       {}
func (*NoopDownloadMonitor) Done(_ string, _ int64) {}

const downloadChunkSize = 64 * 1024

// Download fetches the feed payload at url into dir and returns the
// path of the written file. The file name is taken from the response's
// Content-Disposition header when present, falling back to "feed.xml".
// The body is streamed to disk in chunks; it is never buffered whole.
func Download(ctx context.Context, client *http.Client, url, dir string, monitor DownloadMonitor) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if monitor == nil {
		monitor = &NoopDownloadMonitor{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %s", ErrDownloadFailed, resp.Status)
	}

	path := filepath.Join(dir, attachmentName(resp))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	defer file.Close()

	var total int64
	buf := make([]byte, downloadChunkSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := file.Write(buf[:n]); err != nil {
				return "", fmt.Errorf("%w: %w", ErrDownloadFailed, err)
			}
			total += int64(n)
			monitor.Progress(total)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", fmt.Errorf("%w: %w", ErrDownloadFailed, readErr)
		}
	}

	monitor.Done(path, total)
	return path, nil
}

// attachmentName resolves the file name advertised by the server.
func attachmentName(resp *http.Response) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := filepath.Base(params["filename"]); name != "." && name != string(filepath.Separator) {
				return name
			}
		}
	}
	return "feed.xml"
}
