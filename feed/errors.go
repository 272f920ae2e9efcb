package feed

import "errors"

var (
	// ErrMalformedFeed indicates the feed XML could not be parsed.
	ErrMalformedFeed = errors.New("malformed feed")

	// ErrDownloadFailed indicates the feed payload could not be fetched.
	ErrDownloadFailed = errors.New("feed download failed")
)
