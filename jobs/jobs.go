// Package jobs runs blocking work (file reads, HTTP, image decoding) off the
// UI thread. Jobs are pulled from a shared queue by a fixed set of workers and
// their results are collected for the UI thread to drain once per frame.
package jobs

// Kind identifies the type of a job and selects its handler.
type Kind int

const (
	KindLoadImage Kind = iota
	KindSearchGame
	KindSearchPlatform
	KindDownloadURL
	KindCheckUpdates
	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindLoadImage:
		return "LoadImage"
	case KindSearchGame:
		return "SearchGame"
	case KindSearchPlatform:
		return "SearchPlatform"
	case KindDownloadURL:
		return "DownloadUrl"
	case KindCheckUpdates:
		return "CheckUpdates"
	default:
		return "Unknown"
	}
}

// Job is a unit of background work.
type Job interface {
	Kind() Kind
}

// LoadImage reads and decodes an image (or reads raw font bytes) for the
// asset cache. Key is the asset key the result belongs to.
type LoadImage struct {
	Key  any
	Path string
	Font bool
}

// SearchGame looks a game up with the scraper. Generation tags the scan the
// job belongs to so stale results can be discarded.
type SearchGame struct {
	Generation uint64
	// ID is the local platform the game is added to.
	ID   int64
	Name string
	// Exe is the ROM or executable path stored with the game.
	Exe string
	// Platform is the scraper's platform id, 0 for any.
	Platform int64
}

// SearchPlatform looks a platform up with the scraper and lists the games
// found in its folder.
type SearchPlatform struct {
	Generation uint64
	// ID is the local platform being edited, 0 for a new one.
	ID     int64
	Name   string
	Path   string
	Args   string
	Folder string
}

// DownloadURL fetches URL into Dest.
type DownloadURL struct {
	URL  string
	Dest string
}

// CheckUpdates asks whether a newer release is available.
type CheckUpdates struct{}

func (LoadImage) Kind() Kind      { return KindLoadImage }
func (SearchGame) Kind() Kind     { return KindSearchGame }
func (SearchPlatform) Kind() Kind { return KindSearchPlatform }
func (DownloadURL) Kind() Kind    { return KindDownloadURL }
func (CheckUpdates) Kind() Kind   { return KindCheckUpdates }

// Result is published when a job completes. Value holds the handler's output
// and is nil when Err is set.
type Result struct {
	Job   Job
	Value any
	Err   error
}
