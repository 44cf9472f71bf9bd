package entity

// Kind is the media kind a download root is bound to.
type Kind string

const (
	KindTV     Kind = "tv"
	KindMovies Kind = "movies"
)

func (k Kind) String() string {
	return string(k)
}

// Release is one top-level entry of a download root, recomputed on every scan.
type Release struct {
	ID   string // Stable hash of the source path, used to correlate log lines.
	Name string // Folder name as produced by the download client.
	Path string // Full path to the release folder.
}
