package entity

import "path/filepath"

// Target is the library location computed for a release name.
type Target struct {
	Subdir   string // Relative to the library root. Empty means the file goes directly under the root.
	BaseName string // New file name without extension.
}

// Path returns the target path relative to the library root, without extension.
func (t *Target) Path() string {
	if t.Subdir == "" {
		return t.BaseName
	}

	return filepath.Join(t.Subdir, t.BaseName)
}
