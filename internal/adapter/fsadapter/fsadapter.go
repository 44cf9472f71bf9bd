package fsadapter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jgivc/mediasorter/internal/config"
	"github.com/jgivc/mediasorter/internal/namer"
	"github.com/spf13/afero"
)

type fsAdapter struct {
	fs         afero.Fs
	videoExts  map[string]struct{}
	ignoreExts map[string]struct{}

	log *slog.Logger
}

func NewFSAdapter(cfg *config.FSAdapterConfig, log *slog.Logger) *fsAdapter {
	return NewFSAdapterWithFS(afero.NewOsFs(), cfg, log)
}

func NewFSAdapterWithFS(fs afero.Fs, cfg *config.FSAdapterConfig, log *slog.Logger) *fsAdapter {
	videoExts := make(map[string]struct{}, len(cfg.VideoExtensions))
	for _, ext := range cfg.VideoExtensions {
		videoExts[strings.ToLower(ext)] = struct{}{}
	}

	ignoreExts := make(map[string]struct{}, len(cfg.IgnoreExtensions))
	for _, ext := range cfg.IgnoreExtensions {
		ignoreExts[strings.ToLower(ext)] = struct{}{}
	}

	return &fsAdapter{
		fs:         fs,
		videoExts:  videoExts,
		ignoreExts: ignoreExts,
		log:        log.With(slog.String("item", "FSAdapter")),
	}
}

// Entries lists the immediate children of a download root in listing order.
func (a *fsAdapter) Entries(root string) ([]os.FileInfo, error) {
	return afero.ReadDir(a.fs, root)
}

/*
ProcessRelease runs one release folder through the classify/move/cleanup sequence:
 1. Immediate children only, sorted descending by size, non-files last.
 2. The first child with a video extension whose folder name parses wins: the
    file is renamed into the library and the whole release folder is removed.
    Sidecar files still inside are discarded with it.
 3. Children with an ignorable extension are deleted individually.
 4. A folder left empty after the loop is removed.

Per-child errors are logged and skipped so one bad file does not stop the scan.
*/
func (a *fsAdapter) ProcessRelease(releasePath, libraryDir string, nm namer.Namer) error {
	children, err := afero.ReadDir(a.fs, releasePath)
	if err != nil {
		return fmt.Errorf("cannot list release folder: %w", err)
	}

	sort.SliceStable(children, func(i, j int) bool {
		if children[i].IsDir() || children[j].IsDir() {
			return !children[i].IsDir() && children[j].IsDir()
		}

		return children[i].Size() > children[j].Size()
	})

	for _, child := range children {
		if child.IsDir() {
			continue
		}

		ext, ok := splitExtension(child.Name())
		if !ok {
			continue
		}

		childPath := filepath.Join(releasePath, child.Name())

		if a.isVideo(ext) {
			target, err := nm.Parse(filepath.Base(releasePath))
			if err != nil {
				a.log.Warn("Cannot parse release name, leave file in place",
					slog.String("path", childPath), slog.Any("error", err))

				continue
			}

			dstPath := filepath.Join(libraryDir, target.Path()+"."+ext)
			if err := a.moveFile(childPath, dstPath); err != nil {
				a.log.Error("Cannot move video file",
					slog.String("path", childPath), slog.String("dst_path", dstPath), slog.Any("error", err))

				continue
			}

			a.log.Info("Moved video file", slog.String("path", childPath), slog.String("dst_path", dstPath))

			// The release is consumed once its primary payload is relocated.
			if err := a.fs.RemoveAll(releasePath); err != nil {
				return fmt.Errorf("cannot remove consumed release folder: %w", err)
			}

			return nil
		}

		if a.isIgnorable(ext) {
			if err := a.fs.Remove(childPath); err != nil {
				a.log.Error("Cannot remove ignorable file", slog.String("path", childPath), slog.Any("error", err))

				continue
			}

			a.log.Info("Removed ignorable file", slog.String("path", childPath))
		}
	}

	return a.removeIfEmpty(releasePath)
}

func (a *fsAdapter) moveFile(srcPath, dstPath string) error {
	if err := a.fs.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("cannot create library folder: %w", err)
	}

	if err := a.fs.Rename(srcPath, dstPath); err != nil {
		return fmt.Errorf("cannot rename file: %w", err)
	}

	return nil
}

func (a *fsAdapter) removeIfEmpty(path string) error {
	empty, err := afero.IsEmpty(a.fs, path)
	if err != nil {
		return fmt.Errorf("cannot check release folder: %w", err)
	}

	if !empty {
		return nil
	}

	if err := a.fs.Remove(path); err != nil {
		return fmt.Errorf("cannot remove empty release folder: %w", err)
	}

	a.log.Info("Removed empty release folder", slog.String("path", path))

	return nil
}

func (a *fsAdapter) isVideo(ext string) bool {
	_, exists := a.videoExts[strings.ToLower(ext)]

	return exists
}

func (a *fsAdapter) isIgnorable(ext string) bool {
	_, exists := a.ignoreExts[strings.ToLower(ext)]

	return exists
}

// splitExtension returns the substring after the last '.'. Names without a
// second segment carry no extension and are not classified at all.
func splitExtension(name string) (string, bool) {
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return "", false
	}

	return parts[len(parts)-1], true
}
