package sorter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/jgivc/mediasorter/internal/common"
	"github.com/jgivc/mediasorter/internal/entity"
	"github.com/jgivc/mediasorter/internal/namer"
	"github.com/jgivc/mediasorter/internal/util"
)

type FSAdapter interface {
	Entries(root string) ([]os.FileInfo, error)
	ProcessRelease(releasePath, libraryDir string, nm namer.Namer) error
}

// Root binds a media kind to its directories and naming convention.
type Root struct {
	Kind        entity.Kind
	DownloadDir string
	LibraryDir  string
	Namer       namer.Namer
}

type SorterService struct {
	running atomic.Bool
	adapter FSAdapter
	roots   []Root

	log *slog.Logger
}

func NewSorterService(adapter FSAdapter, roots []Root, log *slog.Logger) (*SorterService, error) {
	if len(roots) < 1 {
		return nil, common.ErrNoDownloadRoots
	}

	return &SorterService{
		adapter: adapter,
		roots:   roots,
		log:     log.With(slog.String("item", "SorterService")),
	}, nil
}

// SortAll reconciles every download root concurrently. A failing root is
// logged and does not affect the others; partial success is acceptable.
// At most one pass may be in flight at any time.
func (s *SorterService) SortAll(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return common.ErrSortHasAlreadyStarted
	}
	defer s.running.Store(false)

	var wg sync.WaitGroup
	wg.Add(len(s.roots))
	for _, root := range s.roots {
		go func(root Root) {
			defer wg.Done()

			if err := s.reconcile(ctx, root); err != nil {
				s.log.Error("Sort pass failed",
					slog.String("kind", root.Kind.String()), slog.Any("error", err))
			}
		}(root)
	}

	wg.Wait()

	return nil
}

func (s *SorterService) reconcile(ctx context.Context, root Root) error {
	log := s.log.With(slog.String("kind", root.Kind.String()))

	entries, err := s.adapter.Entries(root.DownloadDir)
	if err != nil {
		return fmt.Errorf("cannot list download root: %w", err)
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Loose files sitting directly in the download root stay untouched.
		if !entry.IsDir() {
			continue
		}

		release := entity.Release{
			Name: entry.Name(),
			Path: filepath.Join(root.DownloadDir, entry.Name()),
		}
		release.ID = util.ID(release.Path)

		log.Info("Found release", slog.String("id", release.ID), slog.String("path", release.Path))

		if err := s.adapter.ProcessRelease(release.Path, root.LibraryDir, root.Namer); err != nil {
			log.Error("Cannot process release",
				slog.String("id", release.ID), slog.String("path", release.Path), slog.Any("error", err))

			continue
		}
	}

	return nil
}
