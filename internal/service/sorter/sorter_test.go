package sorter

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/jgivc/mediasorter/internal/adapter/fsadapter"
	"github.com/jgivc/mediasorter/internal/common"
	"github.com/jgivc/mediasorter/internal/config"
	"github.com/jgivc/mediasorter/internal/entity"
	"github.com/jgivc/mediasorter/internal/namer"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func testRoots() []Root {
	return []Root{
		{
			Kind:        entity.KindTV,
			DownloadDir: "/downloads/tv",
			LibraryDir:  "/library/tv",
			Namer:       namer.NewTVNamer(),
		},
		{
			Kind:        entity.KindMovies,
			DownloadDir: "/downloads/movies",
			LibraryDir:  "/library/movies",
			Namer:       namer.NewMovieNamer(),
		},
	}
}

func newTestSorter(t *testing.T, fs afero.Fs) *SorterService {
	t.Helper()

	cfg := &config.FSAdapterConfig{
		VideoExtensions:  []string{"mkv", "avi", "mp4", "m4v"},
		IgnoreExtensions: []string{"nzb", "nfo", "srr"},
	}
	log := testLogger()

	srv, err := NewSorterService(fsadapter.NewFSAdapterWithFS(fs, cfg, log), testRoots(), log)
	require.NoError(t, err)

	return srv
}

func TestSortAllBothRoots(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs,
		"/downloads/tv/Show.Name.S01E02.720p/Show.Name.S01E02.mkv", make([]byte, 10_000), 0o644))
	require.NoError(t, afero.WriteFile(fs,
		"/downloads/tv/Show.Name.S01E02.720p/release.nfo", make([]byte, 10), 0o644))
	require.NoError(t, afero.WriteFile(fs,
		"/downloads/movies/Movie.Name.2021.1080p.BluRay/Movie.Name.2021.mp4", make([]byte, 20_000), 0o644))

	srv := newTestSorter(t, fs)
	require.NoError(t, srv.SortAll(context.Background()))

	for _, path := range []string{
		"/library/tv/Show Name/Season 01/Show Name S01E02.mkv",
		"/library/movies/Movie Name 2021.mp4",
	} {
		moved, err := afero.Exists(fs, path)
		require.NoError(t, err)
		require.True(t, moved, path)
	}

	for _, path := range []string{
		"/downloads/tv/Show.Name.S01E02.720p",
		"/downloads/movies/Movie.Name.2021.1080p.BluRay",
	} {
		gone, err := afero.DirExists(fs, path)
		require.NoError(t, err)
		require.False(t, gone, path)
	}
}

func TestSortAllLooseFilesAreLeftUntouched(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/downloads/movies", 0o755))
	require.NoError(t, afero.WriteFile(fs,
		"/downloads/tv/Show.Name.S01E02.mkv", make([]byte, 10_000), 0o644))

	srv := newTestSorter(t, fs)
	require.NoError(t, srv.SortAll(context.Background()))

	kept, err := afero.Exists(fs, "/downloads/tv/Show.Name.S01E02.mkv")
	require.NoError(t, err)
	require.True(t, kept)
}

func TestSortAllOneFailingRootDoesNotStopTheOther(t *testing.T) {
	fs := afero.NewMemMapFs()
	// The movies root does not exist at all.
	require.NoError(t, afero.WriteFile(fs,
		"/downloads/tv/Show.Name.S01E02.720p/Show.Name.S01E02.mkv", make([]byte, 10_000), 0o644))

	srv := newTestSorter(t, fs)
	require.NoError(t, srv.SortAll(context.Background()))

	moved, err := afero.Exists(fs, "/library/tv/Show Name/Season 01/Show Name S01E02.mkv")
	require.NoError(t, err)
	require.True(t, moved)
}

func TestSortAllBadReleaseDoesNotAbortScan(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/downloads/movies", 0o755))
	require.NoError(t, afero.WriteFile(fs,
		"/downloads/tv/Aaa.Unparseable.Folder/video.mkv", make([]byte, 5_000), 0o644))
	require.NoError(t, afero.WriteFile(fs,
		"/downloads/tv/Show.Name.S01E02.720p/Show.Name.S01E02.mkv", make([]byte, 10_000), 0o644))

	srv := newTestSorter(t, fs)
	require.NoError(t, srv.SortAll(context.Background()))

	kept, err := afero.Exists(fs, "/downloads/tv/Aaa.Unparseable.Folder/video.mkv")
	require.NoError(t, err)
	require.True(t, kept)

	moved, err := afero.Exists(fs, "/library/tv/Show Name/Season 01/Show Name S01E02.mkv")
	require.NoError(t, err)
	require.True(t, moved)
}

type blockingAdapter struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (a *blockingAdapter) Entries(root string) ([]os.FileInfo, error) {
	a.once.Do(func() {
		close(a.started)
	})
	<-a.release

	return nil, nil
}

func (a *blockingAdapter) ProcessRelease(releasePath, libraryDir string, nm namer.Namer) error {
	return nil
}

func TestSortAllRejectsOverlappingPass(t *testing.T) {
	adapter := &blockingAdapter{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}

	log := testLogger()
	srv, err := NewSorterService(adapter, testRoots(), log)
	require.NoError(t, err)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- srv.SortAll(context.Background())
	}()

	<-adapter.started
	require.ErrorIs(t, srv.SortAll(context.Background()), common.ErrSortHasAlreadyStarted)

	close(adapter.release)
	require.NoError(t, <-firstDone)
}

func TestNewSorterServiceRequiresRoots(t *testing.T) {
	_, err := NewSorterService(&blockingAdapter{}, nil, testLogger())
	require.ErrorIs(t, err, common.ErrNoDownloadRoots)
}
