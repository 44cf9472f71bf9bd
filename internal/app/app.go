package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gofrs/flock"
	"github.com/jgivc/mediasorter/internal/adapter/fsadapter"
	"github.com/jgivc/mediasorter/internal/config"
	"github.com/jgivc/mediasorter/internal/entity"
	"github.com/jgivc/mediasorter/internal/namer"
	"github.com/jgivc/mediasorter/internal/service/scheduler"
	"github.com/jgivc/mediasorter/internal/service/sorter"
)

type App struct {
	cfgPath string
	cfg     *config.Config
	lock    *flock.Flock
	sorter  *sorter.SorterService
	sched   *scheduler.Scheduler
	cancel  context.CancelFunc
	log     *slog.Logger
}

func New(cfgPath string) *App {
	return &App{
		cfgPath: cfgPath,
	}
}

func (a *App) Start() {
	a.cfg = config.MustLoad(a.cfgPath)

	lo := &slog.HandlerOptions{}
	switch a.cfg.LogLevel {
	case config.LogLevelInfo:
		lo.Level = slog.LevelInfo
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	default:
		panic("unknown log level")
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, lo))
	a.log = log

	a.lock = flock.New(a.cfg.LockFile)
	locked, err := a.lock.TryLock()
	if err != nil {
		panic(fmt.Errorf("cannot acquire lock file: %w", err))
	}
	if !locked {
		panic(fmt.Errorf("another mediasorter instance is already running, lock file: %s", a.cfg.LockFile))
	}

	fsa := fsadapter.NewFSAdapter(a.cfg.FSAdapterConfig(), log)

	roots := []sorter.Root{
		{
			Kind:        entity.KindTV,
			DownloadDir: a.cfg.SorterConfig.TV.DownloadDir,
			LibraryDir:  a.cfg.SorterConfig.TV.LibraryDir,
			Namer:       namer.NewTVNamer(),
		},
		{
			Kind:        entity.KindMovies,
			DownloadDir: a.cfg.SorterConfig.Movies.DownloadDir,
			LibraryDir:  a.cfg.SorterConfig.Movies.LibraryDir,
			Namer:       namer.NewMovieNamer(),
		},
	}

	a.sorter, err = sorter.NewSorterService(fsa, roots, log)
	if err != nil {
		panic(err)
	}

	a.sched = scheduler.New(a.sorter, &a.cfg.SchedulerConfig, log)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	go a.sched.Run(ctx)
}

// Sort runs one sort pass outside the schedule. The pass is still subject to
// the mutual exclusion guard of the sorter.
func (a *App) Sort() {
	fmt.Println("Sorting...")

	if err := a.sorter.SortAll(context.Background()); err != nil {
		fmt.Printf("Cannot sort: %s\n", err)

		return
	}

	fmt.Println("Done.")
}

func (a *App) Stop() {
	if a.cancel != nil {
		a.cancel()
	}

	if a.lock != nil {
		if err := a.lock.Unlock(); err != nil {
			a.log.Error("Cannot release lock file", slog.Any("error", err))
		}
	}
}
