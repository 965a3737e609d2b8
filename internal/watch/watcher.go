package watch

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/iconsite/internal/build"
	"git.home.luguber.info/inful/iconsite/internal/config"
	"git.home.luguber.info/inful/iconsite/internal/foundation/errors"
	"git.home.luguber.info/inful/iconsite/internal/logfields"
	"git.home.luguber.info/inful/iconsite/internal/metrics"
	"git.home.luguber.info/inful/iconsite/internal/observability"
)

// Builder runs one build pass.
type Builder interface {
	Run(ctx context.Context) (*build.Report, error)
}

// Build triggers recorded in the log context.
const (
	TriggerStartup = "startup"
	TriggerChange  = "change"
)

// Watcher runs an initial build, then rebuilds on every change below Roots.
type Watcher struct {
	Roots []string
	// OutputDir is never watched, so writes by the build do not retrigger it.
	OutputDir string
	Options   config.WatchConfig
	Builder   Builder
	Recorder  metrics.Recorder
}

// New creates a Watcher over the source and icon directories of cfg.
func New(cfg *config.Config, b Builder, recorder metrics.Recorder) *Watcher {
	return &Watcher{
		Roots:     []string{cfg.SourceDir(), cfg.IconDir()},
		OutputDir: cfg.OutputDir(),
		Options:   cfg.Watch,
		Builder:   b,
		Recorder:  recorder,
	}
}

// Run blocks until ctx is canceled, returning nil. A failed build ends the
// loop with its error unless Options.KeepGoing is set. Watches are registered
// before the startup build, so changes made while it runs queue a rebuild.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.RuntimeError("create file watcher").WithCause(err).Build()
	}
	defer func() { _ = fw.Close() }()

	for _, root := range w.Roots {
		if err := w.addDirsRecursive(fw, root); err != nil {
			return err
		}
	}

	sched := newScheduler(w.Options.Debounce, w.Recorder)
	defer sched.stop()

	workerCtx, stopWorker := context.WithCancel(ctx)
	fatal := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.work(workerCtx, sched.requests, fatal)
	}()
	defer func() {
		stopWorker()
		wg.Wait()
	}()

	slog.Info("Watching for changes", slog.Any("roots", w.Roots))
	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watcher")
			return nil
		case err := <-fatal:
			return err
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, ev, sched)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// work runs the startup build, then consumes rebuild requests one at a time.
func (w *Watcher) work(ctx context.Context, requests <-chan struct{}, fatal chan<- error) {
	if err := w.rebuild(ctx, TriggerStartup); err != nil && !w.Options.KeepGoing {
		fatal <- err
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-requests:
			err := w.rebuild(ctx, TriggerChange)
			if err != nil && !w.Options.KeepGoing {
				fatal <- err
				return
			}
		}
	}
}

// rebuild runs one build. Failures are logged; a build interrupted by
// shutdown is not reported as a failure.
func (w *Watcher) rebuild(ctx context.Context, trigger string) error {
	ctx = observability.WithTrigger(ctx, trigger)
	_, err := w.Builder.Run(ctx)
	if err == nil {
		return nil
	}
	var se *build.StageError
	if ctx.Err() != nil && stderrors.As(err, &se) && se.Kind == build.StageErrorCanceled {
		return nil
	}
	if w.Options.KeepGoing {
		observability.WarnContext(ctx, "Build failed; waiting for next change",
			slog.String("category", string(errors.GetCategory(err))),
			logfields.Error(err))
	}
	return err
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event, sched *scheduler) {
	if ignoredDir(ev.Name, w.OutputDir) || shouldIgnoreFile(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if err := w.addDirsRecursive(fw, ev.Name); err != nil {
				slog.Warn("Watch add failed", logfields.Path(ev.Name), logfields.Error(err))
			}
		}
	}
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), logfields.EventOp(ev.Op.String()))
	sched.trigger()
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return errors.SourceError("watch root unreadable").WithCause(err).WithContext("path", root).Build()
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if ignoredDir(path, w.OutputDir) || (path != root && shouldIgnoreFile(path)) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}
