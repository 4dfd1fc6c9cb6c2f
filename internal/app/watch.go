package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDelay is how long Watch waits for a burst of file events to
// settle before rerunning.
const DefaultWatchDelay = 100 * time.Millisecond

// Watch calls fn once, then again each time the file at path is written,
// until ctx is done. Errors from fn are logged and do not stop watching.
//
// The file's directory is watched rather than the file itself, so editors
// that save by replacing the file are still seen.
func (app *Application) Watch(ctx context.Context, path string, delay time.Duration, fn func(context.Context) error) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(absPath); err != nil {
		return NewOperationError("watch", path, err)
	}
	if delay <= 0 {
		delay = DefaultWatchDelay
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return NewOperationError("watch", path, err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(absPath)); err != nil {
		return NewOperationError("watch", path, err)
	}

	log := app.logger.WithComponent("watch").WithField("path", path)
	run := func() {
		if err := fn(ctx); err != nil {
			log.Error("%v", err)
		}
	}

	run()
	log.Info("watching for changes")

	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Name != absPath {
				continue
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
				timer.Reset(delay)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error: %v", err)

		case <-timer.C:
			log.Debug("change detected")
			run()
		}
	}
}

// WatchScript reloads the script at path on every change and applies it
// to the file at input, writing results to out. A script without a
// process function is only run.
func (app *Application) WatchScript(ctx context.Context, path, input string, out, scriptOut io.Writer) error {
	return app.Watch(ctx, path, DefaultWatchDelay, func(ctx context.Context) error {
		script, err := app.LoadScript(ctx, path, scriptOut)
		if err != nil {
			return err
		}
		defer script.Close()

		if input == "" || !script.HasProcess() {
			return nil
		}
		f, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		return app.Process(ctx, f, out, "script", script.RecordFunc(), KeepGoing())
	})
}
