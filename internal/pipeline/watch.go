package pipeline

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits after the last write to a file
// before reprocessing it.
const DefaultDebounce = 100 * time.Millisecond

// WatchFunc receives the outcome of reprocessing a changed file.
type WatchFunc func(res *FileResult, err error)

// Watch watches dir recursively and reprocesses module files when they are
// written or created. Files produced by the pipeline are ignored. Watch
// blocks until ctx is cancelled.
func (p *Pipeline) Watch(ctx context.Context, dir string, debounce time.Duration, fn WatchFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, dir); err != nil {
		return err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	p.logger.Info("watching for changes", "dir", dir)

	var (
		mu     sync.Mutex
		timers = map[string]*time.Timer{}
		wg     sync.WaitGroup
	)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			if t.Stop() {
				wg.Done()
			}
		}
		mu.Unlock()
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchDirRecursive(watcher, event.Name); err != nil {
						p.logger.Error("failed to watch new directory", "dir", event.Name, "error", err)
					}
					continue
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !p.isInput(event.Name) {
				continue
			}

			path := event.Name
			mu.Lock()
			if t, ok := timers[path]; ok && t.Stop() {
				wg.Done()
			}
			wg.Add(1)
			var timer *time.Timer
			timer = time.AfterFunc(debounce, func() {
				defer wg.Done()
				mu.Lock()
				if timers[path] == timer {
					delete(timers, path)
				}
				mu.Unlock()

				p.logger.Debug("file changed, reprocessing", "file", path)
				res, err := p.ProcessFile(ctx, path)
				if err == nil {
					err = p.WriteOutput(res)
				}
				fn(res, err)
			})
			timers[path] = timer
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.logger.Error("watcher error", "error", err)
		}
	}
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
