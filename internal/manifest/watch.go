package manifest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"camacho.design/folio"
)

// debounce is how long Watch waits after the last change before rebuilding,
// so a burst of saves only rebuilds once.
var debounce = 250 * time.Millisecond

// Watch rebuilds m from dir whenever a file under dir changes, until ctx is
// done. New directories are watched as they appear. onChange, if not nil, is
// called after every successful rebuild.
//
// Watch blocks; it returns nil when ctx is done.
func Watch(ctx context.Context, dir string, m *Manifest, onChange func()) error {
	log := folio.Logger(ctx).With("dir", dir)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := addTree(watcher, dir); err != nil {
		return err
	}
	log.InfoContext(ctx, "watching static assets")

	rebuild := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(watcher, event.Name); err != nil {
						log.WarnContext(ctx, "error watching new directory", "path", event.Name, "error", err)
					}
				}
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case rebuild <- struct{}{}:
				default:
				}
			})
		case <-rebuild:
			fresh, err := Build(os.DirFS(dir), m.Prefix())
			if err != nil {
				log.ErrorContext(ctx, "error rebuilding manifest", "error", err)
				continue
			}
			m.Replace(fresh)
			log.InfoContext(ctx, "rebuilt manifest", "files", len(fresh.Files()))
			if onChange != nil {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.ErrorContext(ctx, "watcher error", "error", err)
		}
	}
}

func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("error watching %q: %w", path, err)
		}
		return nil
	})
}
