package sitesource

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/logger"
)

// DefaultSettle is how long a file must stay quiet before a change is
// reported. Editors often write a file in several steps.
const DefaultSettle = 300 * time.Millisecond

// Watcher reports changes to the local CSV exports of a CSVSource.
type Watcher struct {
	files  map[string]domain.Category
	settle time.Duration
}

// NewWatcher watches every local location of src. Remote locations are
// ignored.
func NewWatcher(src *CSVSource, settle time.Duration) *Watcher {
	w := &Watcher{files: make(map[string]domain.Category), settle: settle}
	for c, loc := range src.locations {
		if loc == "" || isRemote(loc) {
			continue
		}
		if abs, err := filepath.Abs(loc); err == nil {
			w.files[abs] = c
		}
	}
	return w
}

// Len returns the number of watched files.
func (w *Watcher) Len() int {
	return len(w.files)
}

// Run calls onChange with the category of each changed file until ctx
// is done. Directories are watched rather than files, so an editor
// replacing a file by rename is still seen.
func (w *Watcher) Run(ctx context.Context, onChange func(domain.Category)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	dirs := make(map[string]bool)
	for path := range w.files {
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return err
		}
		dirs[dir] = true
		logger.Debug("Watching %s", dir)
	}

	pending := make(map[domain.Category]bool)
	timer := time.NewTimer(w.settle)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			c, watched := w.files[abs]
			if !watched {
				continue
			}
			pending[c] = true
			timer.Reset(w.settle)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error: %v", err)

		case <-timer.C:
			for _, c := range domain.Categories() {
				if pending[c] {
					delete(pending, c)
					onChange(c)
				}
			}
		}
	}
}
