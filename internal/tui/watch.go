package tui

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/papapumpkin/igmguesses/internal/linelist"
)

// CatalogWatcher reloads a catalog file whenever it is written. The file's
// directory is watched so editors that replace the file by rename are seen.
type CatalogWatcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// WatchCatalog starts watching path.
func WatchCatalog(path string) (*CatalogWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("catalog watch: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("catalog watch: create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("catalog watch: watch %s: %w", filepath.Dir(abs), err)
	}
	return &CatalogWatcher{path: abs, watcher: w}, nil
}

// Next returns a command that blocks until the catalog file changes and
// reports the reloaded catalog. It returns nil once the watcher is closed.
func (cw *CatalogWatcher) Next() tea.Cmd {
	if cw == nil {
		return nil
	}
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-cw.watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != cw.path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				cat, err := linelist.LoadFile(cw.path)
				if err != nil {
					return MsgCatalogError{Err: err}
				}
				return MsgCatalogReloaded{Catalog: cat}
			case err, ok := <-cw.watcher.Errors:
				if !ok {
					return nil
				}
				return MsgCatalogError{Err: err}
			}
		}
	}
}

// Close stops watching.
func (cw *CatalogWatcher) Close() error {
	if cw == nil {
		return nil
	}
	return cw.watcher.Close()
}
