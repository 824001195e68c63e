package codebase

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("tsmeta.codebase")

// FileWatcher keeps a Codebase in sync with declaration listings on
// disk. Directories are watched recursively; newly created directories
// are picked up as they appear.
type FileWatcher struct {
	codebase *Codebase
	watcher  *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
}

func NewFileWatcher(c *Codebase) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	return &FileWatcher{
		codebase: c,
		watcher:  watcher,
		done:     make(chan struct{}),
	}, nil
}

func (w *FileWatcher) Start() error {
	if err := w.addRecursive(w.codebase.RootDir()); err != nil {
		return fmt.Errorf("watch %s: %w", w.codebase.RootDir(), err)
	}
	go w.run()
	return nil
}

func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}

func (w *FileWatcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); path != root && (strings.HasPrefix(name, ".") || name == "node_modules") {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *FileWatcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("watch: %v", err)
		}
	}
}

func (w *FileWatcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addRecursive(event.Name)
			return
		}
	}

	if !strings.HasSuffix(event.Name, ".d.ts") {
		return
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		log.Debugf("remove %s", event.Name)
		w.codebase.RemoveFile(event.Name)
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		log.Debugf("update %s", event.Name)
		if err := w.codebase.ScanFile(event.Name); err != nil {
			log.Errorf("scan %s: %v", event.Name, err)
		}
	}
}
