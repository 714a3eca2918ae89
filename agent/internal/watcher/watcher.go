// Package watcher re-imports a blocklist file whenever it changes on disk.
package watcher

import (
	"os"

	"github.com/fsnotify/fsnotify"

	"webguard/agent/internal/logger"
	"webguard/agent/internal/rules"
)

// Blocklist watches one newline-delimited blocklist file and feeds changes
// through the rule store's bulk import. Import skips duplicates, so a
// rewrite of an unchanged file adds nothing.
type Blocklist struct {
	path    string
	store   *rules.Store
	watcher *fsnotify.Watcher
	done    chan struct{}
}

func NewBlocklist(path string, store *rules.Store) (*Blocklist, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}
	b := &Blocklist{path: path, store: store, watcher: w, done: make(chan struct{})}
	b.importFile()
	go b.loop()
	return b, nil
}

func (b *Blocklist) Close() error {
	close(b.done)
	return b.watcher.Close()
}

func (b *Blocklist) loop() {
	for {
		select {
		case <-b.done:
			return
		case ev, ok := <-b.watcher.Events:
			if !ok {
				return
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
				b.importFile()
			}
		case err, ok := <-b.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("watcher: %v", err)
		}
	}
}

func (b *Blocklist) importFile() {
	f, err := os.Open(b.path)
	if err != nil {
		logger.Warnf("watcher: open blocklist: %v", err)
		return
	}
	defer f.Close()
	if n := b.store.Import(f); n > 0 {
		logger.Infof("watcher: imported %d domain(s) from %s", n, b.path)
	}
}
