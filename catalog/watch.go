package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"yashubustudio/launchersearch/lexical"
)

// Watcher reloads one catalog file when it is written or replaced.
type Watcher struct {
	w    *fsnotify.Watcher
	path string
	opts Options
}

// NewWatcher starts watching the directory holding path. Watching the
// directory keeps the watch alive across editors that replace the file.
func NewWatcher(path string, opts Options) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{w: w, path: abs, opts: opts}, nil
}

// Run delivers every successful reload to onChange and every watch or parse
// failure to onError until ctx is done. It closes the watcher on return.
// onError may be nil.
func (w *Watcher) Run(ctx context.Context, onChange func([]lexical.App), onError func(error)) error {
	defer w.w.Close()
	report := func(err error) {
		if onError != nil {
			onError(err)
		}
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			apps, err := LoadWithOptions(w.path, w.opts)
			if err != nil {
				report(err)
				continue
			}
			onChange(apps)
		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			report(fmt.Errorf("watch %s: %w", filepath.Base(w.path), err))
		}
	}
}

// Close stops a watcher that was never run.
func (w *Watcher) Close() error {
	return w.w.Close()
}

// Watch is NewWatcher followed by Run.
func Watch(ctx context.Context, path string, onChange func([]lexical.App), onError func(error)) error {
	w, err := NewWatcher(path, Options{})
	if err != nil {
		return err
	}
	return w.Run(ctx, onChange, onError)
}
