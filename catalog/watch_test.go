package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yashubustudio/launchersearch/lexical"
)

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apps.csv")
	require.NoError(t, os.WriteFile(path, []byte("title,package\nMaps,com.google.maps\n"), 0o644))

	w, err := NewWatcher(path, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan []lexical.App, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(apps []lexical.App) { changes <- apps }, nil)
	}()

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.csv"), []byte("title\nX\n"), 0o644))

	tmp := filepath.Join(dir, "apps.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("title,package\nNotes,com.example.notes\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case apps := <-changes:
		assert.Equal(t, []lexical.App{{Name: "Notes", Package: "com.example.notes"}}, apps)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apps.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errs := make(chan error, 8)
	w, err := NewWatcher(path, Options{})
	require.NoError(t, err)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx, func([]lexical.App) {}, func(err error) { errs <- err })
	}()

	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))
	select {
	case err := <-errs:
		assert.ErrorContains(t, err, "apps.json")
	case <-time.After(5 * time.Second):
		t.Fatal("no error reported")
	}
	cancel()
	<-done
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "apps.csv"), func([]lexical.App) {}, nil)
	assert.Error(t, err)
}
