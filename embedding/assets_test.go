package embedding

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func TestStageFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("writes through temp file", func(t *testing.T) {
		target := filepath.Join(dir, "a.bin")
		require.NoError(t, stageFile(target, writeString("model")))
		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "model", string(data))
		assert.NoFileExists(t, target+".tmp")
	})

	t.Run("existing non-empty file is kept", func(t *testing.T) {
		target := filepath.Join(dir, "b.bin")
		require.NoError(t, os.WriteFile(target, []byte("old"), 0o644))
		called := false
		require.NoError(t, stageFile(target, func(io.Writer) error {
			called = true
			return nil
		}))
		assert.False(t, called)
	})

	t.Run("existing empty file is replaced", func(t *testing.T) {
		target := filepath.Join(dir, "c.bin")
		require.NoError(t, os.WriteFile(target, nil, 0o644))
		require.NoError(t, stageFile(target, writeString("new")))
		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
	})

	t.Run("zero bytes fail", func(t *testing.T) {
		target := filepath.Join(dir, "d.bin")
		err := stageFile(target, writeString(""))
		require.ErrorIs(t, err, ErrEmptyAsset)
		var assetErr *AssetError
		require.ErrorAs(t, err, &assetErr)
		assert.Equal(t, "d.bin", assetErr.Name)
		assert.NoFileExists(t, target)
		assert.NoFileExists(t, target+".tmp")
	})

	t.Run("fill error", func(t *testing.T) {
		target := filepath.Join(dir, "e.bin")
		boom := errors.New("boom")
		err := stageFile(target, func(io.Writer) error { return boom })
		require.ErrorIs(t, err, boom)
		assert.NoFileExists(t, target+".tmp")
	})
}

func TestBundledProvider(t *testing.T) {
	bundle := fstest.MapFS{
		"model.onnx":     {Data: []byte("onnx")},
		"tokenizer.json": {Data: []byte("{}")},
	}
	dir := t.TempDir()
	p := &BundledProvider{FS: bundle, ModelFile: "model.onnx"}

	assets, err := p.Materialize(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "model.onnx"), assets.ModelPath)
	assert.Equal(t, filepath.Join(dir, DefaultVocabFile), assets.VocabPath)
	assert.FileExists(t, assets.ModelPath)
	assert.FileExists(t, assets.VocabPath)

	missing := &BundledProvider{FS: bundle, ModelFile: "absent.onnx"}
	_, err = missing.Materialize(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, fs.ErrNotExist)
	var assetErr *AssetError
	assert.ErrorAs(t, err, &assetErr)

	_, err = (&BundledProvider{}).Materialize(context.Background(), dir)
	assert.ErrorAs(t, err, &assetErr)
}

func TestBundledProviderFromDisk(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "m.onnx"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "v.json"), []byte("y"), 0o644))

	assets, err := NewBundledProvider(src, "m.onnx", "v.json").Materialize(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.FileExists(t, assets.ModelPath)
	assert.FileExists(t, assets.VocabPath)
}

func TestRemoteProvider(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/model.onnx":
			_, _ = io.WriteString(w, "onnx-bytes")
		case "/tokenizer.json":
			_, _ = io.WriteString(w, `{"model":{}}`)
		case "/empty":
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	root := t.TempDir()
	p := &RemoteProvider{Client: srv.Client(), ModelURL: srv.URL + "/model.onnx", VocabURL: srv.URL + "/tokenizer.json"}
	assets, err := p.Materialize(context.Background(), root)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(assets.ModelPath, p.Dir(root)))
	data, err := os.ReadFile(assets.ModelPath)
	require.NoError(t, err)
	assert.Equal(t, "onnx-bytes", string(data))
	assert.Equal(t, int32(2), hits.Load())

	_, err = p.Materialize(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "present assets are not downloaded again")

	other := &RemoteProvider{ModelURL: srv.URL + "/other.onnx", VocabURL: p.VocabURL}
	assert.NotEqual(t, p.Dir(root), other.Dir(root))

	notFound := &RemoteProvider{Client: srv.Client(), ModelURL: srv.URL + "/missing", VocabURL: p.VocabURL}
	_, err = notFound.Materialize(context.Background(), root)
	var assetErr *AssetError
	require.ErrorAs(t, err, &assetErr)
	assert.Contains(t, err.Error(), "404")

	empty := &RemoteProvider{Client: srv.Client(), ModelURL: srv.URL + "/empty", VocabURL: p.VocabURL}
	_, err = empty.Materialize(context.Background(), root)
	assert.ErrorIs(t, err, ErrEmptyAsset)

	_, err = (&RemoteProvider{}).Materialize(context.Background(), root)
	assert.ErrorAs(t, err, &assetErr)
}
