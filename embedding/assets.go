// Package embedding produces L2-normalized sentence vectors from an ONNX
// encoder model and caches them per process.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// Default asset file names.
const (
	DefaultModelFile = "model_qint8_arm64.onnx"
	DefaultVocabFile = "tokenizer.json"
)

// Assets locates the materialized model and vocabulary files.
type Assets struct {
	ModelPath string
	VocabPath string
}

// AssetProvider makes the model and vocabulary available under dir.
type AssetProvider interface {
	Materialize(ctx context.Context, dir string) (Assets, error)
}

// BundledProvider copies assets shipped alongside the application.
type BundledProvider struct {
	FS        fs.FS
	ModelFile string
	VocabFile string
}

// NewBundledProvider serves assets from a directory on disk.
func NewBundledProvider(dir, modelFile, vocabFile string) *BundledProvider {
	return &BundledProvider{FS: os.DirFS(dir), ModelFile: modelFile, VocabFile: vocabFile}
}

// Materialize implements AssetProvider.
func (p *BundledProvider) Materialize(ctx context.Context, dir string) (Assets, error) {
	if p.FS == nil {
		return Assets{}, &AssetError{Name: "bundle", Err: errors.New("no bundled filesystem")}
	}
	model, vocab := names(p.ModelFile, p.VocabFile)
	out := Assets{ModelPath: filepath.Join(dir, model), VocabPath: filepath.Join(dir, vocab)}
	for _, item := range []struct{ name, target string }{{model, out.ModelPath}, {vocab, out.VocabPath}} {
		if err := ctx.Err(); err != nil {
			return Assets{}, err
		}
		name := item.name
		err := stageFile(item.target, func(w io.Writer) error {
			src, err := p.FS.Open(name)
			if err != nil {
				return err
			}
			defer src.Close()
			_, err = io.Copy(w, src)
			return err
		})
		if err != nil {
			return Assets{}, err
		}
	}
	return out, nil
}

// RemoteProvider downloads assets over HTTP into a directory keyed by the
// URL pair, so changing either URL never reuses stale files.
type RemoteProvider struct {
	Client    *http.Client
	ModelURL  string
	VocabURL  string
	ModelFile string
	VocabFile string
}

// Dir returns the per-URL-pair subdirectory of root.
func (p *RemoteProvider) Dir(root string) string {
	sum := xxhash.Sum64String(p.ModelURL + "|" + p.VocabURL)
	return filepath.Join(root, fmt.Sprintf("remote-%016x", sum))
}

// Materialize implements AssetProvider.
func (p *RemoteProvider) Materialize(ctx context.Context, dir string) (Assets, error) {
	if p.ModelURL == "" || p.VocabURL == "" {
		return Assets{}, &AssetError{Name: "remote", Err: errors.New("model and vocabulary URLs are required")}
	}
	sub := p.Dir(dir)
	if err := os.MkdirAll(sub, 0o755); err != nil {
		return Assets{}, &AssetError{Name: "remote", Err: err}
	}
	model, vocab := names(p.ModelFile, p.VocabFile)
	out := Assets{ModelPath: filepath.Join(sub, model), VocabPath: filepath.Join(sub, vocab)}
	for _, item := range []struct{ url, target string }{{p.ModelURL, out.ModelPath}, {p.VocabURL, out.VocabPath}} {
		url := item.url
		err := stageFile(item.target, func(w io.Writer) error {
			return p.download(ctx, url, w)
		})
		if err != nil {
			return Assets{}, err
		}
	}
	return out, nil
}

func (p *RemoteProvider) download(ctx context.Context, url string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

func names(model, vocab string) (string, string) {
	if model == "" {
		model = DefaultModelFile
	}
	if vocab == "" {
		vocab = DefaultVocabFile
	}
	return model, vocab
}

// stageFile leaves an existing non-empty target alone. Otherwise it writes
// to target.tmp and renames into place, refusing zero-byte results.
func stageFile(target string, fill func(w io.Writer) error) error {
	name := filepath.Base(target)
	if info, err := os.Stat(target); err == nil && info.Size() > 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return &AssetError{Name: name, Err: err}
	}
	tmp := target + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return &AssetError{Name: name, Err: err}
	}
	fillErr := fill(f)
	closeErr := f.Close()
	if fillErr != nil {
		_ = os.Remove(tmp)
		return &AssetError{Name: name, Err: fillErr}
	}
	if closeErr != nil {
		_ = os.Remove(tmp)
		return &AssetError{Name: name, Err: closeErr}
	}
	info, err := os.Stat(tmp)
	if err != nil {
		return &AssetError{Name: name, Err: err}
	}
	if info.Size() == 0 {
		_ = os.Remove(tmp)
		return &AssetError{Name: name, Err: ErrEmptyAsset}
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return &AssetError{Name: name, Err: err}
	}
	return nil
}
