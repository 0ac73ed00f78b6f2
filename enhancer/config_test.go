package enhancer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 5, cfg.MaxResults)
	assert.False(t, cfg.Semantic.Enabled)
	assert.Equal(t, 32, cfg.Semantic.TopN)
	assert.Equal(t, 48, cfg.Semantic.MaxSeqLen)
	assert.Equal(t, 1024, cfg.Semantic.CacheCapacity)
	assert.Equal(t, AssetsBundled, cfg.Embedder.AssetSource)
	assert.Equal(t, "model_qint8_arm64.onnx", cfg.Embedder.ModelFile)
	assert.Equal(t, "v2", cfg.Embedder.CacheVersion)
	assert.Equal(t, 1, cfg.Embedder.IntraOpThreads)
	assert.Equal(t, PendingSession, cfg.Pending.Mode)
	assert.Equal(t, 30, cfg.Pending.Capacity)
	assert.Equal(t, 800, cfg.Pending.CooldownMs)
}

func TestLoadConfigPartialJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"maxResults": 8, "semantic": {"enabled": true, "workers": 4},
	  "pending": {"mode": "flag"}}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MaxResults)
	assert.True(t, cfg.Semantic.Enabled)
	assert.Equal(t, 4, cfg.Semantic.Workers)
	assert.Equal(t, 32, cfg.Semantic.TopN)
	assert.Equal(t, PendingFlag, cfg.Pending.Mode)
}

func TestLoadConfigTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launcher.toml")
	data := `maxResults = 3

[semantic]
enabled = true

[embedder]
assetSource = "remote"
modelURL = "https://example.invalid/model.onnx"
vocabURL = "https://example.invalid/tokenizer.json"
tokenizerBackend = "hf"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxResults)
	assert.True(t, cfg.Semantic.Enabled)
	assert.Equal(t, AssetsRemote, cfg.Embedder.AssetSource)
	assert.Equal(t, "https://example.invalid/model.onnx", cfg.Embedder.ModelURL)
	assert.Equal(t, TokenizerHF, cfg.Embedder.TokenizerBackend)
	assert.Equal(t, "./cache", cfg.Embedder.CacheDir)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"maxResults": "five"}`), 0o644))
	_, err := LoadConfig(bad)
	assert.ErrorContains(t, err, "decode config")

	mode := filepath.Join(dir, "mode.json")
	require.NoError(t, os.WriteFile(mode, []byte(`{"pending": {"mode": "weekly"}}`), 0o644))
	_, err = LoadConfig(mode)
	assert.ErrorContains(t, err, "pending mode")

	src := filepath.Join(dir, "src.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"embedder": {"assetSource": "ftp"}}`), 0o644))
	_, err = LoadConfig(src)
	assert.ErrorContains(t, err, "asset source")
}

func TestSaveConfigRoundTrip(t *testing.T) {
	for _, name := range []string{"nested/config.json", "nested/config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := DefaultConfig()
			cfg.MaxResults = 7
			cfg.Semantic.Enabled = true
			cfg.Embedder.RequiredArch = "arm64"
			cfg.Pending.Mode = PendingFlag

			require.NoError(t, SaveConfig(path, cfg))
			assert.NoFileExists(t, path+".tmp")

			got, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, got)
		})
	}
}
