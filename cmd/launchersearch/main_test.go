package main

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vocabJSON = `{
  "normalizer": {"type": "BertNormalizer", "lowercase": true},
  "model": {
    "type": "WordPiece",
    "unk_token": "[UNK]",
    "vocab": {"[PAD]": 0, "[UNK]": 1, "[CLS]": 2, "[SEP]": 3, "face": 4, "##book": 5, "!": 7}
  }
}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cfg := filepath.Join(t.TempDir(), "config.json")
	argv := append([]string{"launchersearch", "--config", cfg}, args...)
	err := newApp(&out, log.New(io.Discard, "", 0)).Run(argv)
	return out.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSearchCommand(t *testing.T) {
	cat := writeTemp(t, "apps.csv", "title,package\nFacebook,com.facebook.katana\nカメラ,jp.example.camera\n")

	out, err := run(t, "search", "--catalog", cat, "face")
	require.NoError(t, err)
	assert.Equal(t, "1120\tFacebook\tcom.facebook.katana\n", out)

	out, err = run(t, "search", "--catalog", cat, "かめら")
	require.NoError(t, err)
	assert.Contains(t, out, "カメラ\tjp.example.camera")

	out, err = run(t, "search", "--catalog", cat, "--hint", "facebook", "fbk")
	require.NoError(t, err)
	assert.Contains(t, out, "Facebook")

	_, err = run(t, "search", "--catalog", cat)
	assert.EqualError(t, err, "missing query")
	_, err = run(t, "search", "face")
	assert.Error(t, err)
}

func TestVariantsCommand(t *testing.T) {
	out, err := run(t, "variants", "Kamera")
	require.NoError(t, err)
	assert.Contains(t, out, "kamera\n")
	assert.Contains(t, out, "カメラ\n")
}

func TestTokenizeCommand(t *testing.T) {
	vocab := writeTemp(t, "tokenizer.json", vocabJSON)
	out, err := run(t, "tokenize", "--vocab", vocab, "--max-len", "6", "Facebook!")
	require.NoError(t, err)
	assert.Equal(t, "input_ids\t[2 4 5 7 3 0]\nattention_mask\t[1 1 1 1 1 0]\n", out)

	_, err = run(t, "tokenize", "--vocab", filepath.Join(t.TempDir(), "missing.json"), "x")
	assert.Error(t, err)
}
