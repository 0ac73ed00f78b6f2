package enhancer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const defaultConfigFile = "config.json"

// Asset sources.
const (
	AssetsBundled = "bundled"
	AssetsRemote  = "remote"
)

// Tokenizer backends.
const (
	TokenizerBuiltin = "builtin"
	TokenizerHF      = "hf"
)

// SemanticConfig controls the reranking stage.
type SemanticConfig struct {
	Enabled       bool `json:"enabled" toml:"enabled"`
	TopN          int  `json:"topN" toml:"topN"`
	MaxSeqLen     int  `json:"maxSeqLen" toml:"maxSeqLen"`
	CacheCapacity int  `json:"cacheCapacity" toml:"cacheCapacity"`
	Workers       int  `json:"workers" toml:"workers"`
}

// EmbedderConfig locates the model, vocabulary and ONNX Runtime.
type EmbedderConfig struct {
	AssetSource      string `json:"assetSource" toml:"assetSource"`
	BundledDir       string `json:"bundledDir" toml:"bundledDir"`
	ModelFile        string `json:"modelFile" toml:"modelFile"`
	VocabFile        string `json:"vocabFile" toml:"vocabFile"`
	ModelURL         string `json:"modelURL" toml:"modelURL"`
	VocabURL         string `json:"vocabURL" toml:"vocabURL"`
	CacheDir         string `json:"cacheDir" toml:"cacheDir"`
	CacheVersion     string `json:"cacheVersion" toml:"cacheVersion"`
	RequiredArch     string `json:"requiredArch" toml:"requiredArch"`
	ORTLibrary       string `json:"ortLibrary" toml:"ortLibrary"`
	IntraOpThreads   int    `json:"intraOpThreads" toml:"intraOpThreads"`
	TokenizerBackend string `json:"tokenizerBackend" toml:"tokenizerBackend"`
}

// PendingConfig controls the no-result query store.
type PendingConfig struct {
	Mode       PendingMode `json:"mode" toml:"mode"`
	Capacity   int         `json:"capacity" toml:"capacity"`
	CooldownMs int         `json:"cooldownMs" toml:"cooldownMs"`
}

// Config aggregates runtime settings persisted to config.json or a .toml
// file.
type Config struct {
	MaxResults int            `json:"maxResults" toml:"maxResults"`
	Semantic   SemanticConfig `json:"semantic" toml:"semantic"`
	Embedder   EmbedderConfig `json:"embedder" toml:"embedder"`
	Pending    PendingConfig  `json:"pending" toml:"pending"`
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.MaxResults <= 0 {
		c.MaxResults = 5
	}
	if c.Semantic.TopN <= 0 {
		c.Semantic.TopN = 32
	}
	if c.Semantic.MaxSeqLen <= 0 {
		c.Semantic.MaxSeqLen = 48
	}
	if c.Semantic.CacheCapacity <= 0 {
		c.Semantic.CacheCapacity = 1024
	}
	if c.Semantic.Workers <= 0 {
		c.Semantic.Workers = 1
	}
	e := &c.Embedder
	if e.AssetSource == "" {
		e.AssetSource = AssetsBundled
	}
	if e.BundledDir == "" {
		e.BundledDir = "./assets/semantic"
	}
	if e.ModelFile == "" {
		e.ModelFile = "model_qint8_arm64.onnx"
	}
	if e.VocabFile == "" {
		e.VocabFile = "tokenizer.json"
	}
	if e.CacheDir == "" {
		e.CacheDir = "./cache"
	}
	if e.CacheVersion == "" {
		e.CacheVersion = "v2"
	}
	if e.IntraOpThreads <= 0 {
		e.IntraOpThreads = 1
	}
	if e.TokenizerBackend == "" {
		e.TokenizerBackend = TokenizerBuiltin
	}
	if c.Pending.Mode == "" {
		c.Pending.Mode = PendingSession
	}
	if c.Pending.Capacity <= 0 {
		c.Pending.Capacity = 30
	}
	if c.Pending.CooldownMs <= 0 {
		c.Pending.CooldownMs = 800
	}
}

// Validate rejects unknown enumerations.
func (c Config) Validate() error {
	switch c.Embedder.AssetSource {
	case AssetsBundled, AssetsRemote:
	default:
		return fmt.Errorf("unknown asset source %q", c.Embedder.AssetSource)
	}
	switch c.Embedder.TokenizerBackend {
	case TokenizerBuiltin, TokenizerHF:
	default:
		return fmt.Errorf("unknown tokenizer backend %q", c.Embedder.TokenizerBackend)
	}
	switch c.Pending.Mode {
	case PendingSession, PendingFlag:
	default:
		return fmt.Errorf("unknown pending mode %q", c.Pending.Mode)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// LoadConfig loads configuration from the given path or the default
// config.json. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if isTOML(path) {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// SaveConfig persists configuration to disk.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
