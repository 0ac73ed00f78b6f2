// Package subword turns text into fixed-length model inputs using the
// WordPiece or Unigram vocabulary declared by a tokenizer.json file.
package subword

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrUnsupportedModel is returned for model types other than WordPiece
	// and Unigram.
	ErrUnsupportedModel = errors.New("unsupported tokenizer model")
	// ErrMalformedVocab is returned when the model vocabulary is missing or
	// cannot be decoded.
	ErrMalformedVocab = errors.New("malformed tokenizer vocabulary")
)

// Encoded is one framed sequence. Both slices always have the requested
// length.
type Encoded struct {
	InputIDs      []int64
	AttentionMask []int64
}

// Encoder converts text into a framed id sequence of exactly maxLen
// positions: CLS, content, SEP, then padding.
type Encoder interface {
	Encode(text string, maxLen int) Encoded
}

// Special holds the resolved special token ids.
type Special struct {
	CLS int
	SEP int
	PAD int
	UNK int
}

type tokenizerFile struct {
	Model       json.RawMessage `json:"model"`
	Normalizer  json.RawMessage `json:"normalizer"`
	AddedTokens []addedToken    `json:"added_tokens"`
}

type addedToken struct {
	ID      *int   `json:"id"`
	Content string `json:"content"`
}

type modelHeader struct {
	Type string `json:"type"`
}

// Load reads and parses a tokenizer.json file.
func Load(path string) (Encoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tokenizer %s: %w", path, err)
	}
	enc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse tokenizer %s: %w", path, err)
	}
	return enc, nil
}

// Parse builds the tokenizer selected by model.type.
func Parse(data []byte) (Encoder, error) {
	var tf tokenizerFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedVocab, err)
	}
	if len(tf.Model) == 0 || string(tf.Model) == "null" {
		return nil, fmt.Errorf("%w: missing model", ErrMalformedVocab)
	}
	var head modelHeader
	if err := json.Unmarshal(tf.Model, &head); err != nil {
		return nil, fmt.Errorf("%w: model: %v", ErrMalformedVocab, err)
	}
	lower := hasLowercase(tf.Normalizer)

	switch {
	case strings.EqualFold(head.Type, "WordPiece"):
		return newWordPiece(tf, lower)
	case strings.EqualFold(head.Type, "Unigram"):
		return newUnigram(tf, lower)
	}
	return nil, fmt.Errorf("%w: model.type=%q", ErrUnsupportedModel, head.Type)
}

// hasLowercase looks for a lowercase flag in the normalizer, descending into
// Sequence normalizers.
func hasLowercase(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var node map[string]any
	if err := json.Unmarshal(raw, &node); err != nil || node == nil {
		return false
	}
	return lowercaseNode(node)
}

func lowercaseNode(node map[string]any) bool {
	if v, ok := node["lowercase"].(bool); ok && v {
		return true
	}
	typ, _ := node["type"].(string)
	if strings.EqualFold(typ, "Lowercase") {
		return true
	}
	if !strings.EqualFold(typ, "Sequence") {
		return false
	}
	children, _ := node["normalizers"].([]any)
	for _, c := range children {
		if child, ok := c.(map[string]any); ok && lowercaseNode(child) {
			return true
		}
	}
	return false
}

// pickSpecial resolves a special token: vocabulary primary, vocabulary
// alternate, added_tokens by content, then fallback.
func pickSpecial(vocab map[string]int, added []addedToken, primary, alt string, fallback int) int {
	if id, ok := vocab[primary]; ok {
		return id
	}
	if id, ok := vocab[alt]; ok {
		return id
	}
	for _, t := range added {
		if t.ID == nil || *t.ID < 0 {
			continue
		}
		if t.Content == primary || t.Content == alt {
			return *t.ID
		}
	}
	return fallback
}

func normalizeInput(s string, lower bool) string {
	out := strings.TrimSpace(norm.NFKC.String(s))
	if lower {
		out = cases.Lower(language.Und).String(out)
	}
	return out
}

// frame wraps content ids with CLS and SEP and pads to maxLen.
func frame(content []int, sp Special, maxLen int) Encoded {
	if maxLen <= 0 {
		return Encoded{InputIDs: []int64{}, AttentionMask: []int64{}}
	}
	ids := make([]int, 0, maxLen)
	ids = append(ids, sp.CLS)
	for _, id := range content {
		if len(ids) >= maxLen-1 {
			break
		}
		ids = append(ids, id)
	}
	ids = append(ids, sp.SEP)

	enc := Encoded{
		InputIDs:      make([]int64, maxLen),
		AttentionMask: make([]int64, maxLen),
	}
	n := min(len(ids), maxLen)
	for i := 0; i < n; i++ {
		enc.InputIDs[i] = int64(ids[i])
		enc.AttentionMask[i] = 1
	}
	for i := n; i < maxLen; i++ {
		enc.InputIDs[i] = int64(sp.PAD)
	}
	return enc
}
