package subword

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// HF delegates segmentation to the sugarme tokenizer pipeline and keeps the
// same CLS/SEP/PAD framing as the builtin tokenizers.
type HF struct {
	mu      sync.Mutex
	tk      *tokenizer.Tokenizer
	special Special
}

// NewHF loads a tokenizer.json through sugarme/tokenizer. Only WordPiece and
// Unigram models are accepted so the framing ids resolve the same way.
func NewHF(path string) (*HF, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tokenizer %s: %w", path, err)
	}
	var tf tokenizerFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedVocab, err)
	}
	var head modelHeader
	if err := json.Unmarshal(tf.Model, &head); err != nil {
		return nil, fmt.Errorf("%w: model: %v", ErrMalformedVocab, err)
	}

	var fallback Special
	unk := "[UNK]"
	switch {
	case strings.EqualFold(head.Type, "WordPiece"):
		fallback = Special{CLS: 101, SEP: 102, PAD: 0, UNK: 100}
		var m wordPieceModel
		if err := json.Unmarshal(tf.Model, &m); err != nil {
			return nil, fmt.Errorf("%w: wordpiece model: %v", ErrMalformedVocab, err)
		}
		if m.UnkToken != nil {
			unk = *m.UnkToken
		}
	case strings.EqualFold(head.Type, "Unigram"):
		fallback = Special{CLS: 1, SEP: 2, PAD: 0, UNK: 0}
	default:
		return nil, fmt.Errorf("%w: model.type=%q", ErrUnsupportedModel, head.Type)
	}

	tk, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %s: %w", path, err)
	}
	vocab := tk.GetVocab(true)
	sp := Special{
		CLS: pickSpecial(vocab, tf.AddedTokens, "[CLS]", "<s>", fallback.CLS),
		SEP: pickSpecial(vocab, tf.AddedTokens, "[SEP]", "</s>", fallback.SEP),
		PAD: pickSpecial(vocab, tf.AddedTokens, "[PAD]", "<pad>", fallback.PAD),
		UNK: pickSpecial(vocab, tf.AddedTokens, unk, "<unk>", fallback.UNK),
	}
	return &HF{tk: tk, special: sp}, nil
}

// Special returns the resolved special ids.
func (h *HF) Special() Special { return h.special }

// Encode implements Encoder. A segmentation failure yields an empty content
// sequence.
func (h *HF) Encode(text string, maxLen int) Encoded {
	h.mu.Lock()
	en, err := h.tk.EncodeSingle(text, false)
	h.mu.Unlock()
	if err != nil || en == nil {
		return frame(nil, h.special, maxLen)
	}
	return frame(en.Ids, h.special, maxLen)
}

// Open returns the builtin tokenizer, or the sugarme backed one when backend
// is "hf".
func Open(path, backend string) (Encoder, error) {
	if strings.EqualFold(backend, "hf") {
		return NewHF(path)
	}
	return Load(path)
}
