package subword

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	defaultMaxInputCharsPerWord = 100
	continuationPrefix          = "##"
	wordPieceDelimiters         = ".,!?;:()[]{}\"'`~@#$%^&*+-=/\\|_<>"
)

type wordPieceModel struct {
	Vocab                map[string]int `json:"vocab"`
	UnkToken             *string        `json:"unk_token"`
	MaxInputCharsPerWord *int           `json:"max_input_chars_per_word"`
}

// WordPiece is a greedy longest-prefix subword tokenizer.
type WordPiece struct {
	vocab        map[string]int
	special      Special
	lowercase    bool
	maxWordChars int
}

func newWordPiece(tf tokenizerFile, lower bool) (*WordPiece, error) {
	var m wordPieceModel
	if err := json.Unmarshal(tf.Model, &m); err != nil {
		return nil, fmt.Errorf("%w: wordpiece model: %v", ErrMalformedVocab, err)
	}
	if len(m.Vocab) == 0 {
		return nil, fmt.Errorf("%w: wordpiece vocab empty", ErrMalformedVocab)
	}
	unk := "[UNK]"
	if m.UnkToken != nil {
		unk = *m.UnkToken
	}
	maxChars := defaultMaxInputCharsPerWord
	if m.MaxInputCharsPerWord != nil {
		maxChars = *m.MaxInputCharsPerWord
	}
	return &WordPiece{
		vocab: m.Vocab,
		special: Special{
			CLS: pickSpecial(m.Vocab, tf.AddedTokens, "[CLS]", "<s>", 101),
			SEP: pickSpecial(m.Vocab, tf.AddedTokens, "[SEP]", "</s>", 102),
			PAD: pickSpecial(m.Vocab, tf.AddedTokens, "[PAD]", "<pad>", 0),
			UNK: pickSpecial(m.Vocab, tf.AddedTokens, unk, "<unk>", 100),
		},
		lowercase:    lower,
		maxWordChars: maxChars,
	}, nil
}

// Special returns the resolved special ids.
func (w *WordPiece) Special() Special { return w.special }

// Encode implements Encoder.
func (w *WordPiece) Encode(text string, maxLen int) Encoded {
	return frame(w.Tokenize(text), w.special, maxLen)
}

// Tokenize returns the unframed content ids of text.
func (w *WordPiece) Tokenize(text string) []int {
	var ids []int
	for _, tok := range basicTokenize(normalizeInput(text, w.lowercase)) {
		ids = append(ids, w.wordPiece(tok)...)
	}
	return ids
}

func isDelimiter(r rune) bool {
	return unicode.IsControl(r) || unicode.In(r, unicode.Zs, unicode.Zl, unicode.Zp) ||
		strings.ContainsRune(wordPieceDelimiters, r)
}

// basicTokenize splits on whitespace and emits each delimiter as its own
// token.
func basicTokenize(s string) []string {
	var out []string
	start := -1
	flush := func(end int) {
		if start >= 0 {
			out = append(out, s[start:end])
			start = -1
		}
	}
	for i, r := range s {
		switch {
		case unicode.IsSpace(r):
			flush(i)
		case isDelimiter(r):
			flush(i)
			out = append(out, string(r))
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(s))
	return out
}

func (w *WordPiece) wordPiece(token string) []int {
	if token == "" {
		return nil
	}
	if utf8.RuneCountInString(token) > w.maxWordChars {
		return []int{w.special.UNK}
	}
	runes := []rune(token)
	var ids []int
	for start := 0; start < len(runes); {
		var (
			id int
			ok bool
		)
		end := len(runes)
		for ; end > start; end-- {
			sub := string(runes[start:end])
			if start > 0 {
				sub = continuationPrefix + sub
			}
			if id, ok = w.vocab[sub]; ok {
				break
			}
		}
		if !ok {
			return []int{w.special.UNK}
		}
		ids = append(ids, id)
		start = end
	}
	return ids
}
