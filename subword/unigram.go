package subword

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

const (
	wordBoundary = '▁'
	skipPenalty  = 100
)

type unigramPiece struct {
	Piece string
	Score float64
}

func (p *unigramPiece) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) < 2 {
		return fmt.Errorf("vocab entry has %d fields", len(pair))
	}
	if err := json.Unmarshal(pair[0], &p.Piece); err != nil {
		return fmt.Errorf("vocab piece: %w", err)
	}
	if err := json.Unmarshal(pair[1], &p.Score); err != nil {
		return fmt.Errorf("vocab score: %w", err)
	}
	return nil
}

type unigramModel struct {
	Vocab []unigramPiece `json:"vocab"`
	UnkID *int           `json:"unk_id"`
}

type scoredPiece struct {
	id    int
	score float64
}

// Unigram segments text with a Viterbi search over a scored piece vocabulary.
type Unigram struct {
	pieces      map[string]scoredPiece
	special     Special
	lowercase   bool
	maxPieceLen int
}

func newUnigram(tf tokenizerFile, lower bool) (*Unigram, error) {
	var m unigramModel
	if err := json.Unmarshal(tf.Model, &m); err != nil {
		return nil, fmt.Errorf("%w: unigram model: %v", ErrMalformedVocab, err)
	}
	if len(m.Vocab) == 0 {
		return nil, fmt.Errorf("%w: unigram vocab empty", ErrMalformedVocab)
	}
	pieces := make(map[string]scoredPiece, len(m.Vocab))
	ids := make(map[string]int, len(m.Vocab))
	maxLen := 1
	for i, p := range m.Vocab {
		pieces[p.Piece] = scoredPiece{id: i, score: p.Score}
		ids[p.Piece] = i
		maxLen = max(maxLen, utf8.RuneCountInString(p.Piece))
	}
	unk := pickSpecial(ids, tf.AddedTokens, "[UNK]", "<unk>", 0)
	if m.UnkID != nil && *m.UnkID >= 0 {
		unk = *m.UnkID
	}
	return &Unigram{
		pieces: pieces,
		special: Special{
			CLS: pickSpecial(ids, tf.AddedTokens, "[CLS]", "<s>", 1),
			SEP: pickSpecial(ids, tf.AddedTokens, "[SEP]", "</s>", 2),
			PAD: pickSpecial(ids, tf.AddedTokens, "[PAD]", "<pad>", 0),
			UNK: unk,
		},
		lowercase:   lower,
		maxPieceLen: maxLen,
	}, nil
}

// Special returns the resolved special ids.
func (u *Unigram) Special() Special { return u.special }

// Encode implements Encoder.
func (u *Unigram) Encode(text string, maxLen int) Encoded {
	return frame(u.Tokenize(text), u.special, maxLen)
}

// Tokenize returns the unframed content ids of text.
func (u *Unigram) Tokenize(text string) []int {
	return u.segment(sentencePiece(normalizeInput(text, u.lowercase)))
}

// sentencePiece collapses whitespace runs into the word boundary marker and
// prefixes one.
func sentencePiece(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	marker := string(wordBoundary)
	return marker + strings.Join(fields, marker)
}

func (u *Unigram) segment(input string) []int {
	if input == "" {
		return nil
	}
	runes := []rune(input)
	n := len(runes)
	best := make([]float64, n+1)
	prev := make([]int, n+1)
	// piece[j] is the vocabulary piece ending at j, or -1 for a skip.
	piece := make([]int, n+1)
	for i := range best {
		best[i] = math.Inf(-1)
		prev[i] = -1
		piece[i] = -1
	}
	best[0] = 0

	for i := 0; i < n; i++ {
		if math.IsInf(best[i], -1) {
			continue
		}
		matched := false
		end := min(n, i+u.maxPieceLen)
		for j := i + 1; j <= end; j++ {
			p, ok := u.pieces[string(runes[i:j])]
			if !ok {
				continue
			}
			matched = true
			if cand := best[i] + p.score; cand > best[j] {
				best[j] = cand
				prev[j] = i
				piece[j] = p.id
			}
		}
		if !matched {
			if cand := best[i] - skipPenalty; cand > best[i+1] {
				best[i+1] = cand
				prev[i+1] = i
				piece[i+1] = -1
			}
		}
	}

	var rev []int
	for pos := n; pos > 0; {
		p := prev[pos]
		if p < 0 {
			rev = append(rev, u.special.UNK)
			pos--
			continue
		}
		if piece[pos] < 0 {
			rev = append(rev, u.special.UNK)
		} else {
			rev = append(rev, piece[pos])
		}
		pos = p
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}
