package lexical

import "yashubustudio/launchersearch/textnorm"

// VariantSet is an insertion-ordered set of normalized query strings. It never
// holds the empty string.
type VariantSet struct {
	order []string
	seen  map[string]struct{}
}

// NewVariantSet returns an empty set.
func NewVariantSet() *VariantSet {
	return &VariantSet{seen: make(map[string]struct{})}
}

// Add appends v unless it is empty or already present. It reports whether v
// was added.
func (s *VariantSet) Add(v string) bool {
	if v == "" {
		return false
	}
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.order = append(s.order, v)
	return true
}

// Merge adds every variant of other in its order.
func (s *VariantSet) Merge(other *VariantSet) {
	if other == nil {
		return
	}
	for _, v := range other.order {
		s.Add(v)
	}
}

// Contains reports membership.
func (s *VariantSet) Contains(v string) bool {
	if s == nil {
		return false
	}
	_, ok := s.seen[v]
	return ok
}

// Len returns the number of variants.
func (s *VariantSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Values returns a copy of the variants in insertion order.
func (s *VariantSet) Values() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// BuildVariants expands raw into its normalized cross-script forms. The plain
// normalized query always comes first; an empty query yields an empty set.
func BuildVariants(raw string) *VariantSet {
	v := NewVariantSet()
	q := textnorm.Normalize(raw)
	if q == "" {
		return v
	}
	v.Add(q)

	hira := textnorm.Normalize(textnorm.ToHiragana(q))
	kata := textnorm.Normalize(textnorm.ToKatakana(q))
	v.Add(hira)
	v.Add(kata)
	v.Add(textnorm.Normalize(textnorm.KanaLoose(q)))
	v.Add(textnorm.Normalize(textnorm.KanaLoose(hira)))
	v.Add(textnorm.Normalize(textnorm.KanaLoose(kata)))

	v.Add(textnorm.Normalize(textnorm.ToLatinASCII(q)))

	if textnorm.IsMostlyLatin(q) {
		if fromLatin := textnorm.Normalize(textnorm.RomajiToKatakana(q)); fromLatin != "" {
			v.Add(fromLatin)
			v.Add(textnorm.Normalize(textnorm.ToHiragana(fromLatin)))
			v.Add(textnorm.Normalize(textnorm.KanaLoose(fromLatin)))
		}
	}

	if textnorm.IsLikelyKana(q) {
		v.Add(textnorm.Normalize(textnorm.ToLatinASCII(q)))
	}

	v.Add(textnorm.Normalize(textnorm.ToChoseongQuery(q)))
	v.Add(textnorm.Normalize(textnorm.DecomposeHangulToJamo(q)))
	return v
}

// BuildVariantsWith expands raw and every alternate spelling, unioning the
// results after the variants of raw.
func BuildVariantsWith(raw string, alternates []string) *VariantSet {
	v := BuildVariants(raw)
	if v.Len() == 0 {
		return v
	}
	for _, alt := range alternates {
		v.Merge(BuildVariants(alt))
	}
	return v
}
