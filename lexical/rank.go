package lexical

import "sort"

// DefaultLimit caps ranked results when Ranker.Limit is unset.
const DefaultLimit = 5

// Scored is a candidate that matched at least one variant.
type Scored struct {
	Candidate Candidate
	Score     int
	NormTitle string
	NormPkg   string
}

// Ranker orders candidates against a variant set.
type Ranker struct {
	// Limit caps the result size. Zero means DefaultLimit, negative means
	// unlimited.
	Limit int
}

// Rank scores candidates and returns the best matches. Candidates sharing a
// non-empty identity key are scored once, first occurrence wins. Ties break
// on normalized title, then normalized package.
func (r Ranker) Rank(variants *VariantSet, candidates []Candidate) []Scored {
	if variants.Len() == 0 || len(candidates) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(candidates))
	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if key := c.IdentityKey(); key != "" {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		f := FormsOf(c)
		best := ScoreVariants(variants, f)
		if best <= 0 {
			continue
		}
		scored = append(scored, Scored{Candidate: c, Score: best, NormTitle: f.TitleNorm, NormPkg: f.PkgNorm})
	}

	SortScored(scored)

	limit := r.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// SortScored orders by score desc, normalized title asc, normalized package asc.
func SortScored(scored []Scored) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.NormTitle != b.NormTitle {
			return a.NormTitle < b.NormTitle
		}
		return a.NormPkg < b.NormPkg
	})
}

// Candidates strips the scores.
func Candidates(scored []Scored) []Candidate {
	out := make([]Candidate, len(scored))
	for i, s := range scored {
		out[i] = s.Candidate
	}
	return out
}
