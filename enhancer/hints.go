package enhancer

import (
	"sync"

	"yashubustudio/launchersearch/textnorm"
)

// ConversionHints holds alternate spellings offered by the host for a
// query. Each entry is consumed by the first search for that query.
type ConversionHints struct {
	m sync.Map
}

// Put stores the normalized conversions of query, dropping empties and the
// query itself. Nothing is stored when no conversion survives.
func (h *ConversionHints) Put(query string, conversions []string) bool {
	q := textnorm.Normalize(query)
	if q == "" || len(conversions) == 0 {
		return false
	}
	list := make([]string, 0, len(conversions))
	for _, c := range conversions {
		if n := textnorm.Normalize(c); n != "" && n != q {
			list = append(list, n)
		}
	}
	if len(list) == 0 {
		return false
	}
	h.m.Store(q, list)
	return true
}

// Take removes and returns the conversions stored for a normalized query.
func (h *ConversionHints) Take(normalizedQuery string) ([]string, bool) {
	v, ok := h.m.LoadAndDelete(normalizedQuery)
	if !ok {
		return nil, false
	}
	list, _ := v.([]string)
	return list, true
}
