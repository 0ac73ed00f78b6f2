package app

import (
	"fmt"

	"yashubustudio/launchersearch/lexical"
)

// ResultRow is one line of the result list.
type ResultRow struct {
	Title   string
	Package string
	Score   int
}

func (r ResultRow) String() string {
	if r.Package == "" {
		return r.Title
	}
	return fmt.Sprintf("%s  (%s)", r.Title, r.Package)
}

func rowsFrom(ranked []lexical.Scored) []ResultRow {
	rows := make([]ResultRow, 0, len(ranked))
	for _, s := range ranked {
		if s.Candidate == nil {
			continue
		}
		rows = append(rows, ResultRow{
			Title:   s.Candidate.Title(),
			Package: s.Candidate.PackageIdentifier(),
			Score:   s.Score,
		})
	}
	return rows
}
