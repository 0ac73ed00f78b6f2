package catalog

import (
	"slices"
	"sync/atomic"
)

// ColumnCandidates lists header names recognized when auto-detecting CSV/TSV
// columns. Matching is case-insensitive.
type ColumnCandidates struct {
	Title   []string `json:"title" toml:"title"`
	Package []string `json:"package" toml:"package"`
	Key     []string `json:"key" toml:"key"`
}

var builtinColumns = ColumnCandidates{
	Title:   []string{"title", "label", "name", "app", "アプリ", "名称", "이름", "앱"},
	Package: []string{"package", "packagename", "package_name", "pkg", "bundle", "パッケージ", "패키지"},
	Key:     []string{"key", "component", "id", "identity"},
}

// activeColumns is replaced wholesale; stored values are never mutated.
var activeColumns atomic.Pointer[ColumnCandidates]

// DefaultColumnCandidates returns a copy of the built-in names.
func DefaultColumnCandidates() ColumnCandidates {
	return ColumnCandidates{
		Title:   slices.Clone(builtinColumns.Title),
		Package: slices.Clone(builtinColumns.Package),
		Key:     slices.Clone(builtinColumns.Key),
	}
}

// SetColumnCandidates replaces the detection names. A nil field keeps the
// built-in list; an empty one disables detection for that field.
func SetColumnCandidates(c ColumnCandidates) {
	merged := ColumnCandidates{
		Title:   orBuiltin(c.Title, builtinColumns.Title),
		Package: orBuiltin(c.Package, builtinColumns.Package),
		Key:     orBuiltin(c.Key, builtinColumns.Key),
	}
	activeColumns.Store(&merged)
}

func currentColumns() ColumnCandidates {
	if c := activeColumns.Load(); c != nil {
		return *c
	}
	return builtinColumns
}

func orBuiltin(custom, builtin []string) []string {
	if custom == nil {
		return builtin
	}
	return slices.Clone(custom)
}
