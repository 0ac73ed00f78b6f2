// Package lexical expands launcher queries into cross-script variants, scores
// catalog entries against them and ranks the matches.
package lexical

// Candidate is the read-only view of a catalog entry that the engine needs.
// Implementations are supplied by the host binding; the engine only reads and
// reorders them.
type Candidate interface {
	Title() string
	PackageIdentifier() string
	// IdentityKey deduplicates entries that refer to the same component. An
	// empty key never deduplicates.
	IdentityKey() string
}

// App is a plain catalog entry.
type App struct {
	Name    string `json:"title"`
	Package string `json:"package"`
	Key     string `json:"key,omitempty"`
}

// Title returns the display label.
func (a App) Title() string { return a.Name }

// PackageIdentifier returns the package name.
func (a App) PackageIdentifier() string { return a.Package }

// IdentityKey returns Key, or the package name when Key is empty.
func (a App) IdentityKey() string {
	if a.Key != "" {
		return a.Key
	}
	return a.Package
}

// Apps converts a slice of App into candidates.
func Apps(apps []App) []Candidate {
	out := make([]Candidate, len(apps))
	for i, a := range apps {
		out[i] = a
	}
	return out
}
