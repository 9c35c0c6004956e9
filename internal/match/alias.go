package match

// AliasTable maps normalized short-form names to canonical display
// names, so "chrome" and "Google Chrome" compare as the same identity.
// Lookups are identity-preserving: unknown names map to themselves.
//
// This is the in-memory alias store with recognizable defaults.
// Entries can be extended from an external config file; extension
// never changes lookup semantics.
type AliasTable struct {
	aliases map[string]string
}

// NewAliasTable creates a table preloaded with common short forms.
func NewAliasTable() *AliasTable {
	t := &AliasTable{aliases: make(map[string]string)}

	defaults := map[string]string{
		"chrome":     "google chrome",
		"code":       "visual studio code",
		"vscode":     "visual studio code",
		"vs code":    "visual studio code",
		"word":       "microsoft word",
		"excel":      "microsoft excel",
		"powerpoint": "microsoft powerpoint",
		"outlook":    "microsoft outlook",
		"teams":      "microsoft teams",
		"edge":       "microsoft edge",
		"iterm":      "iterm2",
		"intellij":   "intellij idea",
		"photoshop":  "adobe photoshop",
		"acrobat":    "adobe acrobat",
		"weixin":     "wechat",
	}
	for alias, canonical := range defaults {
		t.Register(alias, canonical)
	}

	return t
}

// NewAliasTableWithEntries creates a table with only the given entries
// (for testing).
func NewAliasTableWithEntries(entries map[string]string) *AliasTable {
	t := &AliasTable{aliases: make(map[string]string)}
	t.Merge(entries)
	return t
}

// Register adds one alias. Both sides are normalized so callers can
// pass display forms like "Chrome" -> "Google Chrome".
func (t *AliasTable) Register(alias, canonical string) {
	a := Normalize(alias)
	c := Normalize(canonical)
	if a == "" || c == "" {
		return
	}
	t.aliases[a] = c
}

// Merge registers every entry from m, overriding existing aliases.
func (t *AliasTable) Merge(m map[string]string) {
	for alias, canonical := range m {
		t.Register(alias, canonical)
	}
}

// Canonical resolves a normalized name through the table, returning
// the input unchanged when no alias is registered.
func (t *AliasTable) Canonical(normalized string) string {
	if canonical, ok := t.aliases[normalized]; ok {
		return canonical
	}
	return normalized
}

// Len returns the number of registered aliases.
func (t *AliasTable) Len() int {
	return len(t.aliases)
}
