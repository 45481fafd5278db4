package search

// DefaultSynonyms maps a query term to related terms worth matching
// alongside it. Expansion widens recall only; the original terms keep
// their ranking weight.
func DefaultSynonyms() map[string][]string {
	return map[string][]string{
		"server":     {"servers", "srv", "instance", "world"},
		"servers":    {"server", "srv", "instance", "world"},
		"atlauncher": {"atlauncher", "launcher"},
	}
}
