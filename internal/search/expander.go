package search

// Expander widens query terms with synonyms and substring-prefix
// fallbacks for the second-phase candidate scan.
type Expander struct {
	synonyms map[string][]string
}

// NewExpander builds an expander over the given synonym table. A nil
// or empty table falls back to the built-in one.
func NewExpander(synonyms map[string][]string) *Expander {
	if len(synonyms) == 0 {
		synonyms = DefaultSynonyms()
	}
	return &Expander{synonyms: synonyms}
}

// Expand returns the terms plus their synonyms, deduplicated in
// first-seen order. Original terms always precede their synonyms.
func (e *Expander) Expand(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))

	for _, t := range terms {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			out = append(out, t)
		}
		for _, syn := range e.synonyms[t] {
			if _, ok := seen[syn]; !ok {
				seen[syn] = struct{}{}
				out = append(out, syn)
			}
		}
	}
	return out
}

// LikeNeedles returns the expanded terms plus a three-character
// prefix for each term long enough to have one. Prefixes loosen the
// fallback scan so near-misses still surface as candidates.
func (e *Expander) LikeNeedles(expanded []string) []string {
	out := make([]string, 0, len(expanded)*2)
	seen := make(map[string]struct{}, len(expanded)*2)

	for _, t := range expanded {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			out = append(out, t)
		}
		if len(t) >= 3 {
			short := t[:3]
			if _, ok := seen[short]; !ok {
				seen[short] = struct{}{}
				out = append(out, short)
			}
		}
	}
	return out
}
