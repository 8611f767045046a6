package search

import (
	"sort"
	"strings"

	"github.com/barriolab/vecino/pkg/domain/model"
)

// Expand applies the synonym table to the raw query. Each extra term is
// appended once, after the original text, in sorted order so the expansion
// is deterministic for cache fingerprinting. The original wording always
// survives intact at the front of Text.
func Expand(query string) *model.ExpandedQuery {
	extras := map[string]struct{}{}
	for _, tok := range Tokens(query) {
		for _, syn := range synonyms[tok] {
			extras[Normalize(syn)] = struct{}{}
		}
	}

	text := query
	if len(extras) > 0 {
		added := make([]string, 0, len(extras))
		for s := range extras {
			added = append(added, s)
		}
		sort.Strings(added)
		text = query + " " + strings.Join(added, " ")
	}

	return &model.ExpandedQuery{
		Original: query,
		Text:     text,
		Terms:    Keywords(text),
	}
}

// Keywords normalizes and tokenizes the text, dropping stopwords and tokens
// of two characters or fewer. Duplicates are removed; the first occurrence
// keeps its position.
func Keywords(text string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, tok := range Tokens(text) {
		if len(tok) <= 2 {
			continue
		}
		if _, ok := stopwords[tok]; ok {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
