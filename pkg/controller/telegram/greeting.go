package telegram

import (
	"sort"
	"strings"

	"github.com/barriolab/vecino/pkg/service/search"
)

// greetings answered without touching retrieval or the LLM.
var greetings = map[string]struct{}{
	"hola": {}, "buenas": {}, "buen dia": {}, "buen día": {},
	"holis": {}, "hola vecinito": {}, "que tal": {}, "qué tal": {},
	"buenas tardes": {}, "buenas noches": {}, "buenos dias": {},
	"buenos días": {}, "hey": {},
}

func isGreeting(text string) bool {
	clean := strings.TrimRight(strings.TrimSpace(strings.ToLower(text)), "!. ")
	if _, ok := greetings[clean]; ok {
		return true
	}
	_, ok := greetings[collapseRepeats(clean)]
	return ok
}

// collapseRepeats squashes runs of three or more identical runes down to
// one, so stretched greetings like "holaaaa" still match "hola". Double
// letters stay untouched.
func collapseRepeats(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	for i := 0; i < len(runes); {
		j := i
		for j < len(runes) && runes[j] == runes[i] {
			j++
		}
		if j-i >= 3 {
			sb.WriteRune(runes[i])
		} else {
			for k := i; k < j; k++ {
				sb.WriteRune(runes[k])
			}
		}
		i = j
	}
	return sb.String()
}

// intentWords signal a search even without a recognizable category term.
var intentWords = map[string]struct{}{
	"quiero": {}, "necesito": {}, "busco": {}, "buscando": {}, "hay": {},
	"donde": {}, "cual": {}, "alguna": {}, "alguno": {}, "recomienda": {},
	"recomendame": {}, "recomendas": {}, "cerca": {}, "abierta": {},
	"abierto": {}, "urgente": {}, "conseguir": {}, "encontrar": {},
	"preciso": {},
}

// greetingsByLength is used to strip a leading greeting before checking
// what remains. Longest first so "buenas tardes" wins over "buenas".
var greetingsByLength = func() []string {
	out := make([]string, 0, len(greetings))
	for g := range greetings {
		out = append(out, search.Normalize(g))
	}
	sort.Slice(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}()

// hasSearchIntent reports whether a message asks for something beyond a
// bare greeting. "hola quiero pizza" is a search; "hola" is not.
func hasSearchIntent(text string) bool {
	clean := search.Normalize(text)
	for _, g := range greetingsByLength {
		if strings.HasPrefix(clean, g) {
			clean = strings.Trim(clean[len(g):], " ,!.")
			break
		}
	}

	if len(clean) < 3 {
		return false
	}

	words := strings.Fields(clean)
	for _, w := range words {
		if search.IsCategoryTerm(w) || search.HasCategoryPrefix(w) {
			return true
		}
	}
	for _, w := range words {
		if _, ok := intentWords[w]; ok {
			return true
		}
	}
	return len(words) >= 3
}
