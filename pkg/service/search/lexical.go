package search

import (
	"sort"
	"strings"

	"github.com/barriolab/vecino/pkg/domain/model"
	"github.com/barriolab/vecino/pkg/domain/types"
)

// stopwords are filler tokens that carry no retrieval signal in the
// colloquial Spanish the bot receives.
var stopwords = map[string]struct{}{
	"hay": {}, "busco": {}, "quiero": {}, "necesito": {}, "me": {},
	"un": {}, "una": {}, "unos": {}, "unas": {},
	"en": {}, "de": {}, "que": {}, "por": {}, "para": {},
	"los": {}, "las": {}, "el": {}, "la": {}, "lo": {},
	"con": {}, "sin": {}, "del": {}, "al": {}, "y": {}, "o": {}, "a": {},
	"es": {}, "si": {}, "no": {},
	"mas": {}, "muy": {}, "bien": {}, "como": {}, "donde": {}, "cerca": {},
	"algun": {}, "alguno": {}, "alguna": {}, "tiene": {}, "tenes": {},
	"ahora": {}, "abierto": {}, "abierta": {}, "abiertos": {}, "abiertas": {},
	"hoy": {}, "buen": {}, "buenas": {}, "buena": {}, "buenos": {},
}

// Field weights. A hit on the name is worth four tag hits; zone is scored
// separately as a flat bonus.
const (
	weightName     = 4.0
	weightCategory = 3.0
	weightRubro    = 3.0
	weightTags     = 1.0
	zoneBonus      = 5.0

	// prefix matches need at least this many characters and count half
	prefixMinLen = 4
	prefixWeight = 0.5
)

// Scorer ranks catalog records against an expanded query with weighted
// substring matching. It is stateless and safe for concurrent use.
type Scorer struct{}

// NewScorer creates a lexical scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score ranks records against the query terms and returns at most
// model.MaxCandidates results, best first. Records scoring zero are
// excluded entirely. Equal scores keep the catalog order, so repeated
// queries over the same catalog return identical lists.
func (s *Scorer) Score(records []*model.Record, query *model.ExpandedQuery, zone types.Zone) []*model.ScoredCandidate {
	if query.IsEmpty() && !zone.IsSet() {
		return nil
	}

	var scored []*model.ScoredCandidate
	for _, rec := range records {
		score := scoreRecord(rec, query.Terms)

		if zone.IsSet() {
			if strings.Contains(Normalize(rec.Zone.String()), Normalize(zone.String())) {
				score += zoneBonus
			}
		}

		if score > 0 {
			scored = append(scored, &model.ScoredCandidate{
				Record: rec,
				Score:  score,
				Open:   types.OpenStateUnknown,
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > model.MaxCandidates {
		scored = scored[:model.MaxCandidates]
	}
	return scored
}

func scoreRecord(rec *model.Record, terms []string) float64 {
	var score float64
	score += scoreField(Normalize(rec.Name), terms, weightName)
	score += scoreField(Normalize(rec.Category), terms, weightCategory)
	score += scoreField(Normalize(rec.Rubro), terms, weightRubro)
	score += scoreField(Normalize(strings.Join(rec.Tags, " ")), terms, weightTags)
	return score
}

// scoreField awards the full weight for a substring hit, and half the weight
// for a prefix hit of a term with at least prefixMinLen characters.
func scoreField(value string, terms []string, weight float64) float64 {
	if value == "" {
		return 0
	}

	var score float64
	words := strings.Fields(value)
	for _, term := range terms {
		if strings.Contains(value, term) {
			score += weight
			continue
		}
		if len(term) >= prefixMinLen {
			for _, w := range words {
				if strings.HasPrefix(w, term) {
					score += weight * prefixWeight
					break
				}
			}
		}
	}
	return score
}
