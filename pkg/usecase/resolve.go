package usecase

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/gollem"

	"github.com/barriolab/vecino/pkg/domain/interfaces"
	"github.com/barriolab/vecino/pkg/domain/model"
	"github.com/barriolab/vecino/pkg/domain/types"
	"github.com/barriolab/vecino/pkg/service/cache"
	"github.com/barriolab/vecino/pkg/service/catalog"
	"github.com/barriolab/vecino/pkg/service/geo"
	"github.com/barriolab/vecino/pkg/service/hours"
	"github.com/barriolab/vecino/pkg/service/search"
	"github.com/barriolab/vecino/pkg/utils/errutil"
	"github.com/barriolab/vecino/pkg/utils/logging"
)

// resolution is one cached retrieval outcome. The answer field starts empty
// and is filled in once composition runs, so a repeated query can skip both
// retrieval and the language model. The response cache hands the same
// pointer to every pipeline hitting the fingerprint, so answer access is
// synchronized.
type resolution struct {
	candidates []*model.ScoredCandidate

	mu     sync.Mutex
	answer string
}

func (r *resolution) composedAnswer() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.answer
}

func (r *resolution) setAnswer(answer string) {
	r.mu.Lock()
	r.answer = answer
	r.mu.Unlock()
}

// ResolveUseCase runs the retrieval pipeline: response cache, embedding
// search with lexical fallback, annotation, and distance re-ranking. The
// vector path is best effort; every failure in it degrades to the lexical
// scorer rather than erroring the query.
type ResolveUseCase struct {
	catalog        *catalog.Store
	scorer         *search.Scorer
	llmClient      gollem.LLMClient
	vectorIndex    interfaces.VectorIndex
	responseCache  *cache.Cache[string, *resolution]
	embeddingCache *cache.Cache[string, []float64]
	relevanceFloor float64
	vectorTimeout  time.Duration
}

// Resolve retrieves and ranks candidates for a query. The zone argument is
// the declared zone; when unset, a zone mentioned inside the query text is
// detected and used instead.
func (r *ResolveUseCase) Resolve(ctx context.Context, query string, zone types.Zone, loc *model.Location, now time.Time) ([]*model.ScoredCandidate, error) {
	res, _, err := r.resolve(ctx, query, zone, loc, now)
	if err != nil {
		return nil, err
	}
	return res.candidates, nil
}

func (r *ResolveUseCase) resolve(ctx context.Context, query string, zone types.Zone, loc *model.Location, now time.Time) (*resolution, string, error) {
	if search.Normalize(query) == "" {
		return nil, "", ErrEmptyQuery
	}

	if !zone.IsSet() {
		zone = types.DetectZone(search.Normalize(query))
	}

	fp := fingerprint(query, zone, loc)
	if cached, ok := r.responseCache.Get(fp); ok {
		logging.From(ctx).Debug("response cache hit", slog.String("fingerprint", fp))
		return cached, fp, nil
	}

	expanded := search.Expand(query)

	candidates := r.vectorSearch(ctx, expanded, zone)
	if len(candidates) == 0 {
		candidates = r.scorer.Score(r.catalog.Records(), expanded, zone)
	}

	for _, cand := range candidates {
		cand.DistanceKm = geo.RecordDistanceKm(loc, cand.Record)
		cand.Open = hours.Evaluate(cand.Record.HoursSpec, now)
	}

	if loc != nil {
		r.sortByDistance(candidates)
	}

	if len(candidates) > model.MaxCandidates {
		candidates = candidates[:model.MaxCandidates]
	}

	logging.From(ctx).Info("query resolved",
		slog.String("query", query),
		slog.String("zone", zone.String()),
		slog.Int("candidates", len(candidates)),
	)

	res := &resolution{candidates: candidates}
	r.responseCache.Set(fp, res)
	return res, fp, nil
}

// storeAnswer attaches a composed answer to an existing cache entry.
func (r *ResolveUseCase) storeAnswer(fp string, res *resolution, answer string) {
	res.setAnswer(answer)
	r.responseCache.Set(fp, res)
}

// vectorSearch runs the embedding path under a deadline. Any failure,
// including the deadline expiring on a wedged backend, is logged and
// reported as an empty result so the caller falls back to lexical scoring.
func (r *ResolveUseCase) vectorSearch(ctx context.Context, query *model.ExpandedQuery, zone types.Zone) []*model.ScoredCandidate {
	if r.llmClient == nil || r.vectorIndex == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.vectorTimeout)
	defer cancel()

	embedding, err := r.embed(ctx, query.Text)
	if err != nil {
		errutil.Handle(ctx, err, "embedding failed, falling back to lexical search")
		return nil
	}

	matches, err := r.vectorIndex.Search(ctx, embedding, zone, model.MaxCandidates)
	if err != nil {
		errutil.Handle(ctx, err, "vector search failed, falling back to lexical search")
		return nil
	}

	var candidates []*model.ScoredCandidate
	for _, m := range matches {
		rec, ok := r.catalog.Get(m.RecordID)
		if !ok {
			// index row for a record no longer in the catalog
			continue
		}
		candidates = append(candidates, &model.ScoredCandidate{
			Record: rec,
			Score:  m.Similarity,
			Open:   types.OpenStateUnknown,
		})
	}
	return candidates
}

func (r *ResolveUseCase) embed(ctx context.Context, text string) ([]float64, error) {
	key := search.Normalize(text)
	if cached, ok := r.embeddingCache.Get(key); ok {
		return cached, nil
	}

	vectors, err := r.llmClient.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, ErrEmptyQuery
	}

	r.embeddingCache.Set(key, vectors[0])
	return vectors[0], nil
}

// sortByDistance re-ranks by proximity among candidates at or above the
// relevance floor. Candidates without a distance, and those below the
// floor, keep their relevance order after the ranked ones.
func (r *ResolveUseCase) sortByDistance(candidates []*model.ScoredCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		aRanked := a.DistanceKm != nil && a.Score >= r.relevanceFloor
		bRanked := b.DistanceKm != nil && b.Score >= r.relevanceFloor
		if aRanked != bRanked {
			return aRanked
		}
		if !aRanked {
			return false
		}
		return *a.DistanceKm < *b.DistanceKm
	})
}

// fingerprint identifies a query for response caching: normalized text,
// declared zone, and the shared location rounded to two decimals (about a
// kilometer), so small GPS jitter still hits the cache.
func fingerprint(query string, zone types.Zone, loc *model.Location) string {
	bucket := "no-loc"
	if loc != nil {
		bucket = fmt.Sprintf("%.2f,%.2f", loc.Latitude, loc.Longitude)
	}
	sum := md5.Sum([]byte(search.Normalize(query) + "|" + zone.String() + "|" + bucket))
	return hex.EncodeToString(sum[:])
}
