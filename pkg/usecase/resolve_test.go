package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/barriolab/vecino/pkg/domain/interfaces"
	"github.com/barriolab/vecino/pkg/domain/model"
	"github.com/barriolab/vecino/pkg/domain/types"
	"github.com/barriolab/vecino/pkg/usecase"
)

// mockVectorIndex returns canned matches.
type mockVectorIndex struct {
	matches []*interfaces.VectorMatch
	err     error
	calls   int
}

func (m *mockVectorIndex) Search(ctx context.Context, embedding []float64, zone types.Zone, limit int) ([]*interfaces.VectorMatch, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.matches, nil
}

// wedgedVectorIndex never answers until the caller's deadline expires.
type wedgedVectorIndex struct{}

func (m *wedgedVectorIndex) Search(ctx context.Context, embedding []float64, zone types.Zone, limit int) ([]*interfaces.VectorMatch, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestResolveLexicalFallbackWithoutLLM(t *testing.T) {
	uc := newTestUseCases(t)

	got, err := uc.Resolve.Resolve(context.Background(), "quiero pizza", types.ZoneUnknown, nil, time.Now())
	gt.NoError(t, err).Required()
	gt.Array(t, got).Longer(0).Required()
	gt.Value(t, got[0].Record.ID).Equal(model.RecordID("pizzeria-lo-de-tano"))
}

func TestResolveSynonymReachesCategory(t *testing.T) {
	uc := newTestUseCases(t)

	got, err := uc.Resolve.Resolve(context.Background(), "necesito un remedio", types.ZoneUnknown, nil, time.Now())
	gt.NoError(t, err).Required()
	gt.Array(t, got).Longer(0).Required()
	gt.Value(t, got[0].Record.ID).Equal(model.RecordID("farmacia-del-centro"))
}

func TestResolveEmptyQuery(t *testing.T) {
	uc := newTestUseCases(t)

	_, err := uc.Resolve.Resolve(context.Background(), "   ", types.ZoneUnknown, nil, time.Now())
	gt.Error(t, err)
}

func TestResolveZoneDetectedFromText(t *testing.T) {
	uc := newTestUseCases(t)

	// "gonnet" in the text promotes the Gonnet record via the zone bonus
	got, err := uc.Resolve.Resolve(context.Background(), "farmacia en gonnet", types.ZoneUnknown, nil, time.Now())
	gt.NoError(t, err).Required()
	gt.Array(t, got).Longer(0).Required()
	gt.Value(t, got[0].Record.Zone).Equal(types.ZoneGonnet)
}

func TestResolveVectorPath(t *testing.T) {
	index := &mockVectorIndex{
		matches: []*interfaces.VectorMatch{
			{RecordID: "farmacia-del-centro", Similarity: 0.97},
			{RecordID: "deleted-record", Similarity: 0.91},
			{RecordID: "pizzeria-lo-de-tano", Similarity: 0.88},
		},
	}
	uc := newTestUseCases(t,
		usecase.WithLLMClient(&mockLLMClient{}),
		usecase.WithVectorIndex(index))

	got, err := uc.Resolve.Resolve(context.Background(), "antigripal", types.ZoneUnknown, nil, time.Now())
	gt.NoError(t, err).Required()

	// stale index rows are skipped, order follows similarity
	gt.Array(t, got).Length(2).Required()
	gt.Value(t, got[0].Record.ID).Equal(model.RecordID("farmacia-del-centro"))
	gt.Value(t, got[0].Score).Equal(0.97)
	gt.Value(t, got[1].Record.ID).Equal(model.RecordID("pizzeria-lo-de-tano"))
}

func TestResolveVectorFailureFallsBackToLexical(t *testing.T) {
	index := &mockVectorIndex{err: goerr.New("index down")}
	uc := newTestUseCases(t,
		usecase.WithLLMClient(&mockLLMClient{}),
		usecase.WithVectorIndex(index))

	got, err := uc.Resolve.Resolve(context.Background(), "quiero pizza", types.ZoneUnknown, nil, time.Now())
	gt.NoError(t, err).Required()
	gt.Array(t, got).Longer(0).Required()
	gt.Value(t, got[0].Record.ID).Equal(model.RecordID("pizzeria-lo-de-tano"))
}

func TestResolveWedgedVectorBackendFallsBackToLexical(t *testing.T) {
	uc := newTestUseCases(t,
		usecase.WithLLMClient(&mockLLMClient{}),
		usecase.WithVectorIndex(&wedgedVectorIndex{}),
		usecase.WithVectorTimeout(50*time.Millisecond))

	// the deadline cuts the hung backend loose and the lexical scorer
	// still answers the query
	start := time.Now()
	got, err := uc.Resolve.Resolve(context.Background(), "quiero pizza", types.ZoneUnknown, nil, time.Now())
	gt.NoError(t, err).Required()
	gt.Array(t, got).Longer(0).Required()
	gt.Value(t, got[0].Record.ID).Equal(model.RecordID("pizzeria-lo-de-tano"))
	gt.Bool(t, time.Since(start) < 2*time.Second).True()
}

func TestResolveResponseCacheShortCircuits(t *testing.T) {
	llm := &mockLLMClient{}
	index := &mockVectorIndex{
		matches: []*interfaces.VectorMatch{
			{RecordID: "pizzeria-lo-de-tano", Similarity: 0.9},
		},
	}
	uc := newTestUseCases(t,
		usecase.WithLLMClient(llm),
		usecase.WithVectorIndex(index))
	ctx := context.Background()

	_, err := uc.Resolve.Resolve(ctx, "quiero pizza", types.ZoneUnknown, nil, time.Now())
	gt.NoError(t, err).Required()
	gt.Value(t, llm.embedCalls.Load()).Equal(int32(1))
	gt.Value(t, index.calls).Equal(1)

	// accent and case variants share the fingerprint; nothing re-runs
	_, err = uc.Resolve.Resolve(ctx, "QUIERO PIZZA", types.ZoneUnknown, nil, time.Now())
	gt.NoError(t, err).Required()
	_, err = uc.Resolve.Resolve(ctx, "quiero pizza", types.ZoneUnknown, nil, time.Now())
	gt.NoError(t, err).Required()

	gt.Value(t, llm.embedCalls.Load()).Equal(int32(1))
	gt.Value(t, index.calls).Equal(1)

	// a different zone is a different fingerprint, but the embedding cache
	// still avoids a second embedding call for the same expanded text
	_, err = uc.Resolve.Resolve(ctx, "quiero pizza", types.ZoneGonnet, nil, time.Now())
	gt.NoError(t, err).Required()
	gt.Value(t, llm.embedCalls.Load()).Equal(int32(1))
	gt.Value(t, index.calls).Equal(2)
}

func TestResolveDistanceReranking(t *testing.T) {
	uc := newTestUseCases(t)

	// near the pizzeria; the farmacia has no coordinates and keeps its
	// relevance position after ranked candidates
	loc := &model.Location{Latitude: -34.8715, Longitude: -58.0465}
	got, err := uc.Resolve.Resolve(context.Background(), "pizza y remedios", types.ZoneUnknown, loc, time.Now())
	gt.NoError(t, err).Required()
	gt.Array(t, got).Length(2).Required()
	gt.Value(t, got[0].Record.ID).Equal(model.RecordID("pizzeria-lo-de-tano"))
	gt.Value(t, got[0].DistanceKm).NotNil()
	gt.Value(t, got[1].DistanceKm).Nil()
}

func TestResolveOpenStateAnnotation(t *testing.T) {
	uc := newTestUseCases(t)

	got, err := uc.Resolve.Resolve(context.Background(), "pizza", types.ZoneUnknown, nil, time.Now())
	gt.NoError(t, err).Required()
	gt.Array(t, got).Longer(0).Required()
	// the test record is 24hs
	gt.Value(t, got[0].Open).Equal(types.OpenStateOpen)
}
