package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	"github.com/barriolab/vecino/pkg/domain/interfaces"
	"github.com/barriolab/vecino/pkg/domain/model"
	"github.com/barriolab/vecino/pkg/domain/types"
	"github.com/barriolab/vecino/pkg/repository/memory"
	"github.com/barriolab/vecino/pkg/service/catalog"
	"github.com/barriolab/vecino/pkg/usecase"
)

// mockLLMSession is a mock gollem Session for testing
type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{"Dale, te paso las opciones 👇"}}, nil
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, _ ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, _ ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return s.GenerateStream(ctx, input...)
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	newSessionFn  func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
	embedFn       func(ctx context.Context, dimension int, input []string) ([][]float64, error)
	embedCalls    atomic.Int32
	generateCalls atomic.Int32
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	c.generateCalls.Add(1)
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	c.embedCalls.Add(1)
	if c.embedFn != nil {
		return c.embedFn(ctx, dimension, input)
	}
	vec := make([]float64, dimension)
	vec[0] = 1
	return [][]float64{vec}, nil
}

// mockResponder collects delivered turn results.
type mockResponder struct {
	mu      sync.Mutex
	results []*model.TurnResult
	done    chan struct{}
}

func newMockResponder() *mockResponder {
	return &mockResponder{done: make(chan struct{}, 16)}
}

func (r *mockResponder) Deliver(ctx context.Context, result *model.TurnResult) error {
	r.mu.Lock()
	r.results = append(r.results, result)
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func (r *mockResponder) wait(t *testing.T) *model.TurnResult {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results[len(r.results)-1]
}

func testCatalog(t *testing.T) *catalog.Store {
	t.Helper()
	lat, lon := -34.8715, -58.0465
	store, err := catalog.New([]*model.Record{
		{
			ID:        "pizzeria-lo-de-tano",
			Name:      "Lo de Tano",
			Kind:      types.KindBusiness,
			Zone:      types.ZoneCityBell,
			Category:  "Pizzería",
			Address:   "Cantilo 123",
			HoursSpec: "24hs",
			Contact:   "+54 221 555-0001",
			Tags:      []string{"pizza", "empanadas"},
			Latitude:  &lat,
			Longitude: &lon,
		},
		{
			ID:       "farmacia-del-centro",
			Name:     "Farmacia del Centro",
			Kind:     types.KindBusiness,
			Zone:     types.ZoneGonnet,
			Category: "Farmacia",
			Tags:     []string{"medicamentos"},
		},
	})
	gt.NoError(t, err).Required()
	return store
}

func newTestUseCases(t *testing.T, opts ...usecase.Option) *usecase.UseCases {
	t.Helper()
	uc, err := usecase.New(memory.New(), testCatalog(t), opts...)
	gt.NoError(t, err).Required()
	t.Cleanup(uc.Close)
	return uc
}

func TestSubmitValidation(t *testing.T) {
	uc := newTestUseCases(t)
	ctx := context.Background()

	_, err := uc.Turn.Submit(ctx, &model.TurnInput{UserID: "", Text: "hola"})
	gt.Error(t, err)

	_, err = uc.Turn.Submit(ctx, &model.TurnInput{UserID: "u", Text: "   "})
	gt.Error(t, err)
}

func TestSubmitRateLimited(t *testing.T) {
	uc := newTestUseCases(t,
		usecase.WithDebounceWindow(time.Hour),
		usecase.WithRateLimit(3, time.Minute))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ack, err := uc.Turn.Submit(ctx, &model.TurnInput{UserID: "u", Text: "pizza"})
		gt.NoError(t, err).Required()
		gt.Value(t, ack.Reason).Equal(types.ReasonAccepted)
	}

	ack, err := uc.Turn.Submit(ctx, &model.TurnInput{UserID: "u", Text: "pizza"})
	gt.NoError(t, err).Required()
	gt.Value(t, ack.Reason).Equal(types.ReasonRateLimited)

	// another user is unaffected
	ack, err = uc.Turn.Submit(ctx, &model.TurnInput{UserID: "v", Text: "pizza"})
	gt.NoError(t, err).Required()
	gt.Value(t, ack.Reason).Equal(types.ReasonAccepted)
}

func TestSubmitCoalescesBurst(t *testing.T) {
	responder := newMockResponder()
	llm := &mockLLMClient{}
	uc := newTestUseCases(t,
		usecase.WithDebounceWindow(30*time.Millisecond),
		usecase.WithLLMClient(llm),
		usecase.WithResponder(responder))
	ctx := context.Background()

	for _, text := range []string{"quiero", "una", "pizza grande"} {
		_, err := uc.Turn.Submit(ctx, &model.TurnInput{UserID: "u", Text: text})
		gt.NoError(t, err).Required()
	}

	result := responder.wait(t)
	gt.Value(t, result.UserID).Equal(types.UserID("u"))
	gt.Value(t, result.Query).Equal("pizza grande")
	gt.Array(t, result.Candidates).Longer(0).Required()
	gt.Value(t, result.Candidates[0].Record.ID).Equal(model.RecordID("pizzeria-lo-de-tano"))
	gt.Value(t, result.Answer).Equal("Dale, te paso las opciones 👇")

	// exactly one composition for the burst
	gt.Value(t, llm.generateCalls.Load()).Equal(int32(1))
}

func TestTurnNoMatches(t *testing.T) {
	responder := newMockResponder()
	uc := newTestUseCases(t,
		usecase.WithDebounceWindow(10*time.Millisecond),
		usecase.WithResponder(responder))

	_, err := uc.Turn.Submit(context.Background(), &model.TurnInput{UserID: "u", Text: "paracaidismo"})
	gt.NoError(t, err).Required()

	result := responder.wait(t)
	gt.Value(t, result.Reason).Equal(types.ReasonNoMatches)
	gt.Array(t, result.Candidates).Length(0)
}

func TestAssistantEchoEnablesRefinement(t *testing.T) {
	responder := newMockResponder()
	uc := newTestUseCases(t,
		usecase.WithDebounceWindow(10*time.Millisecond),
		usecase.WithLLMClient(&mockLLMClient{}),
		usecase.WithResponder(responder))
	ctx := context.Background()

	_, err := uc.Turn.Submit(ctx, &model.TurnInput{UserID: "u", Text: "quiero pizza"})
	gt.NoError(t, err).Required()
	first := responder.wait(t)
	gt.Array(t, first.Candidates).Longer(0)

	// short qualifier without a category keyword refines the last search
	_, err = uc.Turn.Submit(ctx, &model.TurnInput{UserID: "u", Text: "algo barato"})
	gt.NoError(t, err).Required()
	second := responder.wait(t)

	gt.Value(t, second.Query).Equal("quiero pizza algo barato")
	gt.Array(t, second.Candidates).Longer(0).Required()
	gt.Value(t, second.Candidates[0].Record.ID).Equal(model.RecordID("pizzeria-lo-de-tano"))

	// both user messages and the assistant echo are in history
	entries, err := uc.History.Visible(ctx, "u", time.Now())
	gt.NoError(t, err).Required()
	roles := []types.Role{}
	for _, e := range entries {
		roles = append(roles, e.Role)
	}
	gt.Array(t, roles).Equal([]types.Role{
		types.RoleUser, types.RoleAssistant,
		types.RoleUser, types.RoleAssistant,
	})
}

func TestProcessNowStoresLocationAndRanksByDistance(t *testing.T) {
	uc := newTestUseCases(t, usecase.WithLLMClient(&mockLLMClient{}))
	ctx := context.Background()

	loc := &model.Location{Latitude: -34.8716, Longitude: -58.0466}
	result, err := uc.Turn.ProcessNow(ctx, &model.TurnInput{
		UserID:   "u",
		Text:     "pizza",
		Location: loc,
	})
	gt.NoError(t, err).Required()
	gt.Array(t, result.Candidates).Longer(0).Required()
	gt.Value(t, result.Candidates[0].DistanceKm).NotNil()
	gt.Number(t, *result.Candidates[0].DistanceKm).Less(0.1)
}

func TestProcessNowConcurrentSameQuery(t *testing.T) {
	uc := newTestUseCases(t, usecase.WithLLMClient(&mockLLMClient{}))
	ctx := context.Background()

	// every call shares one fingerprint, so all pipelines touch the same
	// cached resolution while composing and reusing the answer
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			userID := types.UserID(fmt.Sprintf("user-%d", n))
			result, err := uc.Turn.ProcessNow(ctx, &model.TurnInput{UserID: userID, Text: "quiero pizza"})
			if err != nil {
				t.Error(err)
				return
			}
			if result.Answer == "" {
				t.Error("expected a composed answer")
			}
		}(i)
	}
	wg.Wait()
}

func TestHistoryReset(t *testing.T) {
	uc := newTestUseCases(t)
	ctx := context.Background()

	_, err := uc.History.Append(ctx, "u", types.RoleUser, "hola", time.Now())
	gt.NoError(t, err).Required()
	gt.NoError(t, uc.History.Reset(ctx, "u")).Required()

	entries, err := uc.History.Visible(ctx, "u", time.Now())
	gt.NoError(t, err).Required()
	gt.Array(t, entries).Length(0)
}

func TestVisibleWindowExcludesOldEntries(t *testing.T) {
	uc := newTestUseCases(t)
	ctx := context.Background()
	now := time.Now()

	_, err := uc.History.Append(ctx, "u", types.RoleUser, "viejo", now.Add(-2*time.Hour))
	gt.NoError(t, err).Required()
	_, err = uc.History.Append(ctx, "u", types.RoleUser, "reciente", now.Add(-10*time.Minute))
	gt.NoError(t, err).Required()

	entries, err := uc.History.Visible(ctx, "u", now)
	gt.NoError(t, err).Required()
	gt.Array(t, entries).Length(1).Required()
	gt.Value(t, entries[0].Text).Equal("reciente")
}

var _ interfaces.Responder = &mockResponder{}
