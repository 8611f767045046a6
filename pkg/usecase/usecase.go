package usecase

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/barriolab/vecino/pkg/domain/interfaces"
	"github.com/barriolab/vecino/pkg/service/cache"
	"github.com/barriolab/vecino/pkg/service/catalog"
	"github.com/barriolab/vecino/pkg/service/compose"
	"github.com/barriolab/vecino/pkg/service/debounce"
	"github.com/barriolab/vecino/pkg/service/ratelimit"
	"github.com/barriolab/vecino/pkg/service/search"
)

// Engine defaults. All of them can be overridden with options.
const (
	DefaultDebounceWindow = 5 * time.Second
	DefaultRateLimit      = 10
	DefaultRateWindow     = time.Minute
	DefaultLocationTTL    = 24 * time.Hour
	DefaultVectorTimeout  = 5 * time.Second

	ResponseCacheSize  = 2000
	ResponseCacheTTL   = 5 * time.Minute
	EmbeddingCacheSize = 2000
)

type UseCases struct {
	repo        interfaces.Repository
	catalog     *catalog.Store
	llmClient   gollem.LLMClient
	vectorIndex interfaces.VectorIndex
	responder   interfaces.Responder

	debounceWindow time.Duration
	rateLimit      int
	rateWindow     time.Duration
	relevanceFloor float64
	locationTTL    time.Duration
	vectorTimeout  time.Duration
	now            func() time.Time

	limiter   *ratelimit.Limiter
	debouncer *debounce.Coordinator

	History *HistoryUseCase
	Resolve *ResolveUseCase
	Turn    *TurnUseCase
}

type Option func(*UseCases)

// WithLLMClient enables embedding-based retrieval and answer composition.
func WithLLMClient(client gollem.LLMClient) Option {
	return func(uc *UseCases) {
		uc.llmClient = client
	}
}

// WithVectorIndex enables the remote similarity search path.
func WithVectorIndex(index interfaces.VectorIndex) Option {
	return func(uc *UseCases) {
		uc.vectorIndex = index
	}
}

// WithResponder sets the delivery target for debounced turn results.
func WithResponder(responder interfaces.Responder) Option {
	return func(uc *UseCases) {
		uc.responder = responder
	}
}

// WithDebounceWindow overrides the quiet window for message coalescing.
func WithDebounceWindow(window time.Duration) Option {
	return func(uc *UseCases) {
		uc.debounceWindow = window
	}
}

// WithRateLimit overrides the per-user sliding window quota.
func WithRateLimit(limit int, window time.Duration) Option {
	return func(uc *UseCases) {
		uc.rateLimit = limit
		uc.rateWindow = window
	}
}

// WithVectorTimeout bounds the remote embedding and vector-search calls of a
// single query. On expiry the query falls back to lexical scoring.
func WithVectorTimeout(timeout time.Duration) Option {
	return func(uc *UseCases) {
		uc.vectorTimeout = timeout
	}
}

// WithRelevanceFloor sets the minimum score a candidate needs to take part
// in distance re-ranking.
func WithRelevanceFloor(floor float64) Option {
	return func(uc *UseCases) {
		uc.relevanceFloor = floor
	}
}

// WithClock replaces the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, store *catalog.Store, opts ...Option) (*UseCases, error) {
	if repo == nil {
		return nil, goerr.New("repository is required")
	}
	if store == nil {
		return nil, goerr.New("catalog is required")
	}

	uc := &UseCases{
		repo:           repo,
		catalog:        store,
		debounceWindow: DefaultDebounceWindow,
		rateLimit:      DefaultRateLimit,
		rateWindow:     DefaultRateWindow,
		locationTTL:    DefaultLocationTTL,
		vectorTimeout:  DefaultVectorTimeout,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	responseCache, err := cache.New[string, *resolution](ResponseCacheSize, ResponseCacheTTL,
		cache.WithClock[string, *resolution](uc.now))
	if err != nil {
		return nil, err
	}
	embeddingCache, err := cache.New[string, []float64](EmbeddingCacheSize, 0)
	if err != nil {
		return nil, err
	}

	var composer *compose.Composer
	if uc.llmClient != nil {
		composer, err = compose.New(uc.llmClient)
		if err != nil {
			return nil, err
		}
	}

	uc.limiter = ratelimit.New(uc.rateLimit, uc.rateWindow, ratelimit.WithClock(uc.now))

	uc.History = NewHistoryUseCase(repo)
	uc.Resolve = &ResolveUseCase{
		catalog:        store,
		scorer:         search.NewScorer(),
		llmClient:      uc.llmClient,
		vectorIndex:    uc.vectorIndex,
		responseCache:  responseCache,
		embeddingCache: embeddingCache,
		relevanceFloor: uc.relevanceFloor,
		vectorTimeout:  uc.vectorTimeout,
	}
	uc.Turn = &TurnUseCase{
		repo:        repo,
		resolve:     uc.Resolve,
		history:     uc.History,
		composer:    composer,
		responder:   uc.responder,
		limiter:     uc.limiter,
		locationTTL: uc.locationTTL,
		now:         uc.now,
	}
	uc.debouncer = debounce.New(uc.debounceWindow, uc.Turn.fire)
	uc.Turn.debouncer = uc.debouncer

	return uc, nil
}

// Limiter exposes the rate limiter for the maintenance worker.
func (u *UseCases) Limiter() *ratelimit.Limiter {
	return u.limiter
}

// ResponseCacheSweeper exposes the response cache sweep for the worker.
func (u *UseCases) ResponseCacheSweeper() interface{ Sweep() int } {
	return u.Resolve.responseCache
}

// Close stops the debouncer; pending turns are dropped.
func (u *UseCases) Close() {
	u.debouncer.Close()
}
