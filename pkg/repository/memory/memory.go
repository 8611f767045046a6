package memory

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/m-mizutani/goerr/v2"

	"github.com/barriolab/vecino/pkg/domain/interfaces"
	"github.com/barriolab/vecino/pkg/domain/model"
	"github.com/barriolab/vecino/pkg/domain/types"
)

// MaxUsers bounds how many users' state is held when running without a
// durable store. Least recently active users are evicted first.
const MaxUsers = 500

type userState struct {
	entries      []*model.ConversationEntry
	location     *model.Location
	locExpiresAt time.Time
}

// Repository is the in-memory implementation of interfaces.Repository.
// It backs tests and acts as the degraded-mode store when the durable
// backend is unreachable.
type Repository struct {
	mu    sync.Mutex
	users *lru.Cache[types.UserID, *userState]
	now   func() time.Time
}

var _ interfaces.Repository = &Repository{}

// New creates an empty in-memory repository.
func New() *Repository {
	users, err := lru.New[types.UserID, *userState](MaxUsers)
	if err != nil {
		// lru.New only fails on a non-positive size
		panic(goerr.Wrap(err, "failed to create user LRU"))
	}
	return &Repository{
		users: users,
		now:   time.Now,
	}
}

// SetClock replaces the time source for tests.
func (r *Repository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *Repository) History() interfaces.HistoryRepository {
	return &historyRepository{repo: r}
}

func (r *Repository) Location() interfaces.LocationRepository {
	return &locationRepository{repo: r}
}

func (r *Repository) Close() error {
	return nil
}

// state returns the user's state, creating it when absent. Caller must hold
// the lock.
func (r *Repository) state(userID types.UserID) *userState {
	if s, ok := r.users.Get(userID); ok {
		return s
	}
	s := &userState{}
	r.users.Add(userID, s)
	return s
}

type historyRepository struct {
	repo *Repository
}

func (h *historyRepository) Append(ctx context.Context, userID types.UserID, entry *model.ConversationEntry) error {
	if err := userID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user ID")
	}
	if entry == nil {
		return goerr.New("entry is required")
	}

	h.repo.mu.Lock()
	defer h.repo.mu.Unlock()

	s := h.repo.state(userID)
	copied := *entry
	s.entries = append(s.entries, &copied)
	if len(s.entries) > model.MaxHistoryEntries {
		s.entries = s.entries[len(s.entries)-model.MaxHistoryEntries:]
	}
	return nil
}

func (h *historyRepository) List(ctx context.Context, userID types.UserID) ([]*model.ConversationEntry, error) {
	h.repo.mu.Lock()
	defer h.repo.mu.Unlock()

	s, ok := h.repo.users.Get(userID)
	if !ok {
		return nil, nil
	}

	out := make([]*model.ConversationEntry, len(s.entries))
	for i, e := range s.entries {
		copied := *e
		out[i] = &copied
	}
	return out, nil
}

func (h *historyRepository) Reset(ctx context.Context, userID types.UserID) error {
	h.repo.mu.Lock()
	defer h.repo.mu.Unlock()

	if s, ok := h.repo.users.Get(userID); ok {
		s.entries = nil
	}
	return nil
}

type locationRepository struct {
	repo *Repository
}

func (l *locationRepository) Put(ctx context.Context, userID types.UserID, loc *model.Location, ttl time.Duration) error {
	if err := userID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user ID")
	}
	if loc == nil {
		return goerr.New("location is required")
	}

	l.repo.mu.Lock()
	defer l.repo.mu.Unlock()

	s := l.repo.state(userID)
	copied := *loc
	s.location = &copied
	if ttl > 0 {
		s.locExpiresAt = l.repo.now().Add(ttl)
	} else {
		s.locExpiresAt = time.Time{}
	}
	return nil
}

func (l *locationRepository) Get(ctx context.Context, userID types.UserID) (*model.Location, error) {
	l.repo.mu.Lock()
	defer l.repo.mu.Unlock()

	s, ok := l.repo.users.Get(userID)
	if !ok || s.location == nil {
		return nil, nil
	}
	if !s.locExpiresAt.IsZero() && !l.repo.now().Before(s.locExpiresAt) {
		s.location = nil
		return nil, nil
	}

	copied := *s.location
	return &copied, nil
}

func (l *locationRepository) Delete(ctx context.Context, userID types.UserID) error {
	l.repo.mu.Lock()
	defer l.repo.mu.Unlock()

	if s, ok := l.repo.users.Get(userID); ok {
		s.location = nil
		s.locExpiresAt = time.Time{}
	}
	return nil
}
