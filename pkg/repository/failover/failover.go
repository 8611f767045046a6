package failover

import (
	"context"
	"time"

	"github.com/barriolab/vecino/pkg/domain/interfaces"
	"github.com/barriolab/vecino/pkg/domain/model"
	"github.com/barriolab/vecino/pkg/domain/types"
	"github.com/barriolab/vecino/pkg/utils/errutil"
)

// Repository decorates a durable store with an in-memory fallback. Every
// call tries the primary first and degrades to the fallback on error, per
// call rather than via a sticky circuit: the primary is retried on the next
// operation, so recovery is automatic. Failover is logged, never surfaced
// to the user.
type Repository struct {
	primary  interfaces.Repository
	fallback interfaces.Repository
}

var _ interfaces.Repository = &Repository{}

// New wraps primary with fallback.
func New(primary, fallback interfaces.Repository) *Repository {
	return &Repository{primary: primary, fallback: fallback}
}

func (r *Repository) History() interfaces.HistoryRepository {
	return &historyRepository{
		primary:  r.primary.History(),
		fallback: r.fallback.History(),
	}
}

func (r *Repository) Location() interfaces.LocationRepository {
	return &locationRepository{
		primary:  r.primary.Location(),
		fallback: r.fallback.Location(),
	}
}

func (r *Repository) Close() error {
	err := r.primary.Close()
	if ferr := r.fallback.Close(); err == nil {
		err = ferr
	}
	return err
}

type historyRepository struct {
	primary  interfaces.HistoryRepository
	fallback interfaces.HistoryRepository
}

func (h *historyRepository) Append(ctx context.Context, userID types.UserID, entry *model.ConversationEntry) error {
	if err := h.primary.Append(ctx, userID, entry); err != nil {
		errutil.Handle(ctx, err, "history append failed, using fallback store")
		return h.fallback.Append(ctx, userID, entry)
	}
	return nil
}

func (h *historyRepository) List(ctx context.Context, userID types.UserID) ([]*model.ConversationEntry, error) {
	entries, err := h.primary.List(ctx, userID)
	if err != nil {
		errutil.Handle(ctx, err, "history list failed, using fallback store")
		return h.fallback.List(ctx, userID)
	}
	return entries, nil
}

func (h *historyRepository) Reset(ctx context.Context, userID types.UserID) error {
	err := h.primary.Reset(ctx, userID)
	if err != nil {
		errutil.Handle(ctx, err, "history reset failed, using fallback store")
	}
	// reset both so a later failover does not resurrect old entries
	if ferr := h.fallback.Reset(ctx, userID); ferr != nil && err == nil {
		return ferr
	}
	return nil
}

type locationRepository struct {
	primary  interfaces.LocationRepository
	fallback interfaces.LocationRepository
}

func (l *locationRepository) Put(ctx context.Context, userID types.UserID, loc *model.Location, ttl time.Duration) error {
	if err := l.primary.Put(ctx, userID, loc, ttl); err != nil {
		errutil.Handle(ctx, err, "location put failed, using fallback store")
		return l.fallback.Put(ctx, userID, loc, ttl)
	}
	return nil
}

func (l *locationRepository) Get(ctx context.Context, userID types.UserID) (*model.Location, error) {
	loc, err := l.primary.Get(ctx, userID)
	if err != nil {
		errutil.Handle(ctx, err, "location get failed, using fallback store")
		return l.fallback.Get(ctx, userID)
	}
	return loc, nil
}

func (l *locationRepository) Delete(ctx context.Context, userID types.UserID) error {
	err := l.primary.Delete(ctx, userID)
	if err != nil {
		errutil.Handle(ctx, err, "location delete failed, using fallback store")
	}
	if ferr := l.fallback.Delete(ctx, userID); ferr != nil && err == nil {
		return ferr
	}
	return nil
}
