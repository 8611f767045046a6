package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/barriolab/vecino/pkg/domain/interfaces"
	"github.com/barriolab/vecino/pkg/domain/model"
	"github.com/barriolab/vecino/pkg/domain/types"
)

const (
	historyKeyPrefix  = "history:"
	locationKeyPrefix = "location:"

	// HistoryTTL is refreshed on every append; an idle conversation
	// disappears from the store after two hours.
	HistoryTTL = 2 * time.Hour
)

// Repository is the Redis-backed implementation of interfaces.Repository.
type Repository struct {
	client *goredis.Client
}

var _ interfaces.Repository = &Repository{}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, addr, password string, db int) (*Repository, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, goerr.Wrap(err, "failed to connect to redis", goerr.V("addr", addr))
	}

	return &Repository{client: client}, nil
}

func (r *Repository) History() interfaces.HistoryRepository {
	return &historyRepository{client: r.client}
}

func (r *Repository) Location() interfaces.LocationRepository {
	return &locationRepository{client: r.client}
}

func (r *Repository) Close() error {
	return r.client.Close()
}

type historyRepository struct {
	client *goredis.Client
}

func historyKey(userID types.UserID) string {
	return historyKeyPrefix + userID.String()
}

func (h *historyRepository) Append(ctx context.Context, userID types.UserID, entry *model.ConversationEntry) error {
	if err := userID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user ID")
	}
	if entry == nil {
		return goerr.New("entry is required")
	}

	entries, err := h.load(ctx, userID)
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	if len(entries) > model.MaxHistoryEntries {
		entries = entries[len(entries)-model.MaxHistoryEntries:]
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal history", goerr.V("userID", userID))
	}

	if err := h.client.Set(ctx, historyKey(userID), raw, HistoryTTL).Err(); err != nil {
		return goerr.Wrap(err, "failed to store history", goerr.V("userID", userID))
	}
	return nil
}

func (h *historyRepository) List(ctx context.Context, userID types.UserID) ([]*model.ConversationEntry, error) {
	return h.load(ctx, userID)
}

func (h *historyRepository) Reset(ctx context.Context, userID types.UserID) error {
	if err := h.client.Del(ctx, historyKey(userID)).Err(); err != nil {
		return goerr.Wrap(err, "failed to delete history", goerr.V("userID", userID))
	}
	return nil
}

func (h *historyRepository) load(ctx context.Context, userID types.UserID) ([]*model.ConversationEntry, error) {
	raw, err := h.client.Get(ctx, historyKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to load history", goerr.V("userID", userID))
	}

	var entries []*model.ConversationEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal history", goerr.V("userID", userID))
	}
	return entries, nil
}

type locationRepository struct {
	client *goredis.Client
}

func locationKey(userID types.UserID) string {
	return locationKeyPrefix + userID.String()
}

func (l *locationRepository) Put(ctx context.Context, userID types.UserID, loc *model.Location, ttl time.Duration) error {
	if err := userID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user ID")
	}
	if loc == nil {
		return goerr.New("location is required")
	}

	raw, err := json.Marshal(loc)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal location", goerr.V("userID", userID))
	}

	if err := l.client.Set(ctx, locationKey(userID), raw, ttl).Err(); err != nil {
		return goerr.Wrap(err, "failed to store location", goerr.V("userID", userID))
	}
	return nil
}

func (l *locationRepository) Get(ctx context.Context, userID types.UserID) (*model.Location, error) {
	raw, err := l.client.Get(ctx, locationKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to load location", goerr.V("userID", userID))
	}

	var loc model.Location
	if err := json.Unmarshal(raw, &loc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal location", goerr.V("userID", userID))
	}
	return &loc, nil
}

func (l *locationRepository) Delete(ctx context.Context, userID types.UserID) error {
	if err := l.client.Del(ctx, locationKey(userID)).Err(); err != nil {
		return goerr.Wrap(err, "failed to delete location", goerr.V("userID", userID))
	}
	return nil
}
