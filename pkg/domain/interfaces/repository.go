package interfaces

import (
	"context"
	"time"

	"github.com/barriolab/vecino/pkg/domain/model"
	"github.com/barriolab/vecino/pkg/domain/types"
)

// Repository defines the interface for conversation-state persistence.
// Implementations must be safe for concurrent use from multiple users'
// pipelines, and must be interchangeable without behavioral differences
// beyond durability.
type Repository interface {
	History() HistoryRepository
	Location() LocationRepository

	Close() error
}

// HistoryRepository persists per-user conversation logs. Stored sequences are
// ordered oldest first; windowing to the visible hour is the use case
// layer's job.
type HistoryRepository interface {
	// Append adds an entry, discarding the oldest entries when the per-user
	// cap is exceeded.
	Append(ctx context.Context, userID types.UserID, entry *model.ConversationEntry) error

	// List returns all retained entries for the user, oldest first.
	List(ctx context.Context, userID types.UserID) ([]*model.ConversationEntry, error)

	// Reset deletes the user's history.
	Reset(ctx context.Context, userID types.UserID) error
}

// LocationRepository persists the user's last shared location.
type LocationRepository interface {
	// Put stores the location with the given retention.
	Put(ctx context.Context, userID types.UserID, loc *model.Location, ttl time.Duration) error

	// Get returns the stored location, or nil when none is known.
	Get(ctx context.Context, userID types.UserID) (*model.Location, error)

	// Delete forgets the user's location.
	Delete(ctx context.Context, userID types.UserID) error
}
