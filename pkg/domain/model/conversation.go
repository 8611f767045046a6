package model

import (
	"time"

	"github.com/barriolab/vecino/pkg/domain/types"
	"github.com/google/uuid"
)

// ConversationEntryID is a UUID-based identifier for a conversation entry
type ConversationEntryID string

// NewConversationEntryID generates a new UUID v4 entry ID
func NewConversationEntryID() ConversationEntryID {
	return ConversationEntryID(uuid.New().String())
}

// MaxHistoryEntries caps how many entries are retained per user. Older
// entries are discarded first.
const MaxHistoryEntries = 20

// VisibleHistoryWindow bounds how far back composition looks, regardless of
// how many entries are retained.
const VisibleHistoryWindow = time.Hour

// ConversationEntry is one timestamped message in a user's history. Entries
// are append-only: they are excluded from the visible window once older than
// an hour and hard-deleted when the per-user cap pushes them out.
type ConversationEntry struct {
	ID        ConversationEntryID `json:"id"`
	UserID    types.UserID        `json:"user_id"`
	Role      types.Role          `json:"role"`
	Text      string              `json:"text"`
	Timestamp time.Time           `json:"timestamp"`
}

// NewConversationEntry builds an entry with a fresh ID
func NewConversationEntry(userID types.UserID, role types.Role, text string, ts time.Time) *ConversationEntry {
	return &ConversationEntry{
		ID:        NewConversationEntryID(),
		UserID:    userID,
		Role:      role,
		Text:      text,
		Timestamp: ts,
	}
}
