package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/barriolab/vecino/pkg/domain/interfaces"
	"github.com/barriolab/vecino/pkg/domain/model"
	"github.com/barriolab/vecino/pkg/domain/types"
)

// HistoryUseCase manages per-user conversation logs on top of the
// repository: the repository retains up to the cap, this layer narrows to
// the visible window for composition.
type HistoryUseCase struct {
	repo interfaces.Repository
}

func NewHistoryUseCase(repo interfaces.Repository) *HistoryUseCase {
	return &HistoryUseCase{repo: repo}
}

// Append records one message.
func (h *HistoryUseCase) Append(ctx context.Context, userID types.UserID, role types.Role, text string, ts time.Time) (*model.ConversationEntry, error) {
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidUserID, err.Error())
	}

	entry := model.NewConversationEntry(userID, role, text, ts)
	if err := h.repo.History().Append(ctx, userID, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Visible returns the entries inside the visibility window, oldest first.
// Retained-but-stale entries are excluded, not deleted: they age out of the
// store by cap or TTL.
func (h *HistoryUseCase) Visible(ctx context.Context, userID types.UserID, now time.Time) ([]*model.ConversationEntry, error) {
	entries, err := h.repo.History().List(ctx, userID)
	if err != nil {
		return nil, err
	}

	cutoff := now.Add(-model.VisibleHistoryWindow)
	var visible []*model.ConversationEntry
	for _, e := range entries {
		if e.Timestamp.After(cutoff) {
			visible = append(visible, e)
		}
	}
	return visible, nil
}

// LastUserQuery returns the text of the most recent user entry within the
// visible window, excluding the current message when it is already stored.
func (h *HistoryUseCase) LastUserQuery(ctx context.Context, userID types.UserID, now time.Time, exclude string) (string, bool) {
	visible, err := h.Visible(ctx, userID, now)
	if err != nil {
		return "", false
	}

	excluded := false
	for i := len(visible) - 1; i >= 0; i-- {
		e := visible[i]
		if e.Role != types.RoleUser {
			continue
		}
		if !excluded && e.Text == exclude {
			excluded = true
			continue
		}
		return e.Text, true
	}
	return "", false
}

// Reset forgets the user entirely: history and stored location.
func (h *HistoryUseCase) Reset(ctx context.Context, userID types.UserID) error {
	if err := h.repo.History().Reset(ctx, userID); err != nil {
		return err
	}
	return h.repo.Location().Delete(ctx, userID)
}
