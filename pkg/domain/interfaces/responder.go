package interfaces

import (
	"context"

	"github.com/barriolab/vecino/pkg/domain/model"
)

// Responder delivers a completed turn result back to the user over whatever
// transport the turn arrived on. Delivery happens after the debounce window
// fires, so the submitting call has already returned.
type Responder interface {
	Deliver(ctx context.Context, result *model.TurnResult) error
}
