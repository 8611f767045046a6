package model

import (
	"time"

	"github.com/barriolab/vecino/pkg/domain/types"
)

// TurnInput is one inbound user message: typed text or transcribed audio,
// with whatever context the transport layer knows about the user.
type TurnInput struct {
	UserID   types.UserID
	Text     string
	Location *Location
	Zone     types.Zone
	Now      time.Time
}

// TurnAck is the synchronous answer to a submitted turn. Accepted turns
// resolve asynchronously after the debounce window; the only other outcomes
// are soft rejects.
type TurnAck struct {
	Reason types.ReasonCode
}

// TurnResult is delivered to the Responder once a debounced turn fires.
// Either Candidates is non-empty and Answer holds the composed reply, or
// Reason is ReasonNoMatches.
type TurnResult struct {
	UserID     types.UserID
	Query      string
	Candidates []ScoredCandidate
	Answer     string
	Reason     types.ReasonCode
}
