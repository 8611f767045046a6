package types

// ReasonCode explains an empty turn result to the caller. It is a structured
// soft-reject, not an error: the transport layer decides how to render it.
type ReasonCode string

const (
	// ReasonAccepted means the turn entered the debounce queue and a result
	// will be delivered asynchronously once the window elapses.
	ReasonAccepted ReasonCode = "debounced_pending"
	// ReasonRateLimited means the per-user sliding window was exceeded.
	ReasonRateLimited ReasonCode = "rate_limited"
	// ReasonNoMatches means retrieval ran and found nothing.
	ReasonNoMatches ReasonCode = "no_matches"
)

// String returns the string representation of the reason code
func (r ReasonCode) String() string {
	return string(r)
}
