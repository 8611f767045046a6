package types

// OpenState is the tri-state result of evaluating a schedule at a point in
// time. Unknown means the schedule was absent or could not be parsed; callers
// must treat it as "omit the badge", never as a failure.
type OpenState string

const (
	OpenStateOpen    OpenState = "open"
	OpenStateClosed  OpenState = "closed"
	OpenStateUnknown OpenState = "unknown"
)

// String returns the string representation of the open state
func (s OpenState) String() string {
	return string(s)
}

// IsKnown returns true when the state could be determined
func (s OpenState) IsKnown() bool {
	return s == OpenStateOpen || s == OpenStateClosed
}
