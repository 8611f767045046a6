package types

import "fmt"

// RecordKind distinguishes physical businesses from at-home services
type RecordKind string

const (
	// KindBusiness is a physical storefront with address, hours and coordinates
	KindBusiness RecordKind = "business"
	// KindService is a person working on demand; no address or schedule
	KindService RecordKind = "service"
)

// IsValid checks if the record kind is valid
func (k RecordKind) IsValid() bool {
	switch k {
	case KindBusiness, KindService:
		return true
	default:
		return false
	}
}

// Normalize returns the kind, treating empty as KindBusiness for catalogs
// produced before services were split out.
func (k RecordKind) Normalize() RecordKind {
	if k == "" {
		return KindBusiness
	}
	return k
}

// String returns the string representation of the record kind
func (k RecordKind) String() string {
	return string(k)
}

// ParseRecordKind parses a string into a RecordKind
func ParseRecordKind(s string) (RecordKind, error) {
	kind := RecordKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid record kind: %s", s)
	}
	return kind, nil
}
