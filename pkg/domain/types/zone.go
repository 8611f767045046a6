package types

import (
	"fmt"
	"strings"
)

// Zone represents one of the served neighborhoods
type Zone string

const (
	ZoneCityBell   Zone = "City Bell"
	ZoneGonnet     Zone = "Gonnet"
	ZoneVillaElisa Zone = "Villa Elisa"
	ZoneUnknown    Zone = ""
)

// AllZones returns all served zones
func AllZones() []Zone {
	return []Zone{
		ZoneCityBell,
		ZoneGonnet,
		ZoneVillaElisa,
	}
}

// IsValid checks if the zone is one of the served neighborhoods or unset
func (z Zone) IsValid() bool {
	switch z {
	case ZoneCityBell, ZoneGonnet, ZoneVillaElisa, ZoneUnknown:
		return true
	default:
		return false
	}
}

// IsSet returns true when the zone names a concrete neighborhood
func (z Zone) IsSet() bool {
	return z != ZoneUnknown
}

// String returns the string representation of the zone
func (z Zone) String() string {
	return string(z)
}

// ParseZone parses a string into a Zone
func ParseZone(s string) (Zone, error) {
	zone := Zone(s)
	if !zone.IsValid() {
		return ZoneUnknown, fmt.Errorf("invalid zone: %s", s)
	}
	return zone, nil
}

// zoneAliases lists normalized free-text spellings in match priority order.
// Aliases must be lowercase and diacritic-free, matching search.Normalize
// output.
var zoneAliases = []struct {
	alias string
	zone  Zone
}{
	{"city bell", ZoneCityBell},
	{"citybell", ZoneCityBell},
	{"gonnet", ZoneGonnet},
	{"villa elisa", ZoneVillaElisa},
	{"villaelisa", ZoneVillaElisa},
}

// DetectZone scans normalized text for a zone mention ("pizza en gonnet"
// detects Gonnet). The input must already be normalized. The first alias in
// priority order wins, so text naming two zones always resolves the same
// way. Returns ZoneUnknown when no zone is mentioned.
func DetectZone(normalized string) Zone {
	for _, entry := range zoneAliases {
		if strings.Contains(normalized, entry.alias) {
			return entry.zone
		}
	}
	return ZoneUnknown
}
