package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/barriolab/vecino/pkg/domain/types"
)

func TestDetectZone(t *testing.T) {
	cases := []struct {
		name string
		text string
		want types.Zone
	}{
		{"single zone", "pizza en gonnet", types.ZoneGonnet},
		{"two word zone", "farmacia en city bell", types.ZoneCityBell},
		{"joined spelling", "algo en villaelisa", types.ZoneVillaElisa},
		{"no zone", "quiero pizza", types.ZoneUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Value(t, types.DetectZone(tc.text)).Equal(tc.want)
		})
	}
}

func TestDetectZoneTwoMentionsIsStable(t *testing.T) {
	// alias priority is fixed, so repeated detection over text naming two
	// zones never flips the winner (and never destabilizes the query
	// fingerprint)
	first := types.DetectZone("pizza en gonnet o city bell")
	gt.Value(t, first).Equal(types.ZoneCityBell)
	for i := 0; i < 100; i++ {
		gt.Value(t, types.DetectZone("pizza en gonnet o city bell")).Equal(first)
	}
}
