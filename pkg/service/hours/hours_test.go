package hours_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/barriolab/vecino/pkg/domain/types"
	"github.com/barriolab/vecino/pkg/service/hours"
)

// at builds a local timestamp for a given 2024 week, Monday=2024-07-01.
func at(weekday int, hour, minute int) time.Time {
	return time.Date(2024, 7, 1+weekday, hour, minute, 0, 0, time.Local)
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name string
		spec string
		now  time.Time
		want types.OpenState
	}{
		{"empty spec is unknown", "", at(0, 12, 0), types.OpenStateUnknown},
		{"blank spec is unknown", "   ", at(0, 12, 0), types.OpenStateUnknown},
		{"24hs always open", "24hs", at(6, 3, 30), types.OpenStateOpen},
		{"24 horas always open", "Atención 24 horas", at(2, 23, 59), types.OpenStateOpen},

		{"weekday range open", "Lun-Vie 8-20", at(2, 10, 0), types.OpenStateOpen},
		{"weekday range closed at night", "Lun-Vie 8-20", at(2, 21, 0), types.OpenStateClosed},
		{"weekday range closed on weekend", "Lun-Vie 8-20", at(5, 10, 0), types.OpenStateClosed},
		{"closing hour is exclusive", "Lun-Vie 8-20", at(2, 20, 0), types.OpenStateClosed},
		{"opening hour is inclusive", "Lun-Vie 8-20", at(2, 8, 0), types.OpenStateOpen},

		{"single letter range", "L-V 9-18", at(4, 12, 0), types.OpenStateOpen},
		{"single letter range weekend", "L-V 9-18", at(6, 12, 0), types.OpenStateClosed},

		{"with a instead of dash", "Lun a Vie 8 a 20", at(1, 15, 0), types.OpenStateOpen},

		{"wrapping day range", "Sab-Mar 10-22", at(0, 12, 0), types.OpenStateOpen},
		{"wrapping day range excluded day", "Sab-Mar 10-22", at(3, 12, 0), types.OpenStateClosed},

		{"split shift morning", "L-V 8-13 y 16-20", at(0, 9, 0), types.OpenStateOpen},
		{"split shift siesta", "L-V 8-13 y 16-20", at(0, 14, 0), types.OpenStateClosed},
		{"split shift evening", "L-V 8-13 y 16-20", at(0, 17, 30), types.OpenStateOpen},

		{"multi segment weekday", "Lun-Sab 8-20 | Dom 9-13", at(6, 10, 0), types.OpenStateOpen},
		{"multi segment sunday afternoon", "Lun-Sab 8-20 | Dom 9-13", at(6, 15, 0), types.OpenStateClosed},

		{"single day", "Sab 9-13", at(5, 10, 0), types.OpenStateOpen},
		{"single day off day", "Sab 9-13", at(4, 10, 0), types.OpenStateClosed},

		{"overnight shift before midnight", "Vie-Sab 22-6", at(4, 23, 0), types.OpenStateOpen},
		{"overnight shift after midnight", "Vie-Sab 22-6", at(5, 3, 0), types.OpenStateOpen},
		{"overnight shift daytime", "Vie-Sab 22-6", at(4, 12, 0), types.OpenStateClosed},

		{"hours with minutes", "Lun-Vie 8:30-17:30", at(1, 8, 45), types.OpenStateOpen},
		{"hours with minutes before opening", "Lun-Vie 8:30-17:30", at(1, 8, 15), types.OpenStateClosed},
		{"hours with dots", "Lun-Vie 8.30-17.30", at(1, 9, 0), types.OpenStateOpen},

		{"cerrado segment is skipped", "Lun-Vie 8-20 | Dom cerrado", at(6, 10, 0), types.OpenStateClosed},

		{"no day marker covers whole week", "8-20", at(6, 10, 0), types.OpenStateOpen},
		{"until midnight", "Mar-Dom 18-24", at(2, 23, 50), types.OpenStateOpen},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Value(t, hours.Evaluate(tc.spec, tc.now)).Equal(tc.want)
		})
	}
}
