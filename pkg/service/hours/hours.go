package hours

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/barriolab/vecino/pkg/domain/types"
	"github.com/barriolab/vecino/pkg/service/search"
)

// Schedule strings come straight from the catalog data entry and are free
// text: "24hs", "Lun-Vie 8-20", "L-V 8-13 y 16-20", "Lun-Sab 8-20 | Dom
// 9-13", "Mar a Dom 18-24". Evaluation happens here rather than in the
// language model prompt because the model is unreliable at clock math.

// dayNames maps Spanish day names and common abbreviations to a weekday
// index with Monday = 0.
var dayNames = map[string]int{
	"lunes": 0, "lun": 0, "lu": 0,
	"martes": 1, "mar": 1, "ma": 1,
	"miercoles": 2, "mie": 2, "mi": 2,
	"jueves": 3, "jue": 3, "ju": 3,
	"viernes": 4, "vie": 4, "vi": 4,
	"sabado": 5, "sab": 5, "sa": 5,
	"domingo": 6, "dom": 6, "do": 6,
}

// dayLetters covers single-letter ranges like "L-V". X is miércoles.
var dayLetters = map[string]int{
	"l": 0, "m": 1, "x": 2, "j": 3, "v": 4, "s": 5, "d": 6,
}

var (
	alwaysOpenRe = regexp.MustCompile(`(?i)24\s*(?:hs|horas?)`)
	segmentRe    = regexp.MustCompile(`[|;\n]`)
	dayJoinRe    = regexp.MustCompile(`(\w+)\s+a\s+(\w+)`)
	dayRangeRe   = regexp.MustCompile(`\b([a-záéíóú]+)\s*[-–]\s*([a-záéíóú]+)\b`)
	firstWordRe  = regexp.MustCompile(`^([a-záéíóú]+)`)
	timeRangeRe  = regexp.MustCompile(`(\d{1,2}(?:[:.]\d{2})?)\s*[-–]\s*(\d{1,2}(?:[:.]\d{2})?)`)
)

// Evaluate reports whether a schedule is open at the given instant. The
// caller's time zone is embedded in now; no conversion happens here. An
// empty or unparseable schedule yields OpenUnknown rather than a guess.
func Evaluate(spec string, now time.Time) types.OpenState {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return types.OpenStateUnknown
	}

	if alwaysOpenRe.MatchString(spec) {
		return types.OpenStateOpen
	}

	// time.Weekday has Sunday = 0; shift to Monday = 0
	today := (int(now.Weekday()) + 6) % 7
	clock := float64(now.Hour()) + float64(now.Minute())/60

	for _, seg := range segmentRe.Split(spec, -1) {
		seg = strings.TrimSpace(strings.ToLower(seg))
		if seg == "" || strings.Contains(seg, "cerrado") {
			continue
		}

		// "lun a vie 8 a 20" becomes "lun-vie 8-20"
		seg = dayJoinRe.ReplaceAllString(seg, "$1-$2")

		days := segmentDays(seg)
		if !days[today] {
			continue
		}

		for _, m := range timeRangeRe.FindAllStringSubmatch(seg, -1) {
			open, okOpen := parseClock(m[1])
			close, okClose := parseClock(m[2])
			if !okOpen || !okClose {
				continue
			}

			switch {
			case close > open:
				if open <= clock && clock < close {
					return types.OpenStateOpen
				}
			case close < open:
				// overnight shift such as 22-6
				if clock >= open || clock < close {
					return types.OpenStateOpen
				}
			}
		}
	}

	return types.OpenStateClosed
}

// segmentDays extracts the weekday set a segment applies to. A segment with
// no recognizable day marker applies to every day.
func segmentDays(seg string) [7]bool {
	var days [7]bool

	if m := dayRangeRe.FindStringSubmatch(seg); m != nil {
		d1, ok1 := parseDay(m[1])
		d2, ok2 := parseDay(m[2])
		if ok1 && ok2 {
			for d := d1; ; d = (d + 1) % 7 {
				days[d] = true
				if d == d2 {
					break
				}
			}
			return days
		}
	}

	if m := firstWordRe.FindStringSubmatch(seg); m != nil {
		if d, ok := parseDay(m[1]); ok {
			days[d] = true
			return days
		}
	}

	for d := range days {
		days[d] = true
	}
	return days
}

func parseDay(s string) (int, bool) {
	s = search.Normalize(strings.TrimRight(strings.TrimSpace(s), "."))
	if d, ok := dayNames[s]; ok {
		return d, true
	}
	if len(s) == 1 {
		if d, ok := dayLetters[s]; ok {
			return d, true
		}
	}
	return 0, false
}

// parseClock converts "8", "8:30" or "8.30" to decimal hours.
func parseClock(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ".", ":")
	if h, m, ok := strings.Cut(s, ":"); ok {
		hh, err1 := strconv.Atoi(h)
		mm, err2 := strconv.Atoi(m)
		if err1 != nil || err2 != nil {
			return 0, false
		}
		return float64(hh) + float64(mm)/60, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 24 {
		return 0, false
	}
	return v, true
}
