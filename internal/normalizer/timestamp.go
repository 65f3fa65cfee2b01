package normalizer

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// layouts tried in order for string timestamps without a numeric form
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RubyDate,
	"Mon Jan 02 15:04:05 -0700 2006", // twitter created_at
}

// parseTimestamp interprets numbers as epoch seconds and strings as dates.
// ok is false when v cannot be read as an instant.
func parseTimestamp(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val.UTC(), !val.IsZero()
	case int:
		return fromEpoch(float64(val))
	case int32:
		return fromEpoch(float64(val))
	case int64:
		return fromEpoch(float64(val))
	case float32:
		return fromEpoch(float64(val))
	case float64:
		return fromEpoch(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromEpoch(f)
	case string:
		return parseString(val)
	}
	return time.Time{}, false
}

func parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromEpoch(f)
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// epoch seconds outside years 1..9999 are rejected; millisecond epochs land
// well past the upper bound
const (
	minEpoch = -62135596800 // 0001-01-01T00:00:00Z
	maxEpoch = 253402300799 // 9999-12-31T23:59:59Z
)

func fromEpoch(sec float64) (time.Time, bool) {
	if math.IsNaN(sec) || math.IsInf(sec, 0) || sec < minEpoch || sec > maxEpoch {
		return time.Time{}, false
	}
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC(), true
}
