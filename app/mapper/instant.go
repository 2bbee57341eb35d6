package mapper

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// epochMillisCutoff separates epoch seconds from epoch milliseconds: values
// above it cannot be a plausible seconds timestamp, so they are read as
// milliseconds.
const epochMillisCutoff = 1e12

// maxEpochMillis bounds accepted millisecond timestamps to +-273790 years;
// anything beyond is treated as garbage rather than a date.
const maxEpochMillis = 8.64e15

var instantLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseInstant normalizes the timestamp shapes the upstream API emits into a
// UTC time. It accepts epoch seconds or milliseconds as JSON numbers or
// numeric strings, and date strings in the common ISO layouts. The second
// return is false when the field is absent, null or unparseable.
func ParseInstant(raw json.RawMessage) (time.Time, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return time.Time{}, false
	}

	var num float64
	if err := json.Unmarshal(trimmed, &num); err == nil {
		return epochToTime(num)
	}

	var str string
	if err := json.Unmarshal(trimmed, &str); err != nil {
		return time.Time{}, false
	}
	str = strings.TrimSpace(str)
	if str == "" {
		return time.Time{}, false
	}

	if num, err := strconv.ParseFloat(str, 64); err == nil {
		if ts, ok := epochToTime(num); ok {
			return ts, true
		}
	}

	for _, layout := range instantLayouts {
		if ts, err := time.Parse(layout, str); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

func epochToTime(v float64) (time.Time, bool) {
	ms := v
	if math.Abs(v) <= epochMillisCutoff {
		ms = v * 1000
	}
	if math.IsNaN(ms) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(math.Round(ms))).UTC(), true
}
