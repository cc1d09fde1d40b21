package projection

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

// datetimeLayouts are tried in order when parsing a datetime string. Elasticsearch's
// default date format accepts ISO-8601 dates with or without a time or zone.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDatetime converts a JSON date value into a UTC time.Time. Strings are parsed as
// ISO-8601 dates, and numbers (or numeric strings) as milliseconds since the epoch.
func ParseDatetime(node gjson.Result) (time.Time, error) {
	switch node.Type {
	case gjson.Number:
		return fromEpochMillis(node.Raw, node.Float())
	case gjson.String:
		for _, layout := range datetimeLayouts {
			if t, err := time.Parse(layout, node.Str); err == nil {
				return t.UTC(), nil
			}
		}
		if millis, err := strconv.ParseFloat(node.Str, 64); err == nil {
			return fromEpochMillis(node.Str, millis)
		}
		return time.Time{}, fmt.Errorf("cannot parse %q as a datetime", node.Str)
	default:
		return time.Time{}, fmt.Errorf("cannot parse %s as a datetime", node.Raw)
	}
}

// fromEpochMillis converts milliseconds since the epoch. Integral values are read
// exactly; fractional ones are split into whole milliseconds and a remainder, so
// that only the remainder is scaled to nanoseconds.
func fromEpochMillis(raw string, millis float64) (time.Time, error) {
	if isIntegral(raw) {
		if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), nil
		}
	}
	if math.IsNaN(millis) || millis >= math.MaxInt64 || millis < math.MinInt64 {
		return time.Time{}, fmt.Errorf("epoch milliseconds %s are out of range", raw)
	}
	whole := math.Floor(millis)
	frac := time.Duration((millis - whole) * float64(time.Millisecond))
	return time.UnixMilli(int64(whole)).Add(frac).UTC(), nil
}
