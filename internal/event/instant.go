package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// InstantLayout is the fixed-precision absolute-instant rendering: UTC with
// millisecond precision.
const InstantLayout = "2006-01-02T15:04:05.000Z"

// ErrEmptyInstant is returned by ParseInstant for nil or blank input.
var ErrEmptyInstant = errors.New("empty instant")

// isoLayouts are tried in order for string instants. Layouts without a zone
// are read as UTC; the feed's own offsets are never renormalized.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseInstant converts the representations an external feed may supply into a
// time.Time: time values, epoch milliseconds (integers, floats, json.Number or
// digit-only strings) and ISO-8601 strings.
func ParseInstant(v any) (time.Time, error) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, ErrEmptyInstant
	case time.Time:
		if val.IsZero() {
			return time.Time{}, ErrEmptyInstant
		}
		return val, nil
	case *time.Time:
		if val == nil || val.IsZero() {
			return time.Time{}, ErrEmptyInstant
		}
		return *val, nil
	case int:
		return time.UnixMilli(int64(val)).UTC(), nil
	case int32:
		return time.UnixMilli(int64(val)).UTC(), nil
	case int64:
		return time.UnixMilli(val).UTC(), nil
	case float64:
		return fromFloatMillis(val)
	case json.Number:
		if ms, err := val.Int64(); err == nil {
			return time.UnixMilli(ms).UTC(), nil
		}
		if f, err := val.Float64(); err == nil {
			return fromFloatMillis(f)
		}
		return parseInstantString(val.String())
	case string:
		return parseInstantString(val)
	default:
		return time.Time{}, fmt.Errorf("unsupported instant type %T", v)
	}
}

func fromFloatMillis(f float64) (time.Time, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, fmt.Errorf("invalid epoch millis %v", f)
	}
	return time.UnixMilli(int64(f)).UTC(), nil
}

func parseInstantString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmptyInstant
	}
	if isEpochMillis(s) {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid epoch millis %q: %w", s, err)
		}
		return time.UnixMilli(ms).UTC(), nil
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized instant %q", s)
}

func isEpochMillis(s string) bool {
	digits := strings.TrimPrefix(s, "-")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatInstant renders t in InstantLayout.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(InstantLayout)
}
