package entities

import (
	"math"
	"time"
)

// SearchStatus is the lifecycle state of a price search
type SearchStatus string

const (
	SearchStatusIdle    SearchStatus = "idle"
	SearchStatusLoading SearchStatus = "loading"
	SearchStatusSuccess SearchStatus = "success"
	SearchStatusError   SearchStatus = "error"
)

// BackoffHint is the server's instruction on when to ask again.
// DelayMs takes precedence over WaitUntil.
type BackoffHint struct {
	DelayMs   *float64 `json:"delay,omitempty"`
	WaitUntil string   `json:"waitUntil,omitempty"`
}

// Resolve turns the hint into a non-negative delay relative to now.
// ok is false when the hint carries nothing usable.
func (h BackoffHint) Resolve(now time.Time) (time.Duration, bool) {
	if h.DelayMs != nil && !math.IsNaN(*h.DelayMs) && !math.IsInf(*h.DelayMs, 0) {
		if *h.DelayMs <= 0 {
			return 0, true
		}
		return time.Duration(*h.DelayMs * float64(time.Millisecond)), true
	}
	if h.WaitUntil == "" {
		return 0, false
	}
	ts, err := parseTimestamp(h.WaitUntil)
	if err != nil {
		return 0, false
	}
	if d := ts.Sub(now); d > 0 {
		return d, true
	}
	return 0, true
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	time.RFC1123,
	time.RFC1123Z,
}

func parseTimestamp(value string) (time.Time, error) {
	var err error
	for _, layout := range timestampLayouts {
		var ts time.Time
		if ts, err = time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, err
}
