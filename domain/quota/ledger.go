// Package quota provides pure functions for the daily usage ledger.
// All functions are deterministic with no side effects; persistence and
// clock access live in adapters and the app layer.
package quota

import "time"

// DayFormat is the calendar-day key stored in the ledger (UTC).
const DayFormat = "2006-01-02"

// Ledger is the per-day usage record (value type). Usage holds one counter
// per tracked channel, in configuration order. Mutating operations return a
// modified copy; the receiver is never changed.
type Ledger struct {
	Date        string    `json:"date"`
	Usage       []int64   `json:"usage"`
	LastUpdated time.Time `json:"last_updated"`
}

// Day returns the UTC calendar-day key for a point in time.
func Day(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// NewLedger creates a fresh all-zero ledger for the UTC day of now.
func NewLedger(n int, now time.Time) Ledger {
	return Ledger{
		Date:        Day(now),
		Usage:       make([]int64, n),
		LastUpdated: now.UTC(),
	}
}

// StaleAt reports whether the ledger belongs to a different UTC calendar
// day than now. A stale ledger is replaced wholesale, never carried forward.
func (l Ledger) StaleAt(now time.Time) bool {
	return l.Date != Day(now)
}

// Resized returns a copy with exactly n counters. Existing counters are
// kept in order; new positions start at zero. The channel list can change
// size across credential reloads, the day's usage for surviving positions
// should not be lost.
func (l Ledger) Resized(n int) Ledger {
	if len(l.Usage) == n {
		return l.clone()
	}
	out := l.clone()
	usage := make([]int64, n)
	copy(usage, l.Usage)
	out.Usage = usage
	return out
}

// WithIncrement returns a copy with cost added to counter i and LastUpdated
// set to now. An out-of-range index returns an unmodified copy.
func (l Ledger) WithIncrement(i int, cost int64, now time.Time) Ledger {
	out := l.clone()
	if i < 0 || i >= len(out.Usage) {
		return out
	}
	out.Usage[i] += cost
	out.LastUpdated = now.UTC()
	return out
}

// Used returns the counter for channel i, zero when out of range.
func (l Ledger) Used(i int) int64 {
	if i < 0 || i >= len(l.Usage) {
		return 0
	}
	return l.Usage[i]
}

// Remaining returns the unused portion of the daily limit for channel i,
// floored at zero. Monotonically non-increasing as usage grows.
func (l Ledger) Remaining(i int, limit int64) int64 {
	r := limit - l.Used(i)
	if r < 0 {
		return 0
	}
	return r
}

func (l Ledger) clone() Ledger {
	usage := make([]int64, len(l.Usage))
	copy(usage, l.Usage)
	return Ledger{Date: l.Date, Usage: usage, LastUpdated: l.LastUpdated}
}

// HoursUntilReset returns the number of hours between now and the end of
// the current UTC calendar day (23:59:59.999), rounded to the nearest hour.
// Display only; rollover itself is driven by Day comparison.
func HoursUntilReset(now time.Time) int {
	u := now.UTC()
	endOfDay := time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, 999000000, time.UTC)
	return int(endOfDay.Sub(u).Round(time.Hour) / time.Hour)
}
