// Package timecalc derives per-entry durations from timestamp deltas.
package timecalc

import (
	"sort"
	"time"

	"github.com/mbetts/wosync/internal/domain"
)

// Annotated pairs a parsed entry with its computed duration.
type Annotated struct {
	Entry       domain.ParsedEntry
	DurationMin int
	Clamped     bool // delta was negative and floored at zero
}

// Annotate sorts entries chronologically (stable, so file order breaks ties)
// and computes each entry's duration in whole minutes: the first from the
// baseline when one exists, every later entry from its chronological
// predecessor. Negative deltas clamp to zero; the caller decides how loudly
// to warn about them.
func Annotate(entries []domain.ParsedEntry, baseline *time.Time) []Annotated {
	out := make([]Annotated, len(entries))
	for i, e := range entries {
		out[i] = Annotated{Entry: e}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Entry.At.Before(out[j].Entry.At)
	})

	var prev *time.Time
	if baseline != nil {
		t := *baseline
		prev = &t
	}
	for i := range out {
		if prev != nil {
			out[i].DurationMin, out[i].Clamped = deltaMinutes(*prev, out[i].Entry.At)
		}
		t := out[i].Entry.At
		prev = &t
	}
	return out
}

// deltaMinutes returns to−from rounded to the nearest whole minute,
// floored at zero.
func deltaMinutes(from, to time.Time) (minutes int, clamped bool) {
	d := to.Sub(from)
	if d < 0 {
		return 0, true
	}
	return int(d.Round(time.Minute) / time.Minute), false
}
