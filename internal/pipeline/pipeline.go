// Package pipeline derives the visible conference list from the loaded
// conferences, the selection, a free-text query and the hide-past toggle.
package pipeline

import (
	"sort"
	"strings"
	"time"

	"csconfs/internal/datemath"
	"csconfs/internal/model"
	"csconfs/internal/selection"
)

// Filter keeps a conference iff its name is selected, its name contains
// query (case-insensitive, empty matches all) and, when hidePast is set, its
// deadline is upcoming or TBD or its event date is today or later.
func Filter(conferences []model.Conference, selected selection.State, query string, now time.Time, hidePast bool, loc *time.Location) []model.Conference {
	q := strings.ToLower(strings.TrimSpace(query))
	today := datemath.StartOfDay(now, loc)

	out := make([]model.Conference, 0, len(conferences))
	for _, c := range conferences {
		if !selected.Has(c.Name) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(c.Name), q) {
			continue
		}
		if hidePast && !stillRelevant(c, now, today, loc) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func stillRelevant(c model.Conference, now, today time.Time, loc *time.Location) bool {
	if datemath.Classify(c.Deadline, now, loc) != datemath.Passed {
		return true
	}
	event, ok := datemath.ParseDate(c.Date, loc)
	return ok && !event.Before(today)
}

// SortMode selects the ordering of the visible list.
type SortMode string

const (
	SortDeadline       SortMode = "submission_deadline"
	SortNotification   SortMode = "notification_date"
	SortConfDate       SortMode = "confdate"
	SortPlace          SortMode = "confplace"
	SortAcceptanceRate SortMode = "acceptanceRate"
	SortName           SortMode = "name"
)

// SortModes lists every supported mode.
var SortModes = []SortMode{SortDeadline, SortNotification, SortConfDate, SortPlace, SortAcceptanceRate, SortName}

// ParseSortMode returns the mode named s, or SortDeadline when s is unknown.
func ParseSortMode(s string) (SortMode, bool) {
	for _, m := range SortModes {
		if string(m) == s {
			return m, true
		}
	}
	return SortDeadline, false
}

// sortKey is precomputed once per conference so comparisons stay cheap and
// total over malformed input.
type sortKey struct {
	bucket int
	when   time.Time
	text   string
	rate   float64
}

// Sort returns a stably sorted copy of list. Ties, and groups a mode leaves
// unordered, keep input order.
func Sort(list []model.Conference, mode SortMode, now time.Time, loc *time.Location) []model.Conference {
	keys := make([]sortKey, len(list))
	for i, c := range list {
		keys[i] = keyFor(c, mode, now, loc)
	}

	idx := make([]int, len(list))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return less(keys[idx[i]], keys[idx[j]], mode)
	})

	out := make([]model.Conference, len(list))
	for i, k := range idx {
		out[i] = list[k]
	}
	return out
}

func keyFor(c model.Conference, mode SortMode, now time.Time, loc *time.Location) sortKey {
	switch mode {
	case SortNotification:
		d, ok := datemath.ParseDate(c.NotificationDate, loc)
		switch {
		case !ok:
			return sortKey{bucket: 3}
		case d.Before(now):
			return sortKey{bucket: 2}
		default:
			return sortKey{bucket: 1, when: d}
		}
	case SortConfDate:
		d, ok := datemath.ParseDate(c.Date, loc)
		if !ok {
			return sortKey{bucket: 2}
		}
		return sortKey{bucket: 1, when: d}
	case SortPlace:
		return sortKey{text: country(c.Place)}
	case SortAcceptanceRate:
		if !c.AcceptanceRate.Known() {
			return sortKey{bucket: 2}
		}
		return sortKey{bucket: 1, rate: c.AcceptanceRate.Value}
	case SortName:
		return sortKey{text: strings.ToLower(c.Name)}
	default:
		switch datemath.Classify(c.Deadline, now, loc) {
		case datemath.Upcoming:
			cutoff, _ := datemath.AoEEndOfDay(c.Deadline, loc)
			return sortKey{bucket: 1, when: cutoff}
		case datemath.TBD:
			return sortKey{bucket: 2}
		default:
			return sortKey{bucket: 3}
		}
	}
}

func less(a, b sortKey, mode SortMode) bool {
	if a.bucket != b.bucket {
		return a.bucket < b.bucket
	}
	switch mode {
	case SortPlace, SortName:
		return a.text < b.text
	case SortAcceptanceRate:
		return a.bucket == 1 && a.rate > b.rate
	default:
		return a.bucket == 1 && a.when.Before(b.when)
	}
}

// country is the lower-cased text after the last comma of place.
func country(place string) string {
	if i := strings.LastIndex(place, ","); i >= 0 {
		place = place[i+1:]
	}
	return strings.ToLower(strings.TrimSpace(place))
}
