// Package datemath converts calendar date strings into Anywhere-on-Earth
// (UTC-12) deadlines and classifies them relative to a reference instant.
//
// Every function takes the reference time and the location used to read
// calendar dates explicitly; nothing here consults the wall clock.
package datemath

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used by every data source.
const DateLayout = "2006-01-02"

// DisplayLayout is the card display format for calendar dates.
const DisplayLayout = "01/02/2006"

const (
	// PassedText is returned by Countdown once the AoE instant is reached.
	PassedText = "Deadline passed"
	// TBDText is returned for absent or unparseable dates.
	TBDText = "TBD"
)

const day = 24 * time.Hour

// Status classifies a deadline relative to now.
type Status int

const (
	Upcoming Status = iota + 1
	TBD
	Passed
)

func (s Status) String() string {
	switch s {
	case Upcoming:
		return "upcoming"
	case TBD:
		return "tbd"
	case Passed:
		return "passed"
	default:
		return "unknown"
	}
}

// ParseDate reads s as a calendar date at local midnight in loc. A nil loc
// means time.Local.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AoEEndOfDay returns the AoE cutoff for dateStr.
//
// The date's end of day (23:59:59.999 in loc) is shifted to UTC, then moved
// one calendar day forward and pinned to 11:59:59.999 UTC.
func AoEEndOfDay(dateStr string, loc *time.Location) (time.Time, bool) {
	d, ok := ParseDate(dateStr, loc)
	if !ok {
		return time.Time{}, false
	}
	return aoeCutoff(d), true
}

func aoeCutoff(d time.Time) time.Time {
	eod := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(999*time.Millisecond), d.Location()).UTC()
	return time.Date(eod.Year(), eod.Month(), eod.Day()+1, 11, 59, 59, int(999*time.Millisecond), time.UTC)
}

// NowAoEMidnight truncates now+12h to its UTC calendar day.
func NowAoEMidnight(now time.Time) time.Time {
	return now.UTC().Add(12 * time.Hour).Truncate(day)
}

// Classify reports whether deadlineStr is still open at now.
func Classify(deadlineStr string, now time.Time, loc *time.Location) Status {
	cutoff, ok := AoEEndOfDay(deadlineStr, loc)
	if !ok {
		return TBD
	}
	if !cutoff.Before(NowAoEMidnight(now)) {
		return Upcoming
	}
	return Passed
}

// Countdown renders the time left until the AoE cutoff as "DDd HHh MMm SSs".
func Countdown(deadlineStr string, now time.Time, loc *time.Location) string {
	cutoff, ok := AoEEndOfDay(deadlineStr, loc)
	if !ok {
		return TBDText
	}
	diff := cutoff.Sub(now)
	if diff <= 0 {
		return PassedText
	}
	return formatRemaining(diff)
}

func formatRemaining(d time.Duration) string {
	days := d / day
	d -= days * day
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	return fmt.Sprintf("%02dd %02dh %02dm %02ds", int64(days), int64(hours), int64(minutes), int64(seconds))
}

// DisplayDate formats a calendar date as MM/DD/YYYY, or TBD.
func DisplayDate(s string, loc *time.Location) string {
	d, ok := ParseDate(s, loc)
	if !ok {
		return TBDText
	}
	return d.Format(DisplayLayout)
}

// DaysSinceEpoch is the civil day number of the calendar date s, independent
// of any zone.
func DaysSinceEpoch(s string) (int, bool) {
	d, ok := ParseDate(s, time.UTC)
	if !ok {
		return 0, false
	}
	return int(d.Unix() / int64(day/time.Second)), true
}

// Today is the civil day number of now's UTC calendar day.
func Today(now time.Time) int {
	u := now.UTC()
	d := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Unix() / int64(day/time.Second))
}

// StartOfDay is local midnight of now's calendar day in loc.
func StartOfDay(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	n := now.In(loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
}
