// Package timeline projects the visible conference list onto day offsets
// for the deadline → notification bar chart.
package timeline

import (
	"time"

	"csconfs/internal/datemath"
	"csconfs/internal/model"
)

const (
	// SynthesizedDays is the notification gap assumed when a conference has
	// no notification date.
	SynthesizedDays = 90
	// PaddingDays is added to the right end of the axis.
	PaddingDays = 5
)

// Bar is one conference on the chart. Offsets are whole days from Today.
type Bar struct {
	Label           string `json:"label"`
	NormStart       int    `json:"norm_start"`
	Length          int    `json:"length"`
	IsSynthesized   bool   `json:"is_synthesized"`
	RawDeadline     string `json:"raw_deadline"`
	RawNotification string `json:"raw_notification,omitempty"`

	// DaysToDeadline and DaysToNotification feed the tooltip. The latter is
	// nil for synthesized bars.
	DaysToDeadline     int  `json:"days_to_deadline"`
	DaysToNotification *int `json:"days_to_notification"`
}

// Chart is the projected timeline. Domain is [0, max end + PaddingDays].
type Chart struct {
	Today  int    `json:"today"`
	Domain [2]int `json:"domain"`
	Bars   []Bar  `json:"bars"`
}

// Date converts an axis offset back to a UTC calendar date.
func (c Chart) Date(offset int) time.Time {
	return time.Unix(int64(c.Today+offset)*24*60*60, 0).UTC()
}

// Project keeps conferences whose deadline day is today or later, in input
// order, and lays them out from today. A missing or unparseable notification
// date is synthesized SynthesizedDays after the deadline. Conferences whose
// notification falls before the deadline are dropped.
func Project(list []model.Conference, now time.Time) Chart {
	today := datemath.Today(now)
	chart := Chart{Today: today, Bars: []Bar{}}

	maxEnd := 0
	for _, c := range list {
		start, ok := datemath.DaysSinceEpoch(c.Deadline)
		if !ok || start < today {
			continue
		}

		bar := Bar{
			Label:          c.Label(),
			RawDeadline:    c.Deadline,
			DaysToDeadline: start - today,
		}

		end, ok := datemath.DaysSinceEpoch(c.NotificationDate)
		if ok {
			bar.RawNotification = c.NotificationDate
			days := end - today
			bar.DaysToNotification = &days
		} else {
			end = start + SynthesizedDays
			bar.IsSynthesized = true
		}
		if end < start {
			continue
		}

		bar.NormStart = start - today
		bar.Length = end - start
		if e := bar.NormStart + bar.Length; e > maxEnd {
			maxEnd = e
		}
		chart.Bars = append(chart.Bars, bar)
	}

	chart.Domain = [2]int{0, maxEnd + PaddingDays}
	return chart
}
