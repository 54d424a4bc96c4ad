// Package ics exports conference deadlines and event dates as an
// iCalendar feed.
package ics

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"csconfs/internal/datemath"
	"csconfs/internal/model"
)

// ProductID identifies the feed producer.
const ProductID = "-//csconfs//Conference deadlines//EN"

// Options tunes Export.
type Options struct {
	// Name is shown by calendar clients as the calendar title.
	Name string
	// Location reads calendar dates before the AoE adjustment.
	Location *time.Location
	// Now stamps DTSTAMP.
	Now time.Time
}

// Export builds one calendar from list:
//   - a timed event at the AoE cutoff for every parseable deadline
//   - an all-day event for every parseable notification date
//   - an all-day event spanning the conference date
//
// UIDs depend only on the conference label and the event kind so that
// subscribers see updates rather than duplicates after a reload.
func Export(list []model.Conference, opts Options) *ical.Calendar {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	stamp := opts.Now.UTC()
	if opts.Now.IsZero() {
		stamp = time.Now().UTC()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	seen := make(map[string]int)
	newUID := func(c model.Conference, kind string) string {
		id := uid(c, kind)
		seen[id]++
		if n := seen[id]; n > 1 {
			return fmt.Sprintf("%s-%d@csconfs", strings.TrimSuffix(id, "@csconfs"), n)
		}
		return id
	}

	for _, c := range list {
		label := c.Label()

		if cutoff, ok := datemath.AoEEndOfDay(c.Deadline, loc); ok {
			ev := cal.AddEvent(newUID(c, "deadline"))
			ev.SetDtStampTime(stamp)
			ev.SetStartAt(cutoff)
			ev.SetEndAt(cutoff)
			ev.SetSummary(label + " submission deadline (AoE)")
			setCommon(ev, c)
		}

		if d, ok := datemath.ParseDate(c.NotificationDate, loc); ok {
			ev := cal.AddEvent(newUID(c, "notification"))
			ev.SetDtStampTime(stamp)
			ev.SetAllDayStartAt(d)
			ev.SetAllDayEndAt(d.AddDate(0, 0, 1))
			ev.SetSummary(label + " notification")
			setCommon(ev, c)
		}

		if d, ok := datemath.ParseDate(c.Date, loc); ok {
			ev := cal.AddEvent(newUID(c, "conference"))
			ev.SetDtStampTime(stamp)
			ev.SetAllDayStartAt(d)
			ev.SetAllDayEndAt(d.AddDate(0, 0, 1))
			ev.SetSummary(label)
			if c.Place != "" {
				ev.SetLocation(c.Place)
			}
			setCommon(ev, c)
		}
	}
	return cal
}

func setCommon(ev *ical.VEvent, c model.Conference) {
	if c.Link != "" {
		ev.SetURL(c.Link)
	}
	var desc []string
	if c.Description != "" {
		desc = append(desc, c.Description)
	}
	if c.Note != "" {
		desc = append(desc, c.Note)
	}
	if c.AcceptanceRate.Known() {
		desc = append(desc, "Acceptance rate: "+c.AcceptanceRate.String())
	}
	if len(desc) > 0 {
		ev.SetDescription(strings.Join(desc, "\n"))
	}
}

// uid is stable across feeds. Records sharing a name and year are told
// apart by deadline and note.
func uid(c model.Conference, kind string) string {
	key := strings.Join([]string{c.Label(), c.Deadline, c.Note, kind}, "\x00")
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:12]) + "@csconfs"
}

// Serialize renders the feed for list.
func Serialize(list []model.Conference, opts Options) string {
	return Export(list, opts).Serialize()
}
