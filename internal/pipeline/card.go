package pipeline

import (
	"time"

	"csconfs/internal/datemath"
	"csconfs/internal/model"
)

// Card is the display form of one conference at a given instant.
type Card struct {
	model.Conference

	Label     string `json:"label"`
	Status    string `json:"status"`
	Countdown string `json:"countdown"`
	// AoEDeadline is the UTC cutoff instant, nil while the deadline is TBD.
	AoEDeadline *time.Time `json:"aoe_deadline"`

	DisplayDeadline     string `json:"display_deadline"`
	DisplayNotification string `json:"display_notification"`
	DisplayDate         string `json:"display_date"`
	AcceptanceRate      string `json:"acceptance_rate"`
}

// NewCard renders c for now.
func NewCard(c model.Conference, now time.Time, loc *time.Location) Card {
	card := Card{
		Conference:          c,
		Label:               c.Label(),
		Status:              datemath.Classify(c.Deadline, now, loc).String(),
		Countdown:           datemath.Countdown(c.Deadline, now, loc),
		DisplayDeadline:     datemath.DisplayDate(c.Deadline, loc),
		DisplayNotification: datemath.DisplayDate(c.NotificationDate, loc),
		DisplayDate:         datemath.DisplayDate(c.Date, loc),
		AcceptanceRate:      c.AcceptanceRate.String(),
	}
	if cutoff, ok := datemath.AoEEndOfDay(c.Deadline, loc); ok {
		card.AoEDeadline = &cutoff
	}
	return card
}

// Cards renders every conference of list in order.
func Cards(list []model.Conference, now time.Time, loc *time.Location) []Card {
	out := make([]Card, len(list))
	for i, c := range list {
		out[i] = NewCard(c, now, loc)
	}
	return out
}
