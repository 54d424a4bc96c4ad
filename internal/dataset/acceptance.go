package dataset

import (
	"math"

	"csconfs/internal/model"
)

// StatRow is one line of acceptance statistics.
type StatRow struct {
	Conference string
	Accepted   float64
	Submitted  float64
}

type totals struct {
	accepted  float64
	submitted float64
}

// AggregateStats sums accepted and submitted counts per exact conference
// name. A rate is known only when the ratio is finite and within [0, 1].
func AggregateStats(rows []StatRow) map[string]model.AcceptanceRate {
	sums := make(map[string]*totals)
	for _, r := range rows {
		t := sums[r.Conference]
		if t == nil {
			t = &totals{}
			sums[r.Conference] = t
		}
		t.accepted += r.Accepted
		t.submitted += r.Submitted
	}

	out := make(map[string]model.AcceptanceRate, len(sums))
	for name, t := range sums {
		if !(t.submitted > 0) {
			out[name] = model.AcceptanceRate{Status: model.RateUnavailable}
			continue
		}
		v := t.accepted / t.submitted
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1 {
			out[name] = model.AcceptanceRate{Status: model.RateUnavailable}
			continue
		}
		out[name] = model.AcceptanceRate{Value: v, Status: model.RateKnown}
	}
	return out
}

// JoinAcceptanceRate returns a copy of conferences with AcceptanceRate set
// from statsByName. Conferences without a matching name keep RateUnknown.
func JoinAcceptanceRate(conferences []model.Conference, statsByName map[string]model.AcceptanceRate) []model.Conference {
	out := make([]model.Conference, len(conferences))
	for i, c := range conferences {
		if rate, ok := statsByName[c.Name]; ok {
			c.AcceptanceRate = rate
		} else {
			c.AcceptanceRate = model.AcceptanceRate{}
		}
		out[i] = c
	}
	return out
}
