package model

import (
	"fmt"
	"math"
	"strconv"
)

// DatasetID names one of the two area classification sources.
type DatasetID string

const (
	// DatasetCSRankings is the broad rankings dataset.
	DatasetCSRankings DatasetID = "csrankings"
	// DatasetCore is the narrower curated dataset.
	DatasetCore DatasetID = "core"
)

// Datasets lists every known dataset in URL parameter order.
var Datasets = []DatasetID{DatasetCSRankings, DatasetCore}

// ParseDatasetID validates s against the known datasets.
func ParseDatasetID(s string) (DatasetID, error) {
	for _, id := range Datasets {
		if string(id) == s {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown dataset %q", s)
}

// Conference is one record of the conference list. Records are loaded once
// and treated as immutable afterwards.
//
// Name is the join key against area rows and acceptance statistics. It is
// not guaranteed to be unique across datasets.
type Conference struct {
	Name             string `yaml:"name" json:"name"`
	Year             int    `yaml:"year,omitempty" json:"year,omitempty"`
	Deadline         string `yaml:"deadline,omitempty" json:"deadline,omitempty"`
	NotificationDate string `yaml:"notification_date,omitempty" json:"notification_date,omitempty"`
	Date             string `yaml:"date,omitempty" json:"date,omitempty"`
	Place            string `yaml:"place,omitempty" json:"place,omitempty"`

	// Display-only fields.
	Link         string `yaml:"link,omitempty" json:"link,omitempty"`
	Description  string `yaml:"description,omitempty" json:"description,omitempty"`
	Note         string `yaml:"note,omitempty" json:"note,omitempty"`
	GeneralChair string `yaml:"general_chair,omitempty" json:"general_chair,omitempty"`
	ProgramChair string `yaml:"program_chair,omitempty" json:"program_chair,omitempty"`

	// AcceptanceRate is filled by dataset.JoinAcceptanceRate.
	AcceptanceRate AcceptanceRate `yaml:"-" json:"-"`
}

// Label is the "name year" form used by cards and timeline bars.
func (c Conference) Label() string {
	if c.Year == 0 {
		return c.Name
	}
	return c.Name + " " + strconv.Itoa(c.Year)
}

// RateStatus tells whether an acceptance rate can be shown.
type RateStatus int

const (
	// RateUnknown means no statistics row matched the conference name.
	RateUnknown RateStatus = iota
	// RateUnavailable means statistics matched but reported zero submissions.
	RateUnavailable
	// RateKnown means Value holds accepted/submitted.
	RateKnown
)

// AcceptanceRate is accepted/submitted in [0,1] when Status is RateKnown.
type AcceptanceRate struct {
	Value  float64
	Status RateStatus
}

// Known reports a usable rate. A non-finite value never counts as known.
func (r AcceptanceRate) Known() bool {
	return r.Status == RateKnown && !math.IsNaN(r.Value) && !math.IsInf(r.Value, 0)
}

func (r AcceptanceRate) String() string {
	switch {
	case r.Known():
		return strconv.FormatFloat(r.Value*100, 'f', 1, 64) + "%"
	case r.Status == RateUnavailable:
		return "unavailable"
	default:
		return "N/A"
	}
}

// AreaEntry is one topical sub-area within a parent area. AreaTitle is the
// join key into conference membership.
type AreaEntry struct {
	Area      string `json:"area"`
	AreaTitle string `json:"area_title"`
}
