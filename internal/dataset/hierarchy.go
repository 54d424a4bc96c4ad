// Package dataset builds the parent-area → area → conference hierarchy of
// one area table and joins acceptance statistics onto conferences.
package dataset

import (
	"fmt"
	"strings"

	"csconfs/internal/model"
)

// DefaultParentArea is the bucket used for rows without a ParentArea.
const DefaultParentArea = "Other"

// AreaRow is one row of an area table.
type AreaRow struct {
	ConferenceTitle string
	AreaTitle       string
	ParentArea      string
	Area            string
	// NextTier is true when the row flags the conference as below the
	// default tier. Only some tables carry this column.
	NextTier bool
}

// MalformedRowError reports a row missing a required join key.
type MalformedRowError struct {
	Dataset model.DatasetID
	Row     int // zero-based, header excluded
	Column  string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("dataset %s: row %d: missing %s", e.Dataset, e.Row, e.Column)
}

// Options tunes Build.
type Options struct {
	// DefaultParentArea replaces an empty ParentArea. Empty means
	// DefaultParentArea.
	DefaultParentArea string
}

// Hierarchy is the immutable area tree of one dataset.
type Hierarchy struct {
	id model.DatasetID

	parents     []string
	areas       map[string][]model.AreaEntry
	confsByArea map[string][]string
	all         []string
	known       map[string]struct{}
	nextTier    map[string]struct{}
}

// Build groups rows into a Hierarchy.
//
// AreaEntry values are unique by area title within a parent. Conference
// titles collapse per area title. Parent areas, areas and conferences keep
// the order in which they first appear.
func Build(id model.DatasetID, rows []AreaRow, opts Options) (*Hierarchy, error) {
	other := opts.DefaultParentArea
	if other == "" {
		other = DefaultParentArea
	}

	h := &Hierarchy{
		id:          id,
		areas:       make(map[string][]model.AreaEntry),
		confsByArea: make(map[string][]string),
		known:       make(map[string]struct{}),
		nextTier:    make(map[string]struct{}),
	}
	seenInArea := make(map[string]map[string]struct{})

	for i, row := range rows {
		title := strings.TrimSpace(row.ConferenceTitle)
		areaTitle := strings.TrimSpace(row.AreaTitle)
		if title == "" {
			return nil, &MalformedRowError{Dataset: id, Row: i, Column: "ConferenceTitle"}
		}
		if areaTitle == "" {
			return nil, &MalformedRowError{Dataset: id, Row: i, Column: "AreaTitle"}
		}
		parent := strings.TrimSpace(row.ParentArea)
		if parent == "" {
			parent = other
		}

		if _, ok := h.areas[parent]; !ok {
			h.parents = append(h.parents, parent)
			h.areas[parent] = nil
		}
		if !containsArea(h.areas[parent], areaTitle) {
			h.areas[parent] = append(h.areas[parent], model.AreaEntry{
				Area:      strings.TrimSpace(row.Area),
				AreaTitle: areaTitle,
			})
		}

		seen := seenInArea[areaTitle]
		if seen == nil {
			seen = make(map[string]struct{})
			seenInArea[areaTitle] = seen
		}
		if _, dup := seen[title]; !dup {
			seen[title] = struct{}{}
			h.confsByArea[areaTitle] = append(h.confsByArea[areaTitle], title)
		}
		if _, dup := h.known[title]; !dup {
			h.known[title] = struct{}{}
			h.all = append(h.all, title)
		}
		if row.NextTier {
			h.nextTier[title] = struct{}{}
		}
	}
	return h, nil
}

func containsArea(entries []model.AreaEntry, areaTitle string) bool {
	for _, e := range entries {
		if e.AreaTitle == areaTitle {
			return true
		}
	}
	return false
}

// ID returns the dataset this hierarchy was built from.
func (h *Hierarchy) ID() model.DatasetID { return h.id }

// ParentAreas lists parent areas in first-seen order.
func (h *Hierarchy) ParentAreas() []string {
	return append([]string(nil), h.parents...)
}

// Areas lists the areas under parent.
func (h *Hierarchy) Areas(parent string) []model.AreaEntry {
	return append([]model.AreaEntry(nil), h.areas[parent]...)
}

// ConferencesByArea lists the conference names of one area title.
func (h *Hierarchy) ConferencesByArea(areaTitle string) []string {
	return append([]string(nil), h.confsByArea[areaTitle]...)
}

// ConferencesByParent flattens every area under parent. A name listed in
// several areas appears once.
func (h *Hierarchy) ConferencesByParent(parent string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, a := range h.areas[parent] {
		for _, name := range h.confsByArea[a.AreaTitle] {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// AllNames lists every conference name of the dataset.
func (h *Hierarchy) AllNames() []string {
	return append([]string(nil), h.all...)
}

// Contains reports whether name belongs to the dataset.
func (h *Hierarchy) Contains(name string) bool {
	_, ok := h.known[name]
	return ok
}

// DefaultNames is AllNames minus conferences flagged NextTier.
func (h *Hierarchy) DefaultNames() []string {
	out := make([]string, 0, len(h.all))
	for _, name := range h.all {
		if _, skip := h.nextTier[name]; !skip {
			out = append(out, name)
		}
	}
	return out
}
