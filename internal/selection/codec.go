package selection

import (
	"fmt"
	"net/url"
	"strings"

	"csconfs/internal/model"
)

// AllToken stands for every name of a dataset in a URL parameter.
const AllToken = "all"

// Datasets pairs the two URL parameters with their full name lists. A is
// written to the csrankings parameter and B to core.
type Datasets struct {
	A []string
	B []string
}

func (d Datasets) universe() []string {
	return append(append([]string(nil), d.A...), d.B...)
}

// Encode compacts selected into a query string.
//
// For each dataset the selected members are listed. When the other dataset
// is fully selected, members shared with it are implied and left out. A list
// covering everything that remains collapses to "all"; an empty list omits
// the parameter.
func Encode(selected Set, d Datasets) string {
	a, b := dedupe(d.A), dedupe(d.B)
	overlap := NewSet()
	bSet := NewSet(b...)
	for _, n := range a {
		if bSet.Has(n) {
			overlap[n] = struct{}{}
		}
	}

	var parts []string
	if v := encodeParam(selected, a, b, overlap); v != "" {
		parts = append(parts, string(model.DatasetCSRankings)+"="+v)
	}
	if v := encodeParam(selected, b, a, overlap); v != "" {
		parts = append(parts, string(model.DatasetCore)+"="+v)
	}
	// Identical datasets imply each other away; keep one side explicit.
	if len(parts) == 0 && len(a) > 0 && allIn(selected, a) {
		parts = append(parts, string(model.DatasetCSRankings)+"="+AllToken)
	}
	return strings.Join(parts, "&")
}

func encodeParam(selected Set, own, other []string, overlap Set) string {
	otherFull := allIn(selected, other)

	var list []string
	for _, n := range own {
		if !selected.Has(n) {
			continue
		}
		if otherFull && overlap.Has(n) {
			continue
		}
		list = append(list, n)
	}

	expected := len(own)
	if otherFull {
		expected -= len(overlap)
	}
	switch {
	case expected > 0 && len(list) == expected:
		return AllToken
	case len(list) > 0:
		escaped := make([]string, len(list))
		for i, n := range list {
			escaped[i] = url.QueryEscape(n)
		}
		return strings.Join(escaped, ",")
	default:
		return ""
	}
}

func allIn(selected Set, names []string) bool {
	if len(names) == 0 {
		return false
	}
	for _, n := range names {
		if !selected.Has(n) {
			return false
		}
	}
	return true
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Decode expands a query string produced by Encode. "all" expands to the
// dataset's full list, a comma-joined list expands literally and both
// parameters are unioned. Names unknown to either dataset are dropped.
// Other query parameters are ignored.
func Decode(rawQuery string, d Datasets) (Set, error) {
	known := NewSet(d.universe()...)
	out := NewSet()

	rawQuery = strings.TrimPrefix(rawQuery, "?")
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(key)
		if err != nil {
			return nil, fmt.Errorf("decode selection: %w", err)
		}

		var full []string
		switch key {
		case string(model.DatasetCSRankings):
			full = d.A
		case string(model.DatasetCore):
			full = d.B
		default:
			continue
		}

		if value == AllToken {
			for _, n := range full {
				out[n] = struct{}{}
			}
			continue
		}
		for _, piece := range strings.Split(value, ",") {
			name, err := url.QueryUnescape(piece)
			if err != nil {
				return nil, fmt.Errorf("decode selection %s: %w", key, err)
			}
			name = strings.TrimSpace(name)
			if name == "" || !known.Has(name) {
				continue
			}
			out[name] = struct{}{}
		}
	}
	return out, nil
}

// Initial decodes rawQuery into a State. An empty or undecodable selection
// falls back to defaults.
func Initial(rawQuery string, d Datasets, defaults []string) State {
	universe := d.universe()
	sel, err := Decode(rawQuery, d)
	if err != nil || len(sel) == 0 {
		return New(universe, defaults...)
	}
	return New(universe, sel.Sorted()...)
}

// Query encodes the State for the URL.
func (st State) Query(d Datasets) string {
	return Encode(st.selected, d)
}
