// Package source fetches the static data files and parses them into
// conference records, area rows and acceptance statistics.
package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"csconfs/internal/dataset"
	appLog "csconfs/internal/log"
	"csconfs/internal/model"
)

// ParseConferences decodes the YAML conference list. An empty document is
// an empty list.
func ParseConferences(body []byte) ([]model.Conference, error) {
	var out []model.Conference
	if err := yaml.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parse conferences: %w", err)
	}
	kept := out[:0]
	for i, c := range out {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			appLog.Warn("conference without name skipped", "index", i)
			continue
		}
		kept = append(kept, c)
	}
	return kept, nil
}

// table is a CSV document indexed by header name.
type table struct {
	cols map[string]int
	rows [][]string
}

func readTable(body []byte, required ...string) (*table, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty table")
		}
		return nil, err
	}
	t := &table{cols: make(map[string]int, len(header))}
	for i, h := range header {
		t.cols[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, col := range required {
		if _, ok := t.cols[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

func (t *table) get(rec []string, col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// ParseAreaTable decodes an area table with columns ConferenceTitle,
// AreaTitle, ParentArea, Area and an optional NextTier flag.
func ParseAreaTable(body []byte) ([]dataset.AreaRow, error) {
	t, err := readTable(body, "ConferenceTitle", "AreaTitle")
	if err != nil {
		return nil, fmt.Errorf("parse area table: %w", err)
	}
	out := make([]dataset.AreaRow, 0, len(t.rows))
	for _, rec := range t.rows {
		out = append(out, dataset.AreaRow{
			ConferenceTitle: t.get(rec, "ConferenceTitle"),
			AreaTitle:       t.get(rec, "AreaTitle"),
			ParentArea:      t.get(rec, "ParentArea"),
			Area:            t.get(rec, "Area"),
			NextTier:        strings.EqualFold(t.get(rec, "NextTier"), "true"),
		})
	}
	return out, nil
}

// ParseAcceptance decodes acceptance statistics with columns Conference,
// Accepted and Submitted. Rows whose counts are not finite non-negative
// numbers are skipped.
func ParseAcceptance(body []byte) ([]dataset.StatRow, error) {
	t, err := readTable(body, "Conference", "Accepted", "Submitted")
	if err != nil {
		return nil, fmt.Errorf("parse acceptance table: %w", err)
	}
	out := make([]dataset.StatRow, 0, len(t.rows))
	for i, rec := range t.rows {
		name := t.get(rec, "Conference")
		accepted, errA := strconv.ParseFloat(t.get(rec, "Accepted"), 64)
		submitted, errS := strconv.ParseFloat(t.get(rec, "Submitted"), 64)
		if name == "" || errA != nil || errS != nil || !validCount(accepted) || !validCount(submitted) {
			appLog.Debug("acceptance row skipped", "row", i, "conference", name)
			continue
		}
		out = append(out, dataset.StatRow{Conference: name, Accepted: accepted, Submitted: submitted})
	}
	return out, nil
}

func validCount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
