package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"csconfs/internal/catalog"
	"csconfs/internal/pipeline"
)

// viewOptions are the list filters shared by list, timeline, areas and ics.
type viewOptions struct {
	// query is a dashboard URL query, e.g. "csrankings=all&core=SOSP".
	query    string
	search   string
	sort     string
	hidePast string
	json     bool
}

func addViewFlags(cmd *cobra.Command, vo *viewOptions) {
	cmd.Flags().StringVar(&vo.query, "query", "", "Selection and view as a dashboard query string (e.g. \"csrankings=all&sort=name\")")
	cmd.Flags().StringVarP(&vo.search, "search", "q", "", "Case-insensitive name filter")
	cmd.Flags().StringVar(&vo.sort, "sort", "", "Sort mode: submission_deadline, notification_date, confdate, confplace, acceptanceRate, name")
	cmd.Flags().StringVar(&vo.hidePast, "hide-past", "", "Hide passed conferences (true/false; default from config)")
}

func addJSONFlag(cmd *cobra.Command, vo *viewOptions) {
	cmd.Flags().BoolVar(&vo.json, "json", false, "Output as JSON.")
}

// view resolves the flags against the catalog and config defaults.
func (vo *viewOptions) view(opts *rootOptions, cat *catalog.Catalog) (pipeline.View, error) {
	mode, _ := pipeline.ParseSortMode(opts.cfg.Sort)
	def := pipeline.Defaults{
		Selection: cat.DefaultSelection(),
		HidePast:  opts.cfg.HidePastDefault(),
		Sort:      mode,
	}
	v := pipeline.ViewFromQuery(vo.query, cat.SelectionDatasets(), def)

	if vo.search != "" {
		v = v.SetQuery(vo.search)
	}
	if vo.sort != "" {
		m, ok := pipeline.ParseSortMode(vo.sort)
		if !ok {
			return v, fmt.Errorf("unknown sort mode %q", vo.sort)
		}
		v = v.SetSort(m)
	}
	if vo.hidePast != "" {
		b, err := strconv.ParseBool(vo.hidePast)
		if err != nil {
			return v, fmt.Errorf("--hide-past: %w", err)
		}
		v = v.SetHidePast(b)
	}
	return v, nil
}
