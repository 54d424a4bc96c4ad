package main

import (
	"time"

	"github.com/spf13/cobra"

	"csconfs/internal/printers"
	"csconfs/internal/timeline"
)

func addTimeline(topLevel *cobra.Command, opts *rootOptions) {
	vo := &viewOptions{}
	var width int

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Draw the deadline to notification timeline of the selected conferences",
		Example: `
csconfs timeline --query "csrankings=all" --width 100
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			v, err := vo.view(opts, cat)
			if err != nil {
				return err
			}
			now := time.Now()
			chart := timeline.Project(v.Apply(cat.Conferences, now, opts.cfg.Location()), now)

			if vo.json {
				return printers.JSON(cmd.OutOrStdout(), chart)
			}
			pp := printers.New()
			pp.Out = cmd.OutOrStdout()
			pp.Width = width
			pp.Timeline(chart)
			return nil
		},
	}
	addViewFlags(cmd, vo)
	addJSONFlag(cmd, vo)
	cmd.Flags().IntVar(&width, "width", 60, "Width of the bar track in columns")
	topLevel.AddCommand(cmd)
}
