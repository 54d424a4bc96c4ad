package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"csconfs/internal/pipeline"
	"csconfs/internal/printers"
	"csconfs/internal/schedule"
)

func addList(topLevel *cobra.Command, opts *rootOptions) {
	vo := &viewOptions{}
	var (
		watch bool
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the selected conferences with their AoE countdowns",
		Example: `
csconfs list
csconfs list --query "csrankings=all" --sort confdate
csconfs list -q sosp --watch
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cat, err := opts.loadCatalog(ctx)
			if err != nil {
				return err
			}
			v, err := vo.view(opts, cat)
			if err != nil {
				return err
			}
			loc := opts.cfg.Location()

			render := func(now time.Time) []pipeline.Card {
				list := v.Apply(cat.Conferences, now, loc)
				if limit > 0 && limit < len(list) {
					list = list[:limit]
				}
				return pipeline.Cards(list, now, loc)
			}

			if vo.json {
				return printers.JSON(cmd.OutOrStdout(), render(time.Now()))
			}

			pp := printers.New()
			pp.Out = cmd.OutOrStdout()
			draw := func(now time.Time) {
				cards := render(now)
				pp.Title("Conference deadlines", len(cards))
				pp.Cards(cards)
			}
			if !watch {
				draw(time.Now())
				return nil
			}
			schedule.Tick(ctx, func(now time.Time) {
				// Clear the screen and home the cursor.
				_, _ = fmt.Fprint(pp.Out, "\033[H\033[2J")
				draw(now)
			})
			return nil
		},
	}
	addViewFlags(cmd, vo)
	addJSONFlag(cmd, vo)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Redraw the countdowns every second until interrupted")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many conferences (0 = all)")
	topLevel.AddCommand(cmd)
}
