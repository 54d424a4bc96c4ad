package main

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"csconfs/internal/ics"
	appLog "csconfs/internal/log"
)

func addICS(topLevel *cobra.Command, opts *rootOptions) {
	vo := &viewOptions{}
	var output string

	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Export the selected deadlines as an iCalendar feed",
		Example: `
csconfs ics --query "csrankings=all" -o deadlines.ics
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
			loc := opts.cfg.Location()
			list := v.Apply(cat.Conferences, now, loc)
			body := ics.Serialize(list, ics.Options{Name: "Conference deadlines", Location: loc, Now: now})

			if output == "" || output == "-" {
				_, err := io.WriteString(cmd.OutOrStdout(), body)
				return err
			}
			if err := os.WriteFile(output, []byte(body), 0o644); err != nil {
				return err
			}
			appLog.Info("ics feed written", "path", output, "conferences", len(list))
			return nil
		},
	}
	addViewFlags(cmd, vo)
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file (\"-\" for stdout)")
	topLevel.AddCommand(cmd)
}
