package main

import (
	"time"

	"github.com/spf13/cobra"

	"csconfs/internal/capture"
)

func addSnapshot(topLevel *cobra.Command, opts *rootOptions) {
	co := capture.Options{}
	var (
		baseURL string
		query   string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Capture a PNG of a running dashboard with headless Chromium",
		Example: `
csconfs serve &
csconfs snapshot --query "csrankings=all" --selector "#timeline" -o timeline.png
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseURL == "" {
				baseURL = "http://" + opts.cfg.Listen + "/"
			}
			co.URL = baseURL
			if query != "" {
				co.URL += "?" + query
			}
			co.Timeout = timeout
			return capture.Timeline(cmd.Context(), co)
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "", "Dashboard URL (default http://<listen>/)")
	cmd.Flags().StringVar(&query, "query", "", "Selection and view as a dashboard query string")
	cmd.Flags().StringVarP(&co.OutputPath, "output", "o", "timeline.png", "PNG output path")
	cmd.Flags().StringVar(&co.Selector, "selector", "", "Capture only this element (e.g. \"#timeline\")")
	cmd.Flags().IntVar(&co.Width, "width", capture.DefaultWidth, "Viewport width in pixels")
	cmd.Flags().IntVar(&co.Height, "height", capture.DefaultHeight, "Viewport height in pixels")
	cmd.Flags().DurationVar(&timeout, "timeout", capture.DefaultTimeoutSec*time.Second, "Overall capture timeout")
	topLevel.AddCommand(cmd)
}
