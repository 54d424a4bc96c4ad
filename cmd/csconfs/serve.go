package main

import (
	"github.com/spf13/cobra"

	appLog "csconfs/internal/log"
	"csconfs/internal/schedule"
	"csconfs/internal/web"
)

func addServe(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard and JSON API, reloading sources on the refresh schedule",
		Example: `
csconfs serve --listen 0.0.0.0:8080
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := opts.cfg
			appLog.Info("csconfs starting", "version", version, "listen", cfg.Listen, "refresh", cfg.RefreshCron)

			store := opts.newStore()

			// The API answers 503 until the first load completes.
			go func() {
				if err := store.Reload(ctx); err != nil {
					appLog.Error("initial load failed; waiting for next scheduled refresh", err)
				}
			}()

			refresher, err := schedule.NewRefresher(cfg.RefreshCron, store.Reload)
			if err != nil {
				return err
			}
			refresher.Start()
			defer refresher.Stop()

			err = web.NewServer(cfg, store).Run(ctx)
			appLog.Info("csconfs exiting")
			return err
		},
	}
	topLevel.AddCommand(cmd)
}
