package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"csconfs/internal/catalog"
	"csconfs/internal/config"
	appLog "csconfs/internal/log"
	"csconfs/internal/model"
	"csconfs/internal/schedule"
	"csconfs/internal/source"
)

const version = "0.1.0"

// rootOptions holds persistent flag values.
type rootOptions struct {
	configPath string
	listen     string
	debug      bool

	// cfg is filled by the persistent pre-run.
	cfg *config.Config
}

func main() {
	ctx, cancel := signalContext()
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		appLog.Error("command failed", err)
		appLog.Sync()
		os.Exit(1)
	}
	appLog.Sync()
}

// signalContext is cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			appLog.Info("signal received, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "csconfs",
		Short:         "Computer science conference deadlines with AoE countdowns.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "/etc/csconfs/config.yaml", "Path to config file")
	cmd.PersistentFlags().StringVar(&opts.listen, "listen", "", "HTTP listen address (overrides config if set)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	addServe(cmd, opts)
	addList(cmd, opts)
	addTimeline(cmd, opts)
	addAreas(cmd, opts)
	addICS(cmd, opts)
	addSnapshot(cmd, opts)
	return cmd
}

// load reads the config file and applies flag overrides.
func (o *rootOptions) load() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		if cfg == nil {
			return err
		}
		// First-run save failed; defaults are still usable.
		appLog.Warn("could not write default config", "config_path", o.configPath, "err", err)
	}

	if o.listen != "" {
		cfg.Listen = o.listen
	}
	level := appLog.ParseLevel(cfg.LogLevel)
	if o.debug {
		level = appLog.LevelDebug
	}
	appLog.SetLevel(level)

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := schedule.Validate(cfg.RefreshCron); err != nil {
		return err
	}

	appLog.Debug("effective config",
		"config_path", o.configPath,
		"listen", cfg.Listen,
		"timezone", cfg.Timezone,
		"refresh", cfg.RefreshCron,
		"cache_dir", cfg.CacheDir,
		"default_dataset", cfg.DefaultDataset,
		"sort", cfg.Sort,
		"hide_past", cfg.HidePastDefault(),
	)
	o.cfg = cfg
	return nil
}

func (o *rootOptions) catalogOptions() catalog.Options {
	id, err := model.ParseDatasetID(o.cfg.DefaultDataset)
	if err != nil {
		id = model.DatasetCSRankings
	}
	return catalog.Options{DefaultDataset: id, DefaultParentArea: o.cfg.DefaultParentArea}
}

func (o *rootOptions) newStore() *catalog.Store {
	return catalog.NewStore(source.NewFetcher(o.cfg.CacheDir), catalog.SourcesFromConfig(o.cfg), o.catalogOptions())
}

// loadCatalog loads all sources once for the one-shot commands.
func (o *rootOptions) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	return catalog.Load(ctx, source.NewFetcher(o.cfg.CacheDir), catalog.SourcesFromConfig(o.cfg), o.catalogOptions())
}
