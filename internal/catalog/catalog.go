// Package catalog loads every data source into an immutable Catalog and
// holds the most recent one for concurrent readers.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"csconfs/internal/config"
	"csconfs/internal/dataset"
	appLog "csconfs/internal/log"
	"csconfs/internal/model"
	"csconfs/internal/selection"
	"csconfs/internal/source"
)

// ErrNotLoaded is returned by Store.Current before the first successful load.
var ErrNotLoaded = errors.New("catalog not loaded")

// Catalog is one consistent snapshot of the loaded data.
type Catalog struct {
	Conferences []model.Conference
	Datasets    map[model.DatasetID]*dataset.Hierarchy
	// DefaultDataset seeds the selection when a request carries none.
	DefaultDataset model.DatasetID
	LoadedAt       time.Time
}

// SelectionDatasets pairs the two datasets' names for the URL codec.
func (c *Catalog) SelectionDatasets() selection.Datasets {
	var d selection.Datasets
	if h := c.Datasets[model.DatasetCSRankings]; h != nil {
		d.A = h.AllNames()
	}
	if h := c.Datasets[model.DatasetCore]; h != nil {
		d.B = h.AllNames()
	}
	return d
}

// DefaultSelection is the default dataset's names without next-tier entries.
func (c *Catalog) DefaultSelection() []string {
	if h := c.Datasets[c.DefaultDataset]; h != nil {
		return h.DefaultNames()
	}
	return nil
}

// Sources maps the config onto fetchable sources.
type Sources struct {
	Conferences source.Source
	CSRankings  source.Source
	Core        source.Source
	// Acceptance is optional; a zero value skips the join.
	Acceptance source.Source
}

// SourcesFromConfig builds Sources from cfg.
func SourcesFromConfig(cfg *config.Config) Sources {
	s := Sources{
		Conferences: source.Source{ID: "conferences", Location: cfg.Sources.Conferences},
		CSRankings:  source.Source{ID: string(model.DatasetCSRankings), Location: cfg.Sources.CSRankings},
		Core:        source.Source{ID: string(model.DatasetCore), Location: cfg.Sources.Core},
	}
	if cfg.Sources.Acceptance != "" {
		s.Acceptance = source.Source{ID: "acceptance", Location: cfg.Sources.Acceptance}
	}
	return s
}

// Fetcher is the part of source.Fetcher the loader needs.
type Fetcher interface {
	FetchOne(ctx context.Context, src source.Source) (source.FetchResult, error)
}

// Options configures Load.
type Options struct {
	DefaultDataset    model.DatasetID
	DefaultParentArea string
	Now               func() time.Time
}

// Load fetches all sources concurrently and builds a Catalog. Failure of a
// required source fails the load. A failing acceptance source is logged and
// rates stay unknown.
func Load(ctx context.Context, f Fetcher, srcs Sources, opts Options) (*Catalog, error) {
	var (
		conferences []model.Conference
		rows        = make(map[model.DatasetID][]dataset.AreaRow, 2)
		stats       []dataset.StatRow
		mu          sync.Mutex
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := f.FetchOne(gctx, srcs.Conferences)
		if err != nil {
			return err
		}
		conferences, err = source.ParseConferences(res.Body)
		return err
	})
	for id, src := range map[model.DatasetID]source.Source{
		model.DatasetCSRankings: srcs.CSRankings,
		model.DatasetCore:       srcs.Core,
	} {
		g.Go(func() error {
			res, err := f.FetchOne(gctx, src)
			if err != nil {
				return err
			}
			parsed, err := source.ParseAreaTable(res.Body)
			if err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			mu.Lock()
			rows[id] = parsed
			mu.Unlock()
			return nil
		})
	}
	if srcs.Acceptance.Location != "" {
		g.Go(func() error {
			res, err := f.FetchOne(gctx, srcs.Acceptance)
			if err != nil {
				appLog.Error("acceptance source unavailable; rates stay N/A", err)
				return nil
			}
			parsed, err := source.ParseAcceptance(res.Body)
			if err != nil {
				appLog.Error("acceptance source unparseable; rates stay N/A", err)
				return nil
			}
			stats = parsed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	cat := &Catalog{
		Datasets:       make(map[model.DatasetID]*dataset.Hierarchy, len(rows)),
		DefaultDataset: opts.DefaultDataset,
	}
	if cat.DefaultDataset == "" {
		cat.DefaultDataset = model.DatasetCSRankings
	}
	for _, id := range model.Datasets {
		h, err := dataset.Build(id, rows[id], dataset.Options{DefaultParentArea: opts.DefaultParentArea})
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		cat.Datasets[id] = h
	}
	cat.Conferences = dataset.JoinAcceptanceRate(conferences, dataset.AggregateStats(stats))

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	cat.LoadedAt = now()

	appLog.Info("catalog loaded",
		"conferences", len(cat.Conferences),
		"csrankings", len(cat.Datasets[model.DatasetCSRankings].AllNames()),
		"core", len(cat.Datasets[model.DatasetCore].AllNames()),
		"acceptance_rows", len(stats),
	)
	return cat, nil
}

// Store holds the latest Catalog. Reads never block on a reload in flight.
type Store struct {
	fetcher Fetcher
	sources Sources
	opts    Options

	mu      sync.RWMutex
	current *Catalog
	lastErr error

	reloadMu sync.Mutex
}

// NewStore creates an empty Store. Call Reload to populate it.
func NewStore(f Fetcher, srcs Sources, opts Options) *Store {
	return &Store{fetcher: f, sources: srcs, opts: opts}
}

// Current returns the latest catalog or ErrNotLoaded.
func (s *Store) Current() (*Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		if s.lastErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotLoaded, s.lastErr)
		}
		return nil, ErrNotLoaded
	}
	return s.current, nil
}

// Reload loads a fresh catalog. On failure the previous catalog stays in
// place.
func (s *Store) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	cat, err := Load(ctx, s.fetcher, s.sources, s.opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		appLog.Error("catalog reload failed", err, "have_previous", s.current != nil)
		return err
	}
	s.current = cat
	s.lastErr = nil
	return nil
}

// Set installs cat directly.
func (s *Store) Set(cat *Catalog) {
	s.mu.Lock()
	s.current = cat
	s.lastErr = nil
	s.mu.Unlock()
}
