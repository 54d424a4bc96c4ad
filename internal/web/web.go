package web

import (
	"context"
	"crypto/subtle"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"csconfs/internal/catalog"
	"csconfs/internal/config"
	"csconfs/internal/ics"
	appLog "csconfs/internal/log"
	"csconfs/internal/model"
	"csconfs/internal/pipeline"
	"csconfs/internal/timeline"
)

// Catalogs is the read side of catalog.Store.
type Catalogs interface {
	Current() (*catalog.Catalog, error)
}

// Server provides the JSON API, the iCalendar feed and the embedded UI.
type Server struct {
	cfg   *config.Config
	store Catalogs
	mux   *http.ServeMux
	loc   *time.Location
	now   func() time.Time

	// Serialized feeds keyed by raw query; an entry is valid while its
	// catalog is current and younger than icsCacheTTL.
	icsMu    sync.RWMutex
	icsCache map[string]icsCacheEntry
}

type icsCacheEntry struct {
	body      string
	loadedAt  time.Time
	updatedAt time.Time
}

const (
	icsCacheTTL     = 30 * time.Second
	icsCacheMaxKeys = 256
)

// embeddedStatic contains the single-page UI.
//
//go:embed all:static
var embeddedStatic embed.FS

// Option tunes a Server.
type Option func(*Server)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, store Catalogs, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		store:    store,
		mux:      http.NewServeMux(),
		loc:      cfg.Location(),
		now:      time.Now,
		icsCache: make(map[string]icsCacheEntry),
	}
	for _, o := range opts {
		o(s)
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// An empty username or password disables auth.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="csconfs", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Run serves on cfg.Listen until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/conferences", s.handleConferences)
	s.mux.HandleFunc("GET /api/timeline", s.handleTimeline)
	s.mux.HandleFunc("GET /api/areas", s.handleAreas)
	s.mux.HandleFunc("POST /api/selection", s.handleSelection)
	s.mux.HandleFunc("GET /api/deadlines.ics", s.handleICS)

	// Everything outside /api/ falls back to the embedded UI.
	s.mux.Handle("/", s.staticFileServer())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// staticFileServer serves the embedded files under internal/web/static.
func (s *Server) staticFileServer() http.Handler {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		appLog.Error("failed to initialize embedded static filesystem", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "static UI not available", http.StatusServiceUnavailable)
		})
	}

	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		// Unknown /api/* paths are 404, never HTML.
		if path == "/api" || strings.HasPrefix(path, "/api/") {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}

// catalogOr503 writes 503 {"error":"loading"} when no catalog is loaded yet.
func (s *Server) catalogOr503(w http.ResponseWriter) (*catalog.Catalog, bool) {
	cat, err := s.store.Current()
	if err != nil {
		if !errors.Is(err, catalog.ErrNotLoaded) {
			appLog.Error("catalog unavailable", err)
		}
		writeError(w, http.StatusServiceUnavailable, "loading")
		return nil, false
	}
	return cat, true
}

func (s *Server) defaults(cat *catalog.Catalog) pipeline.Defaults {
	mode, _ := pipeline.ParseSortMode(s.cfg.Sort)
	return pipeline.Defaults{
		Selection: cat.DefaultSelection(),
		HidePast:  s.cfg.HidePastDefault(),
		Sort:      mode,
	}
}

// viewFor decodes the request's selection and view parameters.
func (s *Server) viewFor(r *http.Request, cat *catalog.Catalog) (pipeline.View, pipeline.Defaults) {
	def := s.defaults(cat)
	return pipeline.ViewFromQuery(r.URL.RawQuery, cat.SelectionDatasets(), def), def
}

// conferencesResponse is the JSON response shape for /api/conferences.
type conferencesResponse struct {
	Conferences []pipeline.Card `json:"conferences"`
	Query       string          `json:"query"`
	Total       int             `json:"total"`
	LoadedAt    time.Time       `json:"loaded_at"`
	// HidePast and Sort echo the effective view so the UI can show them.
	HidePast bool              `json:"hide_past"`
	Sort     pipeline.SortMode `json:"sort"`
}

// handleConferences returns the filtered and sorted cards.
//
// GET /api/conferences?csrankings=...&core=...&q=...&hide_past=...&sort=...&limit=N
//   - limit: maximum number of cards (default 0, meaning all); total counts
//     every match
func (s *Server) handleConferences(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.catalogOr503(w)
	if !ok {
		return
	}
	now := s.now()
	view, def := s.viewFor(r, cat)
	list := view.Apply(cat.Conferences, now, s.loc)

	total := len(list)
	if limit := parseIntDefault(r.URL.Query().Get("limit"), 0); limit > 0 && limit < total {
		list = list[:limit]
	}

	appLog.Debug("api conferences request",
		"selected", view.Selection.Len(),
		"sort", string(view.Sort),
		"hide_past", view.HidePast,
		"total", total,
	)

	writeJSON(w, http.StatusOK, conferencesResponse{
		Conferences: pipeline.Cards(list, now, s.loc),
		Query:       view.Encode(cat.SelectionDatasets(), def),
		Total:       total,
		LoadedAt:    cat.LoadedAt,
		HidePast:    view.HidePast,
		Sort:        view.Sort,
	})
}

// timelineResponse extends the chart with calendar dates for the axis.
type timelineResponse struct {
	timeline.Chart
	TodayDate string `json:"today_date"`
	EndDate   string `json:"end_date"`
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.catalogOr503(w)
	if !ok {
		return
	}
	now := s.now()
	view, _ := s.viewFor(r, cat)
	chart := timeline.Project(view.Apply(cat.Conferences, now, s.loc), now)

	writeJSON(w, http.StatusOK, timelineResponse{
		Chart:     chart,
		TodayDate: chart.Date(0).Format("2006-01-02"),
		EndDate:   chart.Date(chart.Domain[1]).Format("2006-01-02"),
	})
}

// handleAreas returns the checkbox tree of one dataset.
//
// GET /api/areas?dataset=csrankings (default: the configured default dataset)
func (s *Server) handleAreas(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.catalogOr503(w)
	if !ok {
		return
	}
	id := cat.DefaultDataset
	if raw := r.URL.Query().Get("dataset"); raw != "" {
		parsed, err := model.ParseDatasetID(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		id = parsed
	}
	view, _ := s.viewFor(r, cat)
	tree, err := cat.AreaTree(id, view.Selection)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

type selectionResponse struct {
	Query string `json:"query"`
}

// handleSelection applies one checkbox toggle to the selection carried in
// the request URL and returns the canonical query string.
//
// POST /api/selection?<current query>
// body: {"dataset":"csrankings","parent_area":"Systems","select":true}
func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.catalogOr503(w)
	if !ok {
		return
	}
	var tg catalog.Toggle
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&tg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if _, err := model.ParseDatasetID(string(tg.Dataset)); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, def := s.viewFor(r, cat)
	names, err := cat.TargetNames(tg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	view = view.ToggleMany(names, tg.Select)

	writeJSON(w, http.StatusOK, selectionResponse{Query: view.Encode(cat.SelectionDatasets(), def)})
}

// handleICS serves the visible list as an iCalendar feed.
func (s *Server) handleICS(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.catalogOr503(w)
	if !ok {
		return
	}
	now := s.now()
	key := r.URL.RawQuery

	s.icsMu.RLock()
	ec, hit := s.icsCache[key]
	s.icsMu.RUnlock()
	if hit && ec.loadedAt.Equal(cat.LoadedAt) && now.Sub(ec.updatedAt) < icsCacheTTL {
		writeCalendar(w, ec.body)
		return
	}

	view, _ := s.viewFor(r, cat)
	body := ics.Serialize(view.Apply(cat.Conferences, now, s.loc), ics.Options{
		Name:     "Conference deadlines",
		Location: s.loc,
		Now:      now,
	})

	s.icsMu.Lock()
	if len(s.icsCache) >= icsCacheMaxKeys {
		s.icsCache = make(map[string]icsCacheEntry)
	}
	s.icsCache[key] = icsCacheEntry{body: body, loadedAt: cat.LoadedAt, updatedAt: now}
	s.icsMu.Unlock()

	writeCalendar(w, body)
}

func writeCalendar(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="deadlines.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
