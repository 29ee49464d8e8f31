// Package httpapi exposes the atlas over a JSON HTTP API with a
// Prometheus /metrics endpoint.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driving"
	"github.com/custodia-labs/heritage-atlas/internal/logger"
	"github.com/custodia-labs/heritage-atlas/internal/metrics"
)

const maxRequestBody = 64 * 1024

// Ports are the core services served over HTTP. Search, Layers and View
// are required.
type Ports struct {
	Search    driving.SearchService
	Layers    driving.LayerController
	Presenter driving.ResultPresenter
	Registry  driving.SiteRegistry
	Locator   driving.Locator
	View      driven.MapView
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	switch {
	case p.Search == nil:
		return errors.New("httpapi: search service is required")
	case p.Layers == nil:
		return errors.New("httpapi: layer controller is required")
	case p.View == nil:
		return errors.New("httpapi: map view is required")
	}
	return nil
}

type api struct {
	ports *Ports

	// mu serialises calls into the layer controller, presenter and view.
	mu sync.Mutex

	// searches numbers search requests as they arrive; presented is the
	// newest one handed to the presenter, guarded by mu.
	searches  atomic.Uint64
	presented uint64
}

// Handler builds the routed handler with access logging and request metrics.
func Handler(ports *Ports) (http.Handler, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}
	a := &api{ports: ports}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /api/v1/search", a.handleSearch)
	mux.HandleFunc("POST /api/v1/select", a.handleSelect)
	mux.HandleFunc("POST /api/v1/popups/{id}", a.handleOpenPopup)
	mux.HandleFunc("DELETE /api/v1/results", a.handleClearResults)
	mux.HandleFunc("GET /api/v1/clusters", a.handleClusters)
	mux.HandleFunc("POST /api/v1/clusters/expand", a.handleExpand)
	mux.HandleFunc("GET /api/v1/layers", a.handleLayers)
	mux.HandleFunc("PUT /api/v1/layers/{category}", a.handleSetLayer)
	mux.HandleFunc("PUT /api/v1/clustering", a.handleSetClustering)
	mux.HandleFunc("POST /api/v1/locate", a.handleLocate)
	mux.HandleFunc("GET /api/v1/sites/{id}", a.handleSite)
	mux.HandleFunc("GET /api/v1/view", a.handleView)

	return logger.AccessMiddleware(metricsMiddleware(mux)), nil
}

// Serve runs the API on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, ports *Ports) error {
	h, err := Handler(ports)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	logger.Info("HTTP API listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type codeWriter struct {
	http.ResponseWriter
	code int
}

func (w *codeWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware records request counts and durations by route pattern.
func metricsMiddleware(next *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cw := &codeWriter{ResponseWriter: w, code: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(cw, r)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(route, cw.code, float64(time.Since(start).Milliseconds()))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps domain errors onto status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNoResult):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnknownCategory),
		errors.Is(err, domain.ErrInvalidCoordinates):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("request failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func readJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

type searchResponse struct {
	Query             string               `json:"query"`
	Groups            []domain.ResultGroup `json:"groups"`
	Count             int                  `json:"count"`
	PlacesUnavailable bool                 `json:"placesUnavailable,omitempty"`

	// Stale is set when a later search reached the map first; the groups
	// are returned but not drawn.
	Stale bool `json:"stale,omitempty"`
}

func (a *api) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	seq := a.searches.Add(1)
	set, err := a.ports.Search.Search(r.Context(), query)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	a.mu.Lock()
	var (
		groups []domain.ResultGroup
		stale  bool
	)
	switch {
	case a.ports.Presenter == nil:
		groups = set.Groups()
	case seq > a.presented:
		groups = a.ports.Presenter.Present(set)
		a.presented = seq
	default:
		logger.Debug("Search %q superseded, not presenting", query)
		groups = set.Groups()
		stale = true
	}
	a.mu.Unlock()

	if groups == nil {
		groups = []domain.ResultGroup{}
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Query:             set.Query,
		Groups:            groups,
		Count:             len(set.Results),
		PlacesUnavailable: set.PlacesUnavailable,
		Stale:             stale,
	})
}

type selectRequest struct {
	Index int  `json:"index"`
	All   bool `json:"all"`
}

func (a *api) handleSelect(w http.ResponseWriter, r *http.Request) {
	if a.ports.Presenter == nil {
		writeError(w, http.StatusNotImplemented, "selection is not available")
		return
	}
	var req selectRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	var (
		sel domain.Selection
		err error
	)
	if req.All {
		sel, err = a.ports.Presenter.SelectAll(a.ports.Presenter.Current().Results)
	} else {
		sel, err = a.ports.Presenter.SelectIndex(req.Index)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

// handleOpenPopup opens a popup scheduled by a selection. Clients call it
// once the selection's popupAfter delay has elapsed.
func (a *api) handleOpenPopup(w http.ResponseWriter, r *http.Request) {
	if a.ports.Presenter == nil {
		writeError(w, http.StatusNotImplemented, "selection is not available")
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid highlight id")
		return
	}
	a.mu.Lock()
	opened := a.ports.Presenter.OpenPopup(domain.HighlightID(id))
	a.mu.Unlock()
	if !opened {
		writeError(w, http.StatusConflict, "highlight is no longer current")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"opened": true})
}

func (a *api) handleClearResults(w http.ResponseWriter, _ *http.Request) {
	if a.ports.Presenter != nil {
		a.mu.Lock()
		a.ports.Presenter.Clear()
		a.mu.Unlock()
	}
	w.WriteHeader(http.StatusNoContent)
}

type clusterResponse struct {
	ID       string             `json:"id"`
	Count    int                `json:"count"`
	Center   domain.Coordinates `json:"center"`
	IconSize int                `json:"iconSize"`
	Ring     []domain.Segment   `json:"ring"`
	SiteID   string             `json:"siteId,omitempty"`
}

func (a *api) handleClusters(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	a.mu.Lock()
	defer a.mu.Unlock()
	zoom := a.ports.View.Viewport().Zoom
	if z := q.Get("zoom"); z != "" {
		n, err := strconv.Atoi(z)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid zoom")
			return
		}
		zoom = n
	}
	var bounds *domain.Bounds
	if bbox := q.Get("bbox"); bbox != "" {
		b, err := domain.ParseBounds(bbox)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		bounds = &b
	}

	clusters := a.ports.Layers.Clusters(zoom, bounds)
	out := make([]clusterResponse, len(clusters))
	for i, c := range clusters {
		out[i] = clusterResponse{
			ID:       c.ID,
			Count:    c.Count(),
			Center:   c.Center,
			IconSize: c.IconSize(),
			Ring:     c.Composition(),
		}
		if c.IsSingle() {
			out[i].SiteID = c.Members[0].SiteID
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type expandRequest struct {
	ClusterID string `json:"clusterId"`
	Zoom      *int   `json:"zoom"`
}

func (a *api) handleExpand(w http.ResponseWriter, r *http.Request) {
	var req expandRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	zoom := a.ports.View.Viewport().Zoom
	if req.Zoom != nil {
		zoom = *req.Zoom
	}
	exp, err := a.ports.Layers.ExpandCluster(req.ClusterID, zoom)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if exp.Action == domain.ExpandZoomToBounds {
		a.ports.View.FitBounds(exp.Bounds)
	}
	writeJSON(w, http.StatusOK, exp)
}

func (a *api) handleLayers(w http.ResponseWriter, _ *http.Request) {
	a.mu.Lock()
	status := a.ports.Layers.Status()
	a.mu.Unlock()
	writeJSON(w, http.StatusOK, status)
}

type visibleRequest struct {
	Visible bool `json:"visible"`
}

func (a *api) handleSetLayer(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(r.PathValue("category"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var req visibleRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a.mu.Lock()
	a.ports.Layers.SetCategoryVisible(category, req.Visible)
	status := a.ports.Layers.Status()
	a.mu.Unlock()
	writeJSON(w, http.StatusOK, status)
}

type clusteringRequest struct {
	Enabled bool `json:"enabled"`
}

func (a *api) handleSetClustering(w http.ResponseWriter, r *http.Request) {
	var req clusteringRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a.mu.Lock()
	a.ports.Layers.SetClusteringEnabled(req.Enabled)
	status := a.ports.Layers.Status()
	a.mu.Unlock()
	writeJSON(w, http.StatusOK, status)
}

type locateError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *api) handleLocate(w http.ResponseWriter, r *http.Request) {
	if a.ports.Locator == nil {
		writeJSON(w, http.StatusServiceUnavailable, locateError{
			Error:   string(domain.LocateUnsupported),
			Message: domain.LocateUnsupported.Message(),
		})
		return
	}
	marker, err := a.ports.Locator.Locate(r.Context())
	metrics.ObserveLocate(err)
	if err != nil {
		var le *domain.LocateError
		if !errors.As(err, &le) {
			writeDomainError(w, err)
			return
		}
		status := http.StatusServiceUnavailable
		switch le.Kind {
		case domain.LocatePermissionDenied:
			status = http.StatusForbidden
		case domain.LocateTimeout:
			status = http.StatusGatewayTimeout
		}
		writeJSON(w, status, locateError{Error: string(le.Kind), Message: le.Message()})
		return
	}
	writeJSON(w, http.StatusOK, marker)
}

func (a *api) handleSite(w http.ResponseWriter, r *http.Request) {
	if a.ports.Registry == nil {
		writeError(w, http.StatusNotImplemented, "site registry is not available")
		return
	}
	rec, err := a.ports.Registry.Get(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type viewResponse struct {
	Viewport   domain.Viewport        `json:"viewport"`
	Highlights []domain.Highlight     `json:"highlights"`
	Location   *domain.LocationMarker `json:"location,omitempty"`
}

func (a *api) handleView(w http.ResponseWriter, _ *http.Request) {
	a.mu.Lock()
	resp := viewResponse{
		Viewport:   a.ports.View.Viewport(),
		Highlights: a.ports.View.Highlights(),
	}
	if loc, ok := a.ports.View.Location(); ok {
		resp.Location = &loc
	}
	a.mu.Unlock()
	if resp.Highlights == nil {
		resp.Highlights = []domain.Highlight{}
	}
	writeJSON(w, http.StatusOK, resp)
}
