package services

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driving"
	"github.com/custodia-labs/heritage-atlas/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService merges coordinate parsing, registry matches and remote
// place lookup into one result set.
type SearchService struct {
	registry driving.SiteRegistry
	lookup   driven.PlaceLookup
	settings domain.SearchSettings
}

// NewSearchService creates a search service. lookup is optional (can be nil).
func NewSearchService(registry driving.SiteRegistry, lookup driven.PlaceLookup, settings domain.SearchSettings) *SearchService {
	if settings.MinQueryLength < domain.MinQueryLength {
		settings.MinQueryLength = domain.MinQueryLength
	}
	return &SearchService{registry: registry, lookup: lookup, settings: settings}
}

// Search runs the pipeline for one query. Each call works only on its
// own query and accumulator, so overlapping calls cannot interfere.
// A failed place lookup degrades to local results; Search itself only
// fails if ctx is already done.
func (s *SearchService) Search(ctx context.Context, query string) (domain.ResultSet, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	set := domain.ResultSet{Query: query}
	if err := ctx.Err(); err != nil {
		return set, err
	}

	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < s.settings.MinQueryLength {
		logger.Debug("Query shorter than %d, returning no results", s.settings.MinQueryLength)
		return set, nil
	}

	if c, ok := ParseCoordinates(trimmed); ok {
		logger.Debug("Parsed as coordinates %s", c)
		set.Results = []domain.SearchResult{{
			Kind:        domain.ResultCoordinate,
			Label:       c.String(),
			Coordinates: c,
		}}
		return set, nil
	}

	var (
		wg        sync.WaitGroup
		local     []domain.SearchResult
		places    []domain.SearchResult
		lookupErr error
	)

	if s.lookup != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			places, lookupErr = s.placeSearch(ctx, query)
		}()
	} else {
		lookupErr = domain.ErrLookupUnavailable
	}

	for _, rec := range s.registry.FilterByText(trimmed) {
		local = append(local, domain.SearchResult{
			Kind:        domain.ResultHeritageSite,
			Label:       rec.DisplayName(),
			Coordinates: rec.Coordinates,
			Category:    rec.Category,
			SiteID:      rec.ID,
		})
	}
	logger.Debug("Local matches: %d", len(local))

	wg.Wait()

	if lookupErr != nil {
		logger.Warn("Place lookup failed, using local results only: %v", lookupErr)
		set.PlacesUnavailable = true
	}
	logger.Debug("Place matches: %d", len(places))

	set.Results = append(local, places...)
	logger.Info("Final results: %d", len(set.Results))
	return set, nil
}

// placeSearch calls the remote lookup and converts its hits, dropping
// any with invalid coordinates.
func (s *SearchService) placeSearch(ctx context.Context, query string) ([]domain.SearchResult, error) {
	hits, err := s.lookup.Lookup(ctx, query, s.settings.PlaceLimit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SearchResult, 0, len(hits))
	for _, p := range hits {
		if !p.Coordinates.Valid() {
			logger.Debug("Dropping place %q with invalid coordinates", p.DisplayName)
			continue
		}
		label := p.Name
		if label == "" {
			label = p.DisplayName
		}
		address := p.AddressText
		if address == "" {
			address = p.DisplayName
		}
		out = append(out, domain.SearchResult{
			Kind:        domain.ResultPlace,
			Label:       label,
			Coordinates: p.Coordinates,
			AddressText: address,
		})
	}
	return out, nil
}
