package cache

import (
	"context"
	"strconv"
	"strings"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
	"github.com/custodia-labs/heritage-atlas/internal/logger"
	"github.com/custodia-labs/heritage-atlas/internal/metrics"
)

// Ensure Lookup implements the interface.
var _ driven.PlaceLookup = (*Lookup)(nil)

// Lookup serves repeated queries from a cache. Only successful responses
// are stored, so a failed lookup is retried on the next query.
type Lookup struct {
	next    driven.PlaceLookup
	cache   driven.PlaceCache
	backend string
}

// NewLookup decorates next with cache. backend labels the cache metrics.
func NewLookup(next driven.PlaceLookup, cache driven.PlaceCache, backend string) *Lookup {
	return &Lookup{next: next, cache: cache, backend: backend}
}

// Lookup implements driven.PlaceLookup.
func (l *Lookup) Lookup(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	key := Key(query, limit)
	if places, ok := l.cache.Get(ctx, key); ok {
		metrics.CacheHitsTotal.WithLabelValues(l.backend).Inc()
		return places, nil
	}
	metrics.CacheMissesTotal.WithLabelValues(l.backend).Inc()

	places, err := l.next.Lookup(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if err := l.cache.Set(ctx, key, places); err != nil {
		logger.Warn("cache set %s (%s): %v", key, l.backend, err)
	}
	return places, nil
}

// Key normalises a query so that case and spacing variants share an entry.
func Key(query string, limit int) string {
	q := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	return strconv.Itoa(limit) + ":" + q
}
