// Package nominatim implements driven.PlaceLookup over the Nominatim
// search API. Requests are throttled to the public server's usage policy
// and carry an identifying User-Agent.
package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
	"github.com/custodia-labs/heritage-atlas/internal/logger"
	"github.com/custodia-labs/heritage-atlas/internal/metrics"
)

// Ensure Client implements the interface.
var _ driven.PlaceLookup = (*Client)(nil)

const retryBackoff = 150 * time.Millisecond

// Client is a Nominatim search client. It is safe for concurrent use.
type Client struct {
	endpoint  string
	userAgent string
	retries   int
	http      *http.Client
	limiter   *rate.Limiter
}

// New creates a client from the lookup settings.
func New(settings domain.LookupSettings) *Client {
	endpoint := strings.TrimRight(settings.Endpoint, "/")
	if endpoint == "" {
		endpoint = domain.DefaultLookupEndpoint
	}
	limit := rate.Inf
	if settings.RatePerSec > 0 {
		limit = rate.Limit(settings.RatePerSec)
	}
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultLookupSettings().Timeout
	}
	return &Client{
		endpoint:  endpoint,
		userAgent: settings.UserAgent,
		retries:   max(settings.Retries, 0),
		http:      &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// searchHit is one element of a jsonv2 search response.
type searchHit struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name"`
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	Address     map[string]string `json:"address"`
}

// Lookup searches for query and returns at most limit places in rank order.
func (c *Client) Lookup(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = domain.DefaultSearchSettings().PlaceLimit
	}

	start := time.Now()
	defer func() {
		metrics.LookupDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	}()

	var (
		hits []searchHit
		err  error
	)
	attempts := c.retries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		hits, err = c.search(ctx, query, limit)
		if err == nil {
			if attempt > 1 {
				logger.Info("nominatim recovered after %d attempt(s) for %q", attempt, query)
			}
			break
		}
		if !transient(err) || attempt == attempts || ctx.Err() != nil {
			metrics.LookupFailTotal.Inc()
			return nil, fmt.Errorf("nominatim search %q: %w", query, err)
		}
		logger.Debug("transient nominatim error (attempt %d/%d): %v", attempt, attempts, err)
		select {
		case <-ctx.Done():
			metrics.LookupFailTotal.Inc()
			return nil, ctx.Err()
		case <-time.After(retryBackoff):
		}
	}

	places := make([]domain.Place, 0, len(hits))
	for _, h := range hits {
		lat, errLat := strconv.ParseFloat(h.Lat, 64)
		lng, errLng := strconv.ParseFloat(h.Lon, 64)
		if errLat != nil || errLng != nil {
			continue
		}
		places = append(places, domain.Place{
			Name:        h.Name,
			DisplayName: h.DisplayName,
			Coordinates: domain.Coordinates{Lat: lat, Lng: lng},
			AddressText: addressText(h.Address),
		})
		if len(places) >= limit {
			break
		}
	}
	logger.Debug("nominatim %q: %d places", query, len(places))
	return places, nil
}

func (c *Client) search(ctx context.Context, query string, limit int) ([]searchHit, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("addressdetails", "1")
	q.Set("limit", strconv.Itoa(limit))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	metrics.LookupRequestsTotal.Inc()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &statusError{code: resp.StatusCode}
	}

	var hits []searchHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return nil, err
	}
	return hits, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return "unexpected status " + strconv.Itoa(e.code)
}

// transient reports whether a retry may succeed: server errors, rate
// limiting, and truncated bodies.
func transient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}

// addressOrder lists the address parts shown, most specific first.
var addressOrder = []string{
	"village", "town", "city", "suburb", "state_district", "county", "state", "country",
}

// addressText joins the populated address parts, e.g.
// "Kolar, Kolar district, Karnataka, India".
func addressText(addr map[string]string) string {
	var parts []string
	seen := make(map[string]bool)
	for _, k := range addressOrder {
		v := strings.TrimSpace(addr[k])
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		parts = append(parts, v)
	}
	return strings.Join(parts, ", ")
}
