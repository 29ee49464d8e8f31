package sitesource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
	"github.com/custodia-labs/heritage-atlas/internal/logger"
)

// Ensure CSVSource implements the interface.
var _ driven.SiteSource = (*CSVSource)(nil)

// maxBodyBytes caps a remote export.
const maxBodyBytes = 64 << 20

// CSVSource fetches category exports from files or URLs.
type CSVSource struct {
	locations map[domain.Category]string
	client    *http.Client
	userAgent string
}

// NewCSVSource creates a source over per-category locations. Categories
// without a location fail with domain.ErrSourceUnavailable.
func NewCSVSource(locations map[domain.Category]string, userAgent string) *CSVSource {
	locs := make(map[domain.Category]string, len(locations))
	for c, l := range locations {
		locs[c] = l
	}
	return &CSVSource{
		locations: locs,
		client:    &http.Client{Timeout: 30 * time.Second},
		userAgent: userAgent,
	}
}

// SetHTTPClient replaces the client used for remote exports.
func (s *CSVSource) SetHTTPClient(c *http.Client) {
	s.client = c
}

// Location returns the configured location of a category.
func (s *CSVSource) Location(category domain.Category) string {
	return s.locations[category]
}

// Fetch reads and parses the category's export.
func (s *CSVSource) Fetch(ctx context.Context, category domain.Category) (driven.Table, error) {
	loc := s.locations[category]
	if loc == "" {
		return driven.Table{}, fmt.Errorf("%s: %w", category, domain.ErrSourceUnavailable)
	}

	var (
		body io.ReadCloser
		err  error
	)
	if isRemote(loc) {
		body, err = s.get(ctx, loc)
	} else {
		body, err = os.Open(loc)
	}
	if err != nil {
		return driven.Table{}, err
	}
	defer body.Close()

	t, err := ParseCSV(body)
	if err != nil {
		return driven.Table{}, fmt.Errorf("parse %s: %w", loc, err)
	}
	logger.Debug("Read %s export %s: %d columns, %d rows", category, loc, len(t.Header), len(t.Rows))
	return t, nil
}

func (s *CSVSource) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}
	return struct {
		io.Reader
		io.Closer
	}{io.LimitReader(resp.Body, maxBodyBytes), resp.Body}, nil
}

func isRemote(loc string) bool {
	return strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://")
}

// ParseCSV reads a header row and data rows. Rows may have any number of
// fields; blank lines are dropped.
func ParseCSV(r io.Reader) (driven.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return driven.Table{}, errors.New("empty export")
	}
	if err != nil {
		return driven.Table{}, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	t := driven.Table{Header: header}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return driven.Table{}, err
		}
		if blankRow(row) {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
