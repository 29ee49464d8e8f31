package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
)

// siteNamespace seeds deterministic site IDs.
var siteNamespace = uuid.MustParse("6f1b7a52-3c1e-4d0a-9b7e-2a4c8d5e9f10")

// columnRule matches a header to a record field. Exact names are tried
// across all headers first, then substrings in order. Headers containing
// any excluded term never match.
type columnRule struct {
	field    string
	exact    []string
	contains []string
	excludes []string
}

var (
	latRule = columnRule{field: "lat", exact: []string{"lat", "latitude"}}
	lngRule = columnRule{field: "lng", exact: []string{"lng", "longitude", "lon", "long"}}

	descriptionRule = columnRule{
		field:    "description",
		exact:    []string{"description", "notes", "remarks"},
		contains: []string{"description"},
	}
)

func nameRule(c domain.Category) columnRule {
	return columnRule{
		field:    "name",
		exact:    []string{"name", c.String() + " name", "title"},
		contains: []string{"name"},
		excludes: []string{"village", "taluk", "district", "deity"},
	}
}

func locationRules() []columnRule {
	return []columnRule{
		{field: domain.AttrVillage, exact: []string{"village"}, contains: []string{"village"}},
		{field: domain.AttrTaluk, exact: []string{"taluk"}, contains: []string{"taluk"}},
		{field: domain.AttrDistrict, exact: []string{"district"}, contains: []string{"district"}},
	}
}

// attributeRules returns the per-category attribute rules in field order.
// The herostone period is resolved separately from two columns.
func attributeRules(c domain.Category) []columnRule {
	currentStatus := columnRule{field: domain.AttrCurrentStatus, contains: []string{"current status"}}
	switch c {
	case domain.CategoryInscription:
		return append(locationRules(),
			columnRule{field: domain.AttrLanguage, exact: []string{"language"}, contains: []string{"inscription language", "language"}},
			columnRule{field: domain.AttrScript, exact: []string{"script"}, contains: []string{"script"}},
			columnRule{field: domain.AttrDynasty, exact: []string{"dynasty"}, contains: []string{"dynasty"}},
			columnRule{field: domain.AttrCentury, exact: []string{"century"}, contains: []string{"century"}},
			currentStatus,
		)
	case domain.CategoryHerostone:
		return append(locationRules(),
			columnRule{field: domain.AttrHerostoneType, exact: []string{"type"}, contains: []string{"type"}},
			currentStatus,
		)
	case domain.CategoryTemple:
		return []columnRule{
			{field: domain.AttrVillage, exact: []string{"village"}, contains: []string{"village"}},
			{field: domain.AttrCentury, exact: []string{"century"}, contains: []string{"century"}},
			{field: domain.AttrMainDeity, exact: []string{"main deity", "deity"}, contains: []string{"deity"}},
			{field: domain.AttrArchitecturalStyle, exact: []string{"architectural style", "style"}, contains: []string{"style"}},
			{field: domain.AttrTempleStatus, exact: []string{"status", "temple status"}, contains: []string{"current status", "status"}},
		}
	default:
		return nil
	}
}

// normalizeHeader lower-cases, maps underscores and hyphens to spaces
// and collapses whitespace runs.
func normalizeHeader(h string) string {
	h = strings.ToLower(h)
	h = strings.NewReplacer("_", " ", "-", " ").Replace(h)
	return strings.Join(strings.Fields(h), " ")
}

// columnMap is the resolved header layout of one table.
type columnMap struct {
	lat, lng    int
	name        int
	description int
	attrs       map[string]int

	// Herostone period: "<from period>, <century>".
	periodFrom int
	century    int
}

type headerMatcher struct {
	headers []string
	claimed map[int]bool
}

func (m *headerMatcher) match(r columnRule) int {
	excluded := func(h string) bool {
		for _, x := range r.excludes {
			if strings.Contains(h, x) {
				return true
			}
		}
		return false
	}
	for _, want := range r.exact {
		for i, h := range m.headers {
			if !m.claimed[i] && h == want {
				m.claimed[i] = true
				return i
			}
		}
	}
	for _, sub := range r.contains {
		for i, h := range m.headers {
			if !m.claimed[i] && strings.Contains(h, sub) && !excluded(h) {
				m.claimed[i] = true
				return i
			}
		}
	}
	return -1
}

// resolveColumns maps headers to fields. Missing latitude or longitude
// columns reject the table.
func resolveColumns(header []string, category domain.Category) (columnMap, error) {
	m := &headerMatcher{claimed: make(map[int]bool)}
	for _, h := range header {
		m.headers = append(m.headers, normalizeHeader(h))
	}

	cols := columnMap{attrs: make(map[string]int), periodFrom: -1, century: -1}
	cols.lat = m.match(latRule)
	cols.lng = m.match(lngRule)
	var missing []string
	if cols.lat < 0 {
		missing = append(missing, "lat/latitude")
	}
	if cols.lng < 0 {
		missing = append(missing, "lng/longitude")
	}
	if len(missing) > 0 {
		return columnMap{}, fmt.Errorf("%w: %s", domain.ErrMissingColumns, strings.Join(missing, ", "))
	}

	if category == domain.CategoryHerostone {
		cols.periodFrom = m.match(columnRule{field: "fromPeriod", contains: []string{"from period"}})
		if cols.periodFrom < 0 {
			cols.periodFrom = m.match(columnRule{field: "period", exact: []string{"period"}})
		}
		cols.century = m.match(columnRule{field: "century", contains: []string{"century"}})
	}
	for _, r := range attributeRules(category) {
		cols.attrs[r.field] = m.match(r)
	}
	cols.name = m.match(nameRule(category))
	cols.description = m.match(descriptionRule)
	return cols, nil
}

// buildRecord converts one row. Rows with unparsable or out-of-range
// coordinates return an error describing the skip. The ID is left for
// the caller to assign with siteID.
func buildRecord(t driven.Table, row []string, cols columnMap, category domain.Category) (domain.SiteRecord, error) {
	cell := func(col int) string {
		return strings.TrimSpace(t.Cell(row, col))
	}

	latText, lngText := cell(cols.lat), cell(cols.lng)
	lat, err := strconv.ParseFloat(latText, 64)
	if err != nil {
		return domain.SiteRecord{}, fmt.Errorf("unparsable latitude %q", latText)
	}
	lng, err := strconv.ParseFloat(lngText, 64)
	if err != nil {
		return domain.SiteRecord{}, fmt.Errorf("unparsable longitude %q", lngText)
	}
	coords, err := domain.NewCoordinates(lat, lng)
	if err != nil {
		return domain.SiteRecord{}, err
	}

	attrs := make(map[string]string, len(category.AttributeFields()))
	for _, field := range category.AttributeFields() {
		attrs[field] = ""
	}
	for field, col := range cols.attrs {
		attrs[field] = cell(col)
	}
	if category == domain.CategoryHerostone {
		var parts []string
		for _, v := range []string{cell(cols.periodFrom), cell(cols.century)} {
			if v != "" {
				parts = append(parts, v)
			}
		}
		attrs[domain.AttrPeriod] = strings.Join(parts, ", ")
	}

	return domain.SiteRecord{
		Category:    category,
		Name:        cell(cols.name),
		Description: cell(cols.description),
		Coordinates: coords,
		Attributes:  attrs,
	}, nil
}

// siteKey identifies a site by content, so editing or inserting other
// rows of a sheet leaves its ID unchanged.
func siteKey(rec domain.SiteRecord) string {
	return fmt.Sprintf("%s|%s|%s|%s", rec.Category,
		strconv.FormatFloat(rec.Coordinates.Lat, 'f', -1, 64),
		strconv.FormatFloat(rec.Coordinates.Lng, 'f', -1, 64),
		rec.Name)
}

// siteID derives the record ID from its key and how many identical rows
// precede it in the same sheet.
func siteID(key string, occurrence int) string {
	return uuid.NewSHA1(siteNamespace, []byte(fmt.Sprintf("%s|%d", key, occurrence))).String()
}
