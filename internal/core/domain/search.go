package domain

// ResultKind identifies which source produced a search result.
type ResultKind string

// Result kinds.
const (
	// ResultHeritageSite is a local registry match.
	ResultHeritageSite ResultKind = "heritage_site"

	// ResultPlace is a remote place-lookup match.
	ResultPlace ResultKind = "place"

	// ResultCoordinate is a parsed "lat, lng" query.
	ResultCoordinate ResultKind = "coordinate"
)

// IsValid returns true if the kind is recognised.
func (k ResultKind) IsValid() bool {
	switch k {
	case ResultHeritageSite, ResultPlace, ResultCoordinate:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k ResultKind) String() string {
	return string(k)
}

// Description returns the group heading for the kind.
func (k ResultKind) Description() string {
	switch k {
	case ResultHeritageSite:
		return "Heritage sites"
	case ResultPlace:
		return "Places"
	case ResultCoordinate:
		return "Coordinates"
	default:
		return unknownDescription
	}
}

// SearchResult is one transient, selectable hit.
type SearchResult struct {
	Kind        ResultKind  `json:"kind"`
	Label       string      `json:"label"`
	Coordinates Coordinates `json:"coordinates"`

	// Category and SiteID are set only for ResultHeritageSite.
	Category Category `json:"category,omitempty"`
	SiteID   string   `json:"siteId,omitempty"`

	// AddressText is set only for ResultPlace.
	AddressText string `json:"addressText,omitempty"`
}

// ResultSet is the outcome of one search invocation.
type ResultSet struct {
	// Query is the query the set was produced for. Callers compare it
	// with their current query to discard stale completions.
	Query string `json:"query"`

	Results []SearchResult `json:"results"`

	// PlacesUnavailable is set when the remote lookup failed and only
	// local matches are present.
	PlacesUnavailable bool `json:"placesUnavailable,omitempty"`
}

// IsEmpty reports whether the set holds no results.
func (s ResultSet) IsEmpty() bool {
	return len(s.Results) == 0
}

// ResultGroup is one presentation group. Heritage sites are grouped per
// category; the other kinds form a single group each.
type ResultGroup struct {
	Kind     ResultKind     `json:"kind"`
	Category Category       `json:"category,omitempty"`
	Title    string         `json:"title"`
	Results  []SearchResult `json:"results"`
}

// Groups returns the non-empty groups in presentation order: heritage
// sites by category order, then places, then coordinates. Order within a
// group is preserved.
func (s ResultSet) Groups() []ResultGroup {
	byCategory := make(map[Category][]SearchResult)
	var places, coords []SearchResult
	for _, r := range s.Results {
		switch r.Kind {
		case ResultHeritageSite:
			byCategory[r.Category] = append(byCategory[r.Category], r)
		case ResultPlace:
			places = append(places, r)
		case ResultCoordinate:
			coords = append(coords, r)
		}
	}

	var groups []ResultGroup
	for _, cat := range Categories() {
		if rs := byCategory[cat]; len(rs) > 0 {
			groups = append(groups, ResultGroup{
				Kind:     ResultHeritageSite,
				Category: cat,
				Title:    cat.Label(),
				Results:  rs,
			})
		}
	}
	if len(places) > 0 {
		groups = append(groups, ResultGroup{Kind: ResultPlace, Title: ResultPlace.Description(), Results: places})
	}
	if len(coords) > 0 {
		groups = append(groups, ResultGroup{Kind: ResultCoordinate, Title: ResultCoordinate.Description(), Results: coords})
	}
	return groups
}

// Flatten returns the results in presentation order. Index positions in
// the flattened slice are what surfaces use to refer to a result.
func (s ResultSet) Flatten() []SearchResult {
	var out []SearchResult
	for _, g := range s.Groups() {
		out = append(out, g.Results...)
	}
	return out
}

// Place is a remote place-lookup hit.
type Place struct {
	Name        string      `json:"name"`
	DisplayName string      `json:"displayName"`
	Coordinates Coordinates `json:"coordinates"`
	AddressText string      `json:"addressText,omitempty"`
}
