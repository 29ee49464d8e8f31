package domain

// Cluster is a zoom-dependent aggregation of markers drawn as one glyph.
// A cluster of one member represents an individual marker.
type Cluster struct {
	ID      string      `json:"id"`
	Zoom    int         `json:"zoom"`
	Center  Coordinates `json:"center"`
	Bounds  Bounds      `json:"bounds"`
	Members []Marker    `json:"members"`
}

// Count returns the number of member markers.
func (c Cluster) Count() int {
	return len(c.Members)
}

// IsSingle reports whether the cluster is an individual marker.
func (c Cluster) IsSingle() bool {
	return len(c.Members) == 1
}

// Counts returns the member count per category.
func (c Cluster) Counts() map[Category]int {
	counts := make(map[Category]int, 3)
	for _, m := range c.Members {
		counts[m.Category]++
	}
	return counts
}

// Segment is one arc of a cluster's composition ring.
type Segment struct {
	Category   Category `json:"category"`
	Count      int      `json:"count"`
	Fraction   float64  `json:"fraction"`
	StartAngle float64  `json:"startAngle"`
	EndAngle   float64  `json:"endAngle"`
}

// Composition returns the ring segments in category order, skipping
// categories with no members. Angles are in degrees clockwise from north.
func (c Cluster) Composition() []Segment {
	total := len(c.Members)
	if total == 0 {
		return nil
	}
	counts := c.Counts()
	segments := make([]Segment, 0, len(counts))
	angle := 0.0
	for _, cat := range Categories() {
		n := counts[cat]
		if n == 0 {
			continue
		}
		frac := float64(n) / float64(total)
		end := angle + frac*360
		segments = append(segments, Segment{
			Category:   cat,
			Count:      n,
			Fraction:   frac,
			StartAngle: angle,
			EndAngle:   end,
		})
		angle = end
	}
	return segments
}

// IconSize returns the glyph diameter in pixels for the cluster's count.
func (c Cluster) IconSize() int {
	switch n := len(c.Members); {
	case n < 10:
		return 30
	case n < 100:
		return 40
	case n < 1000:
		return 50
	default:
		return 60
	}
}

// ExpandAction is the outcome of clicking a cluster.
type ExpandAction string

// Expand actions.
const (
	// ExpandZoomToBounds fits the viewport to the members' bounds.
	ExpandZoomToBounds ExpandAction = "zoom_to_bounds"

	// ExpandSpiderfy spreads members radially around the cluster center.
	ExpandSpiderfy ExpandAction = "spiderfy"
)

// SpiderLeg places one member of a spiderfied cluster.
type SpiderLeg struct {
	Marker   Marker      `json:"marker"`
	Position Coordinates `json:"position"`
}

// ClusterExpansion describes what a cluster click does.
type ClusterExpansion struct {
	ClusterID string       `json:"clusterId"`
	Action    ExpandAction `json:"action"`
	Bounds    Bounds       `json:"bounds"`
	Legs      []SpiderLeg  `json:"legs,omitempty"`
}
