package services

import (
	"sort"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

// markerSet is an insertion-ordered set of markers keyed by site ID.
type markerSet struct {
	items map[string]markerEntry
	next  uint64
}

type markerEntry struct {
	marker domain.Marker
	seq    uint64
}

func newMarkerSet() *markerSet {
	return &markerSet{items: make(map[string]markerEntry)}
}

// add inserts m and reports whether it was absent.
func (s *markerSet) add(m domain.Marker) bool {
	if _, ok := s.items[m.SiteID]; ok {
		return false
	}
	s.items[m.SiteID] = markerEntry{marker: m, seq: s.next}
	s.next++
	return true
}

// remove deletes the marker and reports whether it was present.
func (s *markerSet) remove(siteID string) bool {
	if _, ok := s.items[siteID]; !ok {
		return false
	}
	delete(s.items, siteID)
	return true
}

func (s *markerSet) has(siteID string) bool {
	_, ok := s.items[siteID]
	return ok
}

func (s *markerSet) len() int {
	return len(s.items)
}

// list returns the markers in insertion order.
func (s *markerSet) list() []domain.Marker {
	entries := make([]markerEntry, 0, len(s.items))
	for _, e := range s.items {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	out := make([]domain.Marker, len(entries))
	for i, e := range entries {
		out[i] = e.marker
	}
	return out
}
