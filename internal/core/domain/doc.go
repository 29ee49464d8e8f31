// Package domain defines the core entities of the heritage atlas.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SiteRecord: A heritage site loaded from a tabular export
//   - Marker: The map handle of a site, owned by one layer at a time
//   - Cluster: A zoom-dependent aggregation of markers
//   - SearchResult: A transient, categorised search hit
//   - Selection: The viewport change and highlights produced by selecting a result
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
