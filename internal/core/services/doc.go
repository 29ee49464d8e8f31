// Package services implements the driving port interfaces.
// Services contain the core behaviour of the atlas (site registry,
// clustering, layer visibility, search, selection, geolocation) and
// orchestrate calls to driven ports (adapters).
//
// Concurrency: the Registry is safe for concurrent use. The
// LayerController, ClusterIndex and Presenter are owned by one goroutine,
// the driving surface's event loop; surfaces that serve concurrent
// requests serialise access to them.
//
// Services are pure Go with no CGO. Third-party imports are limited to
// google/uuid for stable site identifiers and x/sync for concurrent
// category fetches.
package services
