// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SiteSource: Fetches the tabular export of one heritage category
//   - MapView: The base map engine (viewport, layer attachment, overlays)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PlaceLookup: Remote place-name search. Without it, search is local only.
//   - PlaceCache: Caches place-lookup responses.
//   - Geolocator: Device position. Without it, locate reports Unsupported.
//   - SiteStore: Snapshot persistence for imported sites.
//   - ImportLog: History of import runs.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
