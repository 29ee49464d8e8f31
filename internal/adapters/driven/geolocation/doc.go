// Package geolocation groups the driven.Geolocator adapters.
//
//   - geoip: resolves a configured public address with a MaxMind City database
//   - fixed: reports a configured position, or a configured failure
package geolocation
