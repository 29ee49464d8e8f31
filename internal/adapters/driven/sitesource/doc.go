// Package sitesource provides driven.SiteSource implementations.
//
// Adapters:
//   - CSVSource: reads each category's CSV export from a local path or an
//     http(s) URL.
//   - Watcher: reports when a local CSV export changes on disk.
package sitesource
