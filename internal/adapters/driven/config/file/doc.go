// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML configuration at ~/.atlas/config.toml. Dotted keys
//     are written as nested tables, so "view.zoom" becomes [view] zoom.
package file
