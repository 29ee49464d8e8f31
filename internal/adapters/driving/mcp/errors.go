// Package mcp provides an MCP (Model Context Protocol) server adapter for the atlas.
// It lets AI assistants search heritage sites, inspect clusters and drive layers.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingLayerController is returned when the layer controller is not provided.
var ErrMissingLayerController = errors.New("mcp: layer controller is required")
