package tui

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("tui: search service is required")

// ErrMissingPresenter is returned when the result presenter is not provided.
var ErrMissingPresenter = errors.New("tui: result presenter is required")

// ErrMissingLayerController is returned when the layer controller is not provided.
var ErrMissingLayerController = errors.New("tui: layer controller is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
