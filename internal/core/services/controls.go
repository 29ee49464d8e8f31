package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driving"
)

var (
	_ driving.ViewportControl = (*ClusteringControl)(nil)
	_ driving.ViewportControl = (*CategoryControl)(nil)
	_ driving.ViewportControl = (*LocateControl)(nil)
)

// ClusteringControl is the global clustering toggle.
type ClusteringControl struct {
	layers driving.LayerController
}

// NewClusteringControl creates the clustering toggle.
func NewClusteringControl(layers driving.LayerController) *ClusteringControl {
	return &ClusteringControl{layers: layers}
}

func (c *ClusteringControl) Name() string { return "clustering" }

func (c *ClusteringControl) Label() string {
	if c.layers.ClusteringEnabled() {
		return "Clustering: on"
	}
	return "Clustering: off"
}

// Activate flips clustering.
func (c *ClusteringControl) Activate(context.Context) (string, error) {
	enabled := !c.layers.ClusteringEnabled()
	c.layers.SetClusteringEnabled(enabled)
	if enabled {
		return "Clustering enabled", nil
	}
	return "Clustering disabled", nil
}

// CategoryControl is one category's visibility checkbox.
type CategoryControl struct {
	layers   driving.LayerController
	category domain.Category
}

// NewCategoryControl creates a visibility checkbox for category.
func NewCategoryControl(layers driving.LayerController, category domain.Category) *CategoryControl {
	return &CategoryControl{layers: layers, category: category}
}

func (c *CategoryControl) Name() string { return "layer:" + c.category.String() }

func (c *CategoryControl) Label() string {
	if c.layers.Visible(c.category) {
		return "[x] " + c.category.Label()
	}
	return "[ ] " + c.category.Label()
}

// Activate flips the category's visibility.
func (c *CategoryControl) Activate(context.Context) (string, error) {
	visible := !c.layers.Visible(c.category)
	c.layers.SetCategoryVisible(c.category, visible)
	if visible {
		return c.category.Label() + " shown", nil
	}
	return c.category.Label() + " hidden", nil
}

// LocateControl is the "locate me" button.
type LocateControl struct {
	locator driving.Locator
}

// NewLocateControl creates the locate button.
func NewLocateControl(locator driving.Locator) *LocateControl {
	return &LocateControl{locator: locator}
}

func (c *LocateControl) Name() string { return "locate" }

func (c *LocateControl) Label() string { return "Locate me" }

// Activate runs the locator. The status line is the marker label on
// success and the kind-specific message on failure.
func (c *LocateControl) Activate(ctx context.Context) (string, error) {
	marker, err := c.locator.Locate(ctx)
	if err != nil {
		var le *domain.LocateError
		if errors.As(err, &le) {
			return le.Message(), err
		}
		return domain.LocateUnsupported.Message(), err
	}
	return marker.Label, nil
}
