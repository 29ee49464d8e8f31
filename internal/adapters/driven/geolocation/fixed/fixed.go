// Package fixed provides a Geolocator that reports a configured position.
// It serves hosts without a positioning device and scripted demos.
package fixed

import (
	"context"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
)

// Ensure Locator implements the interface.
var _ driven.Geolocator = (*Locator)(nil)

// Locator always returns the same outcome.
type Locator struct {
	pos  domain.Position
	fail domain.LocateErrorKind
}

// New returns a locator reporting pos.
func New(pos domain.Position) *Locator {
	return &Locator{pos: pos}
}

// Failing returns a locator that always fails with kind.
func Failing(kind domain.LocateErrorKind) *Locator {
	return &Locator{fail: kind}
}

// Locate implements driven.Geolocator.
func (l *Locator) Locate(ctx context.Context, _ domain.LocateRequest) (domain.Position, error) {
	if err := ctx.Err(); err != nil {
		return domain.Position{}, domain.NewLocateError(domain.LocateTimeout, err)
	}
	if l.fail != "" {
		return domain.Position{}, domain.NewLocateError(l.fail, nil)
	}
	return l.pos, nil
}
