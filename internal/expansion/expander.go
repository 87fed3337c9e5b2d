// Package expansion widens the in-session template pool with templates from
// an external text-generation service. Nothing in it is required for
// correctness: every failure leaves the pool as it was.
package expansion

import (
	"context"
	"errors"

	"github.com/alexanderramin/reflekt/internal/catalog"
	"github.com/alexanderramin/reflekt/internal/snapshot"
)

// ErrNoTemplates is returned when an expander produced nothing usable.
var ErrNoTemplates = errors.New("expansion produced no valid templates")

// Expander requests new templates for a snapshot.
type Expander interface {
	Expand(ctx context.Context, snap snapshot.Snapshot) ([]catalog.Template, error)
}

// Noop never expands. The engine is fully correct with it installed.
type Noop struct{}

func (Noop) Expand(context.Context, snapshot.Snapshot) ([]catalog.Template, error) {
	return nil, nil
}
