// Package loader implements the downstream table consumers: collaborators
// that load the exported node/edge tables into a graph or relational store.
package loader

import (
	"context"

	"github.com/starford/gebo/internal/export"
)

// Consumer is the capability interface every downstream store implements.
// It accepts the two fixed tables and is otherwise decoupled from the core
// pipeline; once loading starts, the tables are never mutated.
type Consumer interface {
	// Name identifies the consumer in logs and CLI output.
	Name() string
	// Load writes the tables into the backing store, idempotently where the
	// store supports upserts.
	Load(ctx context.Context, t *export.Tables) error
}
