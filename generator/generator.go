// Package generator produces the unique, time-sortable int64 identifiers used
// as primary keys across the ushort backend.
//
// IDs follow the snowflake layout: 41 bits of milliseconds since the epoch,
// 10 bits of worker ID, and a 12 bit per-millisecond sequence. The underlying
// engine reads a monotonic clock, so a wall clock stepping backwards cannot
// produce duplicate or decreasing values; when the sequence is exhausted the
// generator waits for the next millisecond. IDs are strictly increasing per
// instance and unique across the deployment as long as worker IDs are not
// shared.
package generator

import (
	"github.com/bwmarrin/snowflake"
	"github.com/goliatone/go-errors"
)

// Valid worker ID range. Worker 0 is allowed; the upper bound comes from the
// 10 bit worker component.
const (
	MinWorkerID int64 = 0
	MaxWorkerID int64 = 1023
)

// ErrWorkerIDOutOfRange is returned when a generator is constructed with a
// worker ID outside [MinWorkerID, MaxWorkerID].
var ErrWorkerIDOutOfRange = errors.New("worker ID out of range", errors.CategoryValidation).
	WithTextCode("WORKER_ID_OUT_OF_RANGE")

// Generator hands out snowflake IDs for a single worker. Safe for concurrent
// use; state updates happen under a single critical section per call.
type Generator struct {
	node *snowflake.Node
}

// New creates a Generator for the given worker ID.
func New(workerID int64) (*Generator, error) {
	if workerID < MinWorkerID || workerID > MaxWorkerID {
		clone := ErrWorkerIDOutOfRange.Clone()
		clone.Source = ErrWorkerIDOutOfRange
		return nil, clone.WithMetadata(map[string]any{
			"worker_id": workerID,
			"min":       MinWorkerID,
			"max":       MaxWorkerID,
		})
	}

	node, err := snowflake.NewNode(workerID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to initialize snowflake node")
	}

	return &Generator{node: node}, nil
}

// NewID returns the next identifier. Values are strictly greater than any
// value previously returned by this instance.
func (g *Generator) NewID() int64 {
	return g.node.Generate().Int64()
}

// Parts is the decomposition of a snowflake ID.
type Parts struct {
	// Time is the generation timestamp in milliseconds since the epoch.
	Time int64
	// WorkerID identifies the generator instance that produced the ID.
	WorkerID int64
	// Sequence disambiguates IDs generated within the same millisecond.
	Sequence int64
}

// Decompose splits an ID back into its time, worker, and sequence components.
func Decompose(id int64) Parts {
	sid := snowflake.ID(id)
	return Parts{
		Time:     sid.Time(),
		WorkerID: sid.Node(),
		Sequence: sid.Step(),
	}
}
