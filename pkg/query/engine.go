// Package query executes stream/time-range queries against stored
// sessions.
package query

import (
	"context"
	"fmt"

	"github.com/cougar-robotics/cougarlog/pkg/analysis"
	"github.com/cougar-robotics/cougarlog/pkg/session"
)

// SampleSource is the slice of the session store the engine needs.
type SampleSource interface {
	Samples(id, stream string) ([]session.Sample, error)
}

// Engine answers sample queries from the session store.
type Engine struct {
	store SampleSource
}

// NewEngine creates a query engine over the given store.
func NewEngine(store SampleSource) *Engine {
	return &Engine{store: store}
}

// Query returns an iterator over the samples of one stream of a session,
// narrowed to the query's timestamp range.
func (e *Engine) Query(ctx context.Context, sessionID string, q SampleQuery) (Iterator, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	samples, err := e.store.Samples(sessionID, q.Stream)
	if err != nil {
		return nil, err
	}
	if q.Start != 0 || q.End != 0 {
		samples = analysis.FilterRange(samples, q.Start, q.End)
	}
	return &sliceIterator{samples: samples}, nil
}

// Collect drains an iterator into a slice.
func Collect(it Iterator) []session.Sample {
	defer it.Close()
	var out []session.Sample
	for it.Next() {
		out = append(out, it.Sample())
	}
	return out
}
