package query

import (
	"fmt"

	"github.com/cougar-robotics/cougarlog/pkg/session"
)

// SampleQuery selects one stream of a stored session, optionally narrowed
// to a timestamp range. A zero End means no upper bound.
type SampleQuery struct {
	Stream string  // Stream name to query (e.g. "drivetrain/velocity")
	Start  float64 // Inclusive lower timestamp bound, seconds
	End    float64 // Inclusive upper timestamp bound, seconds; 0 = open
}

// Validate checks that the query is properly formed.
func (q *SampleQuery) Validate() error {
	if q.Stream == "" {
		return fmt.Errorf("stream name cannot be empty")
	}
	if q.Start < 0 || q.End < 0 {
		return fmt.Errorf("timestamp bounds cannot be negative")
	}
	if q.End != 0 && q.End < q.Start {
		return fmt.Errorf("end bound %v precedes start bound %v", q.End, q.Start)
	}
	return nil
}

// Iterator provides streaming access to query results.
type Iterator interface {
	Next() bool
	Sample() session.Sample
	Close() error
}

// sliceIterator walks an already-materialized result set.
type sliceIterator struct {
	samples []session.Sample
	pos     int
}

func (it *sliceIterator) Next() bool {
	if it.pos >= len(it.samples) {
		return false
	}
	it.pos++
	return true
}

func (it *sliceIterator) Sample() session.Sample {
	return it.samples[it.pos-1]
}

func (it *sliceIterator) Close() error {
	return nil
}
