// Package analysis computes descriptive statistics and numerical
// derivatives over the numeric samples of a decoded stream.
package analysis

import (
	"errors"

	"github.com/montanaflynn/stats"

	"github.com/cougar-robotics/cougarlog/pkg/session"
)

// ErrNoNumericSamples indicates the sample set holds no numeric scalar
// values to analyze.
var ErrNoNumericSamples = errors.New("no numeric samples")

// Summary is the five-number summary plus mean of a numeric series.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// Point is one (timestamp, value) pair of a numeric series.
type Point struct {
	Timestamp float64 `json:"timestamp"`
	Value     float64 `json:"value"`
}

// Numeric extracts the numeric scalar samples as points, dropping
// non-numeric values (strings, booleans, arrays).
func Numeric(samples []session.Sample) []Point {
	points := make([]Point, 0, len(samples))
	for _, s := range samples {
		if v, ok := s.Value.Numeric(); ok {
			points = append(points, Point{Timestamp: s.Timestamp, Value: v})
		}
	}
	return points
}

// FilterRange keeps the samples whose timestamp lies in [start, end],
// bounds inclusive. A zero end means no upper bound.
func FilterRange(samples []session.Sample, start, end float64) []session.Sample {
	out := make([]session.Sample, 0, len(samples))
	for _, s := range samples {
		if s.Timestamp < start {
			continue
		}
		if end != 0 && s.Timestamp > end {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Summarize computes the five-number summary and mean of the numeric
// samples in the set.
func Summarize(samples []session.Sample) (Summary, error) {
	points := Numeric(samples)
	if len(points) == 0 {
		return Summary{}, ErrNoNumericSamples
	}
	if len(points) == 1 {
		v := points[0].Value
		return Summary{Count: 1, Min: v, Q1: v, Median: v, Q3: v, Max: v, Mean: v}, nil
	}
	values := make(stats.Float64Data, len(points))
	for i, p := range points {
		values[i] = p.Value
	}

	min, err := stats.Min(values)
	if err != nil {
		return Summary{}, err
	}
	max, err := stats.Max(values)
	if err != nil {
		return Summary{}, err
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return Summary{}, err
	}
	median, err := stats.Median(values)
	if err != nil {
		return Summary{}, err
	}
	quartiles, err := stats.Quartile(values)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Count:  len(points),
		Min:    min,
		Q1:     quartiles.Q1,
		Median: median,
		Q3:     quartiles.Q3,
		Max:    max,
		Mean:   mean,
	}, nil
}

// Differentiate computes the pairwise difference quotient of a series:
// point i of the result is (v[i+1]-v[i]) / (t[i+1]-t[i]) stamped at
// t[i+1]. Pairs with a zero time step are skipped. Apply twice for the
// second derivative.
func Differentiate(points []Point) []Point {
	if len(points) < 2 {
		return nil
	}
	out := make([]Point, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		dt := points[i].Timestamp - points[i-1].Timestamp
		if dt == 0 {
			continue
		}
		out = append(out, Point{
			Timestamp: points[i].Timestamp,
			Value:     (points[i].Value - points[i-1].Value) / dt,
		})
	}
	return out
}
