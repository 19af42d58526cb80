// Package indicators holds the technical-indicator series served by the
// Meridian API: simple and exponential moving averages, relative strength,
// and MACD. The package never computes an indicator itself; it validates the
// points the remote computed, orders them chronologically, and layers trend,
// crossover, and divergence classification on top. Every predicate treats
// insufficient history as a plain negative result, not an error.
package indicators

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"meridian-api/pkg/marketdata"
)

// TimeFromMillis converts a millisecond epoch timestamp to a UTC time.
// Indicator timestamps are milliseconds; trade and quote timestamps are
// nanoseconds and convert via marketdata.TimeFromNanos instead.
func TimeFromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// Point is one indicator observation.
type Point struct {
	Timestamp int64 // milliseconds
	Value     float64
}

// Time returns the observation time in UTC.
func (p Point) Time() time.Time { return TimeFromMillis(p.Timestamp) }

// Series is the common shape of the single-line indicators: the ticker and
// window the caller requested, and the observations ordered oldest to newest.
type Series struct {
	Ticker   string
	Window   int
	Timespan string
	Values   []Point
}

// Len returns the number of observations.
func (s *Series) Len() int { return len(s.Values) }

// Latest returns a copy of the most recent observation, or nil for an empty
// series.
func (s *Series) Latest() *Point { return s.Back(0) }

// Back returns a copy of the observation n periods before the latest, or nil
// when the series holds fewer than n+1 points.
func (s *Series) Back(n int) *Point {
	idx := len(s.Values) - 1 - n
	if n < 0 || idx < 0 {
		return nil
	}
	p := s.Values[idx]
	return &p
}

// Slope fits a least-squares line through the last periods+1 observations and
// returns its per-period gradient. Zero when the series is shorter than that
// or periods is not positive.
func (s *Series) Slope(periods int) float64 {
	if periods < 1 || s.Len() < periods+1 {
		return 0
	}
	tail := s.Values[s.Len()-periods-1:]
	coords := make(stats.Series, 0, len(tail))
	for i, p := range tail {
		coords = append(coords, stats.Coordinate{X: float64(i), Y: p.Value})
	}
	fitted, err := stats.LinearRegression(coords)
	if err != nil {
		return 0
	}
	first, last := fitted[0], fitted[len(fitted)-1]
	return (last.Y - first.Y) / (last.X - first.X)
}

// Mean averages the last periods observations. Zero when the series is
// shorter than that or periods is not positive.
func (s *Series) Mean(periods int) float64 {
	vals := s.tailValues(periods)
	if vals == nil {
		return 0
	}
	m, err := stats.Mean(vals)
	if err != nil {
		return 0
	}
	return m
}

// StdDev is the population standard deviation of the last periods
// observations, under the same length rules as Mean.
func (s *Series) StdDev(periods int) float64 {
	vals := s.tailValues(periods)
	if vals == nil {
		return 0
	}
	sd, err := stats.StandardDeviation(vals)
	if err != nil {
		return 0
	}
	return sd
}

func (s *Series) tailValues(periods int) []float64 {
	if periods < 1 || s.Len() < periods {
		return nil
	}
	tail := s.Values[s.Len()-periods:]
	vals := make([]float64, 0, len(tail))
	for _, p := range tail {
		vals = append(vals, p.Value)
	}
	return vals
}

// CrossedAbove reports whether series a moved from at-or-below series b to
// above it across the last two points of each. Fewer than two points on
// either side returns false.
func CrossedAbove(a, b []Point) bool {
	if len(a) < 2 || len(b) < 2 {
		return false
	}
	aPrev, aCur := a[len(a)-2].Value, a[len(a)-1].Value
	bPrev, bCur := b[len(b)-2].Value, b[len(b)-1].Value
	return aPrev <= bPrev && aCur > bCur
}

// CrossedBelow mirrors CrossedAbove.
func CrossedBelow(a, b []Point) bool {
	if len(a) < 2 || len(b) < 2 {
		return false
	}
	aPrev, aCur := a[len(a)-2].Value, a[len(a)-1].Value
	bPrev, bCur := b[len(b)-2].Value, b[len(b)-1].Value
	return aPrev >= bPrev && aCur < bCur
}

// wirePayload is the results object of an indicator response. The underlying
// aggregates reference it also carries is not modelled.
type wirePayload struct {
	Values []wireValue `json:"values"`
}

type wireValue struct {
	Timestamp *int64   `json:"timestamp"`
	Value     *float64 `json:"value"`
	Signal    *float64 `json:"signal"`
	Histogram *float64 `json:"histogram"`
}

func decodeValues(entity string, data []byte) ([]wireValue, error) {
	var w wirePayload
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &marketdata.ValidationError{Field: entity, Message: err.Error()}
	}
	return w.Values, nil
}

// parsePoints decodes and validates the observations of a single-line
// indicator, sorting them oldest first. The remote returns newest first.
func parsePoints(entity string, data []byte) ([]Point, error) {
	raw, err := decodeValues(entity, data)
	if err != nil {
		return nil, err
	}
	out := make([]Point, 0, len(raw))
	for i, v := range raw {
		if v.Timestamp == nil {
			return nil, fmt.Errorf("value[%d]: %w", i, errMissing("timestamp"))
		}
		if v.Value == nil {
			return nil, fmt.Errorf("value[%d]: %w", i, errMissing("value"))
		}
		out = append(out, Point{Timestamp: *v.Timestamp, Value: *v.Value})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out, nil
}

func newSeries(ticker string, window int, timespan string) (Series, error) {
	if ticker == "" {
		return Series{}, errMissing("ticker")
	}
	if window < 1 {
		return Series{}, &marketdata.ValidationError{Field: "window", Message: "must be positive"}
	}
	if timespan == "" {
		return Series{}, errMissing("timespan")
	}
	return Series{Ticker: ticker, Window: window, Timespan: timespan}, nil
}

func errMissing(field string) error {
	return &marketdata.ValidationError{Field: field, Message: "required field missing"}
}
