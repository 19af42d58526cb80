package indicators

import (
	"fmt"
	"math"
	"sort"
	"time"

	"meridian-api/pkg/marketdata"
)

// MACDPoint is one MACD observation: the MACD line, its signal line, and the
// histogram holding their difference.
type MACDPoint struct {
	Timestamp int64 // milliseconds
	Value     float64
	Signal    float64
	Histogram float64
}

// Time returns the observation time in UTC.
func (p MACDPoint) Time() time.Time { return TimeFromMillis(p.Timestamp) }

// Momentum classifies how the histogram magnitude is developing.
type Momentum string

const (
	MomentumStrengthening Momentum = "strengthening"
	MomentumWeakening     Momentum = "weakening"
	MomentumFlat          Momentum = "flat"
)

// MACD is a moving-average-convergence-divergence series for one ticker.
// Unlike the single-line indicators it is parameterised by three windows.
type MACD struct {
	Ticker       string
	ShortWindow  int
	LongWindow   int
	SignalWindow int
	Timespan     string
	Values       []MACDPoint
}

// ParseMACD builds a MACD from the results object of an indicator response,
// tagged with the windows and timespan that were actually requested.
func ParseMACD(ticker string, shortWindow, longWindow, signalWindow int, timespan string, data []byte) (*MACD, error) {
	if ticker == "" {
		return nil, errMissing("ticker")
	}
	windows := []struct {
		name  string
		value int
	}{
		{"short_window", shortWindow},
		{"long_window", longWindow},
		{"signal_window", signalWindow},
	}
	for _, w := range windows {
		if w.value < 1 {
			return nil, &marketdata.ValidationError{Field: w.name, Message: "must be positive"}
		}
	}
	if longWindow <= shortWindow {
		return nil, &marketdata.ValidationError{
			Field:   "long_window",
			Message: fmt.Sprintf("must exceed the short window, got %d <= %d", longWindow, shortWindow),
		}
	}
	if timespan == "" {
		return nil, errMissing("timespan")
	}

	raw, err := decodeValues("macd", data)
	if err != nil {
		return nil, err
	}
	values := make([]MACDPoint, 0, len(raw))
	for i := range raw {
		p, err := raw[i].toMACDPoint()
		if err != nil {
			return nil, fmt.Errorf("value[%d]: %w", i, err)
		}
		values = append(values, *p)
	}
	sort.Slice(values, func(i, j int) bool {
		return values[i].Timestamp < values[j].Timestamp
	})

	return &MACD{
		Ticker:       ticker,
		ShortWindow:  shortWindow,
		LongWindow:   longWindow,
		SignalWindow: signalWindow,
		Timespan:     timespan,
		Values:       values,
	}, nil
}

func (v *wireValue) toMACDPoint() (*MACDPoint, error) {
	if v.Timestamp == nil {
		return nil, errMissing("timestamp")
	}
	if v.Value == nil {
		return nil, errMissing("value")
	}
	if v.Signal == nil {
		return nil, errMissing("signal")
	}
	if v.Histogram == nil {
		return nil, errMissing("histogram")
	}
	return &MACDPoint{
		Timestamp: *v.Timestamp,
		Value:     *v.Value,
		Signal:    *v.Signal,
		Histogram: *v.Histogram,
	}, nil
}

// Len returns the number of observations.
func (m *MACD) Len() int { return len(m.Values) }

// Latest returns a copy of the most recent observation, or nil for an empty
// series.
func (m *MACD) Latest() *MACDPoint { return m.Back(0) }

// Back returns a copy of the observation n periods before the latest, or nil
// when the series holds fewer than n+1 points.
func (m *MACD) Back(n int) *MACDPoint {
	idx := len(m.Values) - 1 - n
	if n < 0 || idx < 0 {
		return nil
	}
	p := m.Values[idx]
	return &p
}

// BullishCrossover reports the MACD line crossing above its signal line
// between the last two points. False with fewer than two points.
func (m *MACD) BullishCrossover() bool {
	prev := m.Back(1)
	if prev == nil {
		return false
	}
	cur := m.Latest()
	return prev.Value <= prev.Signal && cur.Value > cur.Signal
}

// BearishCrossover mirrors BullishCrossover.
func (m *MACD) BearishCrossover() bool {
	prev := m.Back(1)
	if prev == nil {
		return false
	}
	cur := m.Latest()
	return prev.Value >= prev.Signal && cur.Value < cur.Signal
}

// Momentum classifies the histogram development across the last two points:
// a growing magnitude strengthens the move in progress, a shrinking one
// weakens it. Flat when the magnitudes match or history is short.
func (m *MACD) Momentum() Momentum {
	prev := m.Back(1)
	if prev == nil {
		return MomentumFlat
	}
	curMag := math.Abs(m.Latest().Histogram)
	prevMag := math.Abs(prev.Histogram)
	switch {
	case curMag > prevMag:
		return MomentumStrengthening
	case curMag < prevMag:
		return MomentumWeakening
	default:
		return MomentumFlat
	}
}
