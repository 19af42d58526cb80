package indicators

// Signal is a relative-strength classification band.
type Signal string

// Bands in ascending order of reading.
const (
	SignalExtremelyOversold   Signal = "extremely_oversold"
	SignalOversold            Signal = "oversold"
	SignalWeak                Signal = "weak"
	SignalNeutral             Signal = "neutral"
	SignalStrong              Signal = "strong"
	SignalOverbought          Signal = "overbought"
	SignalExtremelyOverbought Signal = "extremely_overbought"
)

// Band edges. The oversold and overbought edges are open on the neutral side:
// a reading of exactly 30 is weak, not oversold, and exactly 60 is neutral,
// not strong.
const (
	extremeOversoldBelow = 20.0
	oversoldBelow        = 30.0
	weakBelow            = 40.0
	neutralThrough       = 60.0
	strongThrough        = 70.0
	overboughtThrough    = 80.0
)

// ClassifySignal maps a relative-strength reading onto its band. The bands
// partition the whole axis, so every reading classifies.
func ClassifySignal(v float64) Signal {
	switch {
	case v < extremeOversoldBelow:
		return SignalExtremelyOversold
	case v < oversoldBelow:
		return SignalOversold
	case v < weakBelow:
		return SignalWeak
	case v <= neutralThrough:
		return SignalNeutral
	case v <= strongThrough:
		return SignalStrong
	case v <= overboughtThrough:
		return SignalOverbought
	default:
		return SignalExtremelyOverbought
	}
}

// RSI is a relative-strength-index series for one ticker.
type RSI struct {
	Series
}

// ParseRSI builds an RSI from the results object of an indicator response,
// tagged with the window and timespan that were actually requested.
func ParseRSI(ticker string, window int, timespan string, data []byte) (*RSI, error) {
	base, err := newSeries(ticker, window, timespan)
	if err != nil {
		return nil, err
	}
	values, err := parsePoints("rsi", data)
	if err != nil {
		return nil, err
	}
	base.Values = values
	return &RSI{Series: base}, nil
}

// Signal classifies the latest reading. Neutral for an empty series.
func (r *RSI) Signal() Signal {
	latest := r.Latest()
	if latest == nil {
		return SignalNeutral
	}
	return ClassifySignal(latest.Value)
}

// Overbought reports a latest reading above 70.
func (r *RSI) Overbought() bool {
	latest := r.Latest()
	return latest != nil && latest.Value > strongThrough
}

// Oversold reports a latest reading below 30.
func (r *RSI) Oversold() bool {
	latest := r.Latest()
	return latest != nil && latest.Value < oversoldBelow
}

// RecoveringFromOversold reports an oversold exit: the two prior readings
// both below 30 and the latest back at or above 30 and rising. False with
// fewer than three points.
func (r *RSI) RecoveringFromOversold() bool {
	before := r.Back(2)
	if before == nil {
		return false
	}
	cur, prev := r.Back(0), r.Back(1)
	return prev.Value < oversoldBelow && before.Value < oversoldBelow &&
		cur.Value >= oversoldBelow && cur.Value > prev.Value
}

// BullishDivergence reports price making a lower low across the last two
// aligned samples while the oscillator rises. prices must be sampled on the
// same periods as the series, oldest first; fewer than two points on either
// side returns false.
func (r *RSI) BullishDivergence(prices []float64) bool {
	prev := r.Back(1)
	if prev == nil || len(prices) < 2 {
		return false
	}
	priceDown := prices[len(prices)-1] < prices[len(prices)-2]
	return priceDown && r.Latest().Value > prev.Value
}

// BearishDivergence mirrors BullishDivergence: price rising while the
// oscillator falls.
func (r *RSI) BearishDivergence(prices []float64) bool {
	prev := r.Back(1)
	if prev == nil || len(prices) < 2 {
		return false
	}
	priceUp := prices[len(prices)-1] > prices[len(prices)-2]
	return priceUp && r.Latest().Value < prev.Value
}
