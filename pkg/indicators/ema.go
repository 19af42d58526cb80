package indicators

// emaTrendLookback is deliberately shorter than the SMA lookback; the
// exponential average reacts faster.
const emaTrendLookback = 3

// EMA is an exponential-moving-average series for one ticker.
type EMA struct {
	Series
}

// ParseEMA builds an EMA from the results object of an indicator response,
// tagged with the window and timespan that were actually requested.
func ParseEMA(ticker string, window int, timespan string, data []byte) (*EMA, error) {
	base, err := newSeries(ticker, window, timespan)
	if err != nil {
		return nil, err
	}
	values, err := parsePoints("ema", data)
	if err != nil {
		return nil, err
	}
	base.Values = values
	return &EMA{Series: base}, nil
}

// SmoothingConstant returns the weight the remote applies to each new
// observation for this window.
func (e *EMA) SmoothingConstant() float64 {
	return 2.0 / float64(e.Window+1)
}

// TrendingUp reports whether the average sits higher than it did three
// periods ago. False when fewer than four points are available.
func (e *EMA) TrendingUp() bool {
	back := e.Back(emaTrendLookback)
	return back != nil && e.Latest().Value > back.Value
}

// TrendingDown mirrors TrendingUp.
func (e *EMA) TrendingDown() bool {
	back := e.Back(emaTrendLookback)
	return back != nil && e.Latest().Value < back.Value
}

// CrossedAbove reports whether this average crossed above other between the
// last two points.
func (e *EMA) CrossedAbove(other *EMA) bool {
	return other != nil && CrossedAbove(e.Values, other.Values)
}

// CrossedBelow mirrors CrossedAbove.
func (e *EMA) CrossedBelow(other *EMA) bool {
	return other != nil && CrossedBelow(e.Values, other.Values)
}
