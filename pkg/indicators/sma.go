package indicators

// smaTrendLookback is how many periods back the SMA trend predicates compare
// against.
const smaTrendLookback = 5

// SMA is a simple-moving-average series for one ticker.
type SMA struct {
	Series
}

// ParseSMA builds an SMA from the results object of an indicator response,
// tagged with the window and timespan that were actually requested.
func ParseSMA(ticker string, window int, timespan string, data []byte) (*SMA, error) {
	base, err := newSeries(ticker, window, timespan)
	if err != nil {
		return nil, err
	}
	values, err := parsePoints("sma", data)
	if err != nil {
		return nil, err
	}
	base.Values = values
	return &SMA{Series: base}, nil
}

// TrendingUp reports whether the average sits higher than it did five periods
// ago. False when fewer than six points are available.
func (s *SMA) TrendingUp() bool {
	back := s.Back(smaTrendLookback)
	return back != nil && s.Latest().Value > back.Value
}

// TrendingDown mirrors TrendingUp.
func (s *SMA) TrendingDown() bool {
	back := s.Back(smaTrendLookback)
	return back != nil && s.Latest().Value < back.Value
}

// CrossedAbove reports whether this average crossed above other between the
// last two points, the bullish half of a moving-average cross.
func (s *SMA) CrossedAbove(other *SMA) bool {
	return other != nil && CrossedAbove(s.Values, other.Values)
}

// CrossedBelow mirrors CrossedAbove.
func (s *SMA) CrossedBelow(other *SMA) bool {
	return other != nil && CrossedBelow(s.Values, other.Values)
}
