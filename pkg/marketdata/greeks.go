package marketdata

import "encoding/json"

// Classification thresholds for the Greeks helpers. The feed omits any Greek
// it cannot compute, so every helper treats absence as "not".
const (
	highGammaThreshold  = 0.1
	deltaNeutralBand    = 0.1
	highTimeDecayPerDay = -0.05
	highVegaThreshold   = 0.1
)

// Greeks carries the option sensitivities reported with a snapshot. Each
// field is independently nullable.
type Greeks struct {
	Delta *float64
	Gamma *float64
	Theta *float64
	Vega  *float64
}

type wireGreeks struct {
	Delta *jsonFloat `json:"delta"`
	Gamma *jsonFloat `json:"gamma"`
	Theta *jsonFloat `json:"theta"`
	Vega  *jsonFloat `json:"vega"`
}

// ParseGreeks builds Greeks from a raw API object. All fields are optional;
// only malformed values fail.
func ParseGreeks(data []byte) (*Greeks, error) {
	var w wireGreeks
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, decodeError("greeks", err)
	}
	return w.toGreeks(), nil
}

func (w *wireGreeks) toGreeks() *Greeks {
	return &Greeks{
		Delta: floatVal(w.Delta),
		Gamma: floatVal(w.Gamma),
		Theta: floatVal(w.Theta),
		Vega:  floatVal(w.Vega),
	}
}

// Complete reports whether all four sensitivities are present.
func (g *Greeks) Complete() bool {
	return g.Delta != nil && g.Gamma != nil && g.Theta != nil && g.Vega != nil
}

// HighGamma reports gamma at or above 0.1, where small underlying moves
// reprice the delta quickly. Absent gamma reports false.
func (g *Greeks) HighGamma() bool {
	return g.Gamma != nil && *g.Gamma >= highGammaThreshold
}

// DeltaNeutral reports a delta within ±0.1 of zero. Absent delta reports
// false, not neutral.
func (g *Greeks) DeltaNeutral() bool {
	if g.Delta == nil {
		return false
	}
	d := *g.Delta
	return d >= -deltaNeutralBand && d <= deltaNeutralBand
}

// Bullish reports a positive delta. Absent delta reports false.
func (g *Greeks) Bullish() bool { return g.Delta != nil && *g.Delta > 0 }

// Bearish reports a negative delta. Absent delta reports false.
func (g *Greeks) Bearish() bool { return g.Delta != nil && *g.Delta < 0 }

// HighTimeDecay reports theta at or below -0.05 per day. Absent theta
// reports false.
func (g *Greeks) HighTimeDecay() bool {
	return g.Theta != nil && *g.Theta <= highTimeDecayPerDay
}

// HighVega reports vega at or above 0.1, marking strong volatility
// sensitivity. Absent vega reports false.
func (g *Greeks) HighVega() bool {
	return g.Vega != nil && *g.Vega >= highVegaThreshold
}
