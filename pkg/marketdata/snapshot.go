package marketdata

import (
	"encoding/json"
	"math"
)

// Moneyness classifies a contract's position relative to its break-even
// price.
type Moneyness string

const (
	MoneynessInTheMoney Moneyness = "in_the_money"
	MoneynessAtTheMoney Moneyness = "at_the_money"
	MoneynessOutOfMoney Moneyness = "out_of_the_money"
)

// atmTolerance is the band around break-even treated as at the money.
const atmTolerance = 0.01

// UnderlyingAsset describes the underlying instrument attached to an option
// snapshot. Equity underlyings report price, index underlyings report value;
// either may be absent on delayed entitlements.
type UnderlyingAsset struct {
	Ticker            string
	Price             *float64
	Value             *float64
	LastUpdated       *int64 // nanosecond epoch
	Timeframe         *Timeframe
	ChangeToBreakEven float64
}

type wireUnderlyingAsset struct {
	Ticker            string     `json:"ticker"`
	Price             *jsonFloat `json:"price"`
	Value             *jsonFloat `json:"value"`
	LastUpdated       *jsonInt   `json:"last_updated"`
	Timeframe         *string    `json:"timeframe"`
	ChangeToBreakEven *jsonFloat `json:"change_to_break_even"`
}

// ParseUnderlyingAsset builds an UnderlyingAsset from a raw API object.
func ParseUnderlyingAsset(data []byte) (*UnderlyingAsset, error) {
	var w wireUnderlyingAsset
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, decodeError("underlying_asset", err)
	}
	return w.toUnderlyingAsset()
}

func (w *wireUnderlyingAsset) toUnderlyingAsset() (*UnderlyingAsset, error) {
	ticker, err := requireString(w.Ticker, "ticker")
	if err != nil {
		return nil, err
	}
	changeToBE, err := requireFloat(w.ChangeToBreakEven, "change_to_break_even")
	if err != nil {
		return nil, err
	}

	return &UnderlyingAsset{
		Ticker:            ticker,
		Price:             floatVal(w.Price),
		Value:             floatVal(w.Value),
		LastUpdated:       intVal(w.LastUpdated),
		Timeframe:         timeframePtr(w.Timeframe),
		ChangeToBreakEven: changeToBE,
	}, nil
}

// CurrentPrice returns the underlying's price, falling back to its index
// value, or nil when neither is present.
func (u *UnderlyingAsset) CurrentPrice() *float64 {
	if u.Price != nil {
		return u.Price
	}
	return u.Value
}

// BreakEvenDistance is how far the underlying sits from break-even,
// regardless of direction.
func (u *UnderlyingAsset) BreakEvenDistance() float64 {
	return math.Abs(u.ChangeToBreakEven)
}

// Snapshot is the full current view of one option contract: pricing, Greeks,
// the day's bar, and the underlying. Everything except open interest and the
// underlying depends on entitlements and market activity, so most fields are
// optional.
type Snapshot struct {
	BreakEvenPrice    *float64
	Day               *DailyBar
	Details           *Contract
	FairMarketValue   *float64
	Greeks            *Greeks
	ImpliedVolatility *float64
	LastQuote         *LastQuote
	LastTrade         *LastTrade
	OpenInterest      int
	UnderlyingAsset   UnderlyingAsset
}

type wireSnapshot struct {
	BreakEvenPrice    *jsonFloat           `json:"break_even_price"`
	Day               *wireDailyBar        `json:"day"`
	Details           *wireContract        `json:"details"`
	FairMarketValue   *jsonFloat           `json:"fmv"`
	Greeks            *wireGreeks          `json:"greeks"`
	ImpliedVolatility *jsonFloat           `json:"implied_volatility"`
	LastQuote         *wireLastQuote       `json:"last_quote"`
	LastTrade         *wireLastTrade       `json:"last_trade"`
	OpenInterest      *jsonInt             `json:"open_interest"`
	UnderlyingAsset   *wireUnderlyingAsset `json:"underlying_asset"`
}

// ParseSnapshot builds a Snapshot from a raw API object. Open interest and
// the underlying asset are required; nested sections are validated only when
// present.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var w wireSnapshot
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, decodeError("snapshot", err)
	}

	oi, err := requireInt(w.OpenInterest, "open_interest")
	if err != nil {
		return nil, err
	}
	if w.UnderlyingAsset == nil {
		return nil, errMissing("underlying_asset")
	}
	underlying, err := w.UnderlyingAsset.toUnderlyingAsset()
	if err != nil {
		return nil, err
	}

	s := &Snapshot{
		BreakEvenPrice:    floatVal(w.BreakEvenPrice),
		FairMarketValue:   floatVal(w.FairMarketValue),
		ImpliedVolatility: floatVal(w.ImpliedVolatility),
		OpenInterest:      int(oi),
		UnderlyingAsset:   *underlying,
	}
	if w.Day != nil {
		day, err := w.Day.toDailyBar()
		if err != nil {
			return nil, err
		}
		s.Day = day
	}
	if w.Details != nil {
		details, err := w.Details.toContract()
		if err != nil {
			return nil, err
		}
		s.Details = details
	}
	if w.Greeks != nil {
		s.Greeks = w.Greeks.toGreeks()
	}
	if w.LastQuote != nil {
		lq, err := w.LastQuote.toLastQuote()
		if err != nil {
			return nil, err
		}
		s.LastQuote = lq
	}
	if w.LastTrade != nil {
		lt, err := w.LastTrade.toLastTrade()
		if err != nil {
			return nil, err
		}
		s.LastTrade = lt
	}
	return s, nil
}

// HasPriceData reports whether both sides of the moneyness comparison are
// present. When it is false, Moneyness falls back to at_the_money.
func (s *Snapshot) HasPriceData() bool {
	return s.UnderlyingAsset.CurrentPrice() != nil && s.BreakEvenPrice != nil
}

// Moneyness compares the underlying price to the break-even price: within
// 0.01 is at the money, above is in the money, below is out of the money.
// When either side is missing the result is reported as at_the_money for
// compatibility with downstream consumers; use HasPriceData to tell genuine
// parity from missing data.
func (s *Snapshot) Moneyness() Moneyness {
	price := s.UnderlyingAsset.CurrentPrice()
	if price == nil || s.BreakEvenPrice == nil {
		return MoneynessAtTheMoney
	}
	diff := *price - *s.BreakEvenPrice
	if math.Abs(diff) < atmTolerance {
		return MoneynessAtTheMoney
	}
	if diff > 0 {
		return MoneynessInTheMoney
	}
	return MoneynessOutOfMoney
}
