package marketdata

import (
	"encoding/json"
	"fmt"
	"time"
)

// contractMultiplier is the standard equity-option deliverable size used when
// pricing a whole contract from a per-share premium.
const contractMultiplier = 100

// Trade is a single option trade print.
type Trade struct {
	Ticker    string
	Timestamp int64 // nanosecond epoch
	Price     float64
	Size      float64

	Exchange   *int64
	Conditions []int64
}

type wireTrade struct {
	Timestamp            *jsonInt   `json:"timestamp"`
	SipTimestamp         *jsonInt   `json:"sip_timestamp"`
	ParticipantTimestamp *jsonInt   `json:"participant_timestamp"`
	Price                *jsonFloat `json:"price"`
	Size                 *jsonFloat `json:"size"`
	Exchange             *jsonInt   `json:"exchange"`
	Conditions           []int64    `json:"conditions"`
}

// ParseTrade builds a Trade for ticker from a raw API object. The canonical
// timestamp field is preferred; sip_timestamp and participant_timestamp are
// accepted as remote aliases.
func ParseTrade(ticker string, data []byte) (*Trade, error) {
	var w wireTrade
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, decodeError("trade", err)
	}
	return w.toTrade(ticker)
}

// ParseTrades builds the trade list for ticker from a raw results array.
func ParseTrades(ticker string, data []byte) ([]Trade, error) {
	var raw []wireTrade
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, decodeError("trades", err)
	}
	out := make([]Trade, 0, len(raw))
	for i := range raw {
		t, err := raw[i].toTrade(ticker)
		if err != nil {
			return nil, fmt.Errorf("trade[%d]: %w", i, err)
		}
		out = append(out, *t)
	}
	return out, nil
}

func (w *wireTrade) toTrade(ticker string) (*Trade, error) {
	if ticker == "" {
		return nil, errMissing("ticker")
	}
	ts := firstSet(w.Timestamp, w.SipTimestamp, w.ParticipantTimestamp)
	if ts == nil {
		return nil, errMissing("timestamp")
	}
	price, err := requireFloat(w.Price, "price")
	if err != nil {
		return nil, err
	}
	if price < 0 {
		return nil, &ValidationError{Field: "price", Message: fmt.Sprintf("must not be negative, got %v", price)}
	}
	size, err := requireFloat(w.Size, "size")
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, &ValidationError{Field: "size", Message: fmt.Sprintf("must not be negative, got %v", size)}
	}

	return &Trade{
		Ticker:     ticker,
		Timestamp:  int64(*ts),
		Price:      price,
		Size:       size,
		Exchange:   intVal(w.Exchange),
		Conditions: w.Conditions,
	}, nil
}

// Time returns the trade timestamp as a UTC time.
func (t *Trade) Time() time.Time { return TimeFromNanos(t.Timestamp) }

// TotalPrice is the per-share notional of the print: price times size.
func (t *Trade) TotalPrice() float64 { return t.Price * t.Size }

// TotalValue is the contract notional: price times size times the standard
// 100-share multiplier.
func (t *Trade) TotalValue() float64 { return t.Price * t.Size * contractMultiplier }

// LastTrade is the most recent trade for a contract.
type LastTrade struct {
	Price        float64
	Size         int
	SipTimestamp int64 // nanosecond epoch
	Timeframe    *Timeframe

	Exchange   *int64
	Conditions []int64
}

type wireLastTrade struct {
	Price        *jsonFloat `json:"price"`
	Size         *jsonInt   `json:"size"`
	SipTimestamp *jsonInt   `json:"sip_timestamp"`
	Timestamp    *jsonInt   `json:"timestamp"`
	Timeframe    *string    `json:"timeframe"`
	Exchange     *jsonInt   `json:"exchange"`
	Conditions   []int64    `json:"conditions"`
}

// ParseLastTrade builds a LastTrade from a raw API object.
func ParseLastTrade(data []byte) (*LastTrade, error) {
	var w wireLastTrade
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, decodeError("last_trade", err)
	}
	return w.toLastTrade()
}

func (w *wireLastTrade) toLastTrade() (*LastTrade, error) {
	price, err := requireFloat(w.Price, "price")
	if err != nil {
		return nil, err
	}
	size, err := requireInt(w.Size, "size")
	if err != nil {
		return nil, err
	}
	ts := firstSet(w.SipTimestamp, w.Timestamp)
	if ts == nil {
		return nil, errMissing("sip_timestamp")
	}

	return &LastTrade{
		Price:        price,
		Size:         int(size),
		SipTimestamp: int64(*ts),
		Timeframe:    timeframePtr(w.Timeframe),
		Exchange:     intVal(w.Exchange),
		Conditions:   w.Conditions,
	}, nil
}

// Time returns the trade timestamp as a UTC time.
func (t *LastTrade) Time() time.Time { return TimeFromNanos(t.SipTimestamp) }

// TotalPrice is price times size.
func (t *LastTrade) TotalPrice() float64 { return t.Price * float64(t.Size) }

// TotalValue is price times size times the 100-share contract multiplier.
func (t *LastTrade) TotalValue() float64 {
	return t.Price * float64(t.Size) * contractMultiplier
}

// RealTime reports whether the record is marked real-time. Unknown timeframes
// report false.
func (t *LastTrade) RealTime() bool {
	return t.Timeframe != nil && *t.Timeframe == TimeframeRealTime
}

// Delayed reports whether the record is marked delayed.
func (t *LastTrade) Delayed() bool {
	return t.Timeframe != nil && *t.Timeframe == TimeframeDelayed
}
