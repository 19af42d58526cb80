package marketdata

import (
	"encoding/json"
	"fmt"
	"time"
)

// Quote is a single NBBO quote record.
type Quote struct {
	Ticker    string
	Timestamp int64 // nanosecond epoch
	AskPrice  float64
	BidPrice  float64
	AskSize   float64
	BidSize   float64
	Sequence  int64
}

type wireQuote struct {
	Timestamp      *jsonInt   `json:"timestamp"`
	SipTimestamp   *jsonInt   `json:"sip_timestamp"`
	Ask            *jsonFloat `json:"ask"`
	AskPrice       *jsonFloat `json:"ask_price"`
	Bid            *jsonFloat `json:"bid"`
	BidPrice       *jsonFloat `json:"bid_price"`
	AskSize        *jsonFloat `json:"ask_size"`
	BidSize        *jsonFloat `json:"bid_size"`
	Sequence       *jsonInt   `json:"sequence"`
	SequenceNumber *jsonInt   `json:"sequence_number"`
}

// ParseQuote builds a Quote for ticker from a raw API object. Remote aliases
// ask/bid and sequence_number map onto the canonical ask_price/bid_price and
// sequence fields.
func ParseQuote(ticker string, data []byte) (*Quote, error) {
	var w wireQuote
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, decodeError("quote", err)
	}
	return w.toQuote(ticker)
}

// ParseQuotes builds the quote list for ticker from a raw results array.
func ParseQuotes(ticker string, data []byte) ([]Quote, error) {
	var raw []wireQuote
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, decodeError("quotes", err)
	}
	out := make([]Quote, 0, len(raw))
	for i := range raw {
		q, err := raw[i].toQuote(ticker)
		if err != nil {
			return nil, fmt.Errorf("quote[%d]: %w", i, err)
		}
		out = append(out, *q)
	}
	return out, nil
}

func (w *wireQuote) toQuote(ticker string) (*Quote, error) {
	if ticker == "" {
		return nil, errMissing("ticker")
	}
	ts := firstSet(w.Timestamp, w.SipTimestamp)
	if ts == nil {
		return nil, errMissing("timestamp")
	}
	ask, err := requireFloat(firstSet(w.AskPrice, w.Ask), "ask_price")
	if err != nil {
		return nil, err
	}
	bid, err := requireFloat(firstSet(w.BidPrice, w.Bid), "bid_price")
	if err != nil {
		return nil, err
	}
	askSize, err := requireFloat(w.AskSize, "ask_size")
	if err != nil {
		return nil, err
	}
	bidSize, err := requireFloat(w.BidSize, "bid_size")
	if err != nil {
		return nil, err
	}
	seq := firstSet(w.Sequence, w.SequenceNumber)
	if seq == nil {
		return nil, errMissing("sequence")
	}

	return &Quote{
		Ticker:    ticker,
		Timestamp: int64(*ts),
		AskPrice:  ask,
		BidPrice:  bid,
		AskSize:   askSize,
		BidSize:   bidSize,
		Sequence:  int64(*seq),
	}, nil
}

// Time returns the quote timestamp as a UTC time.
func (q *Quote) Time() time.Time { return TimeFromNanos(q.Timestamp) }

// Spread is ask_price minus bid_price. Crossed markets yield a negative
// spread; the value is reported as-is.
func (q *Quote) Spread() float64 { return q.AskPrice - q.BidPrice }

// Midpoint is (bid+ask)/2 rounded to four decimal places.
func (q *Quote) Midpoint() float64 { return round4((q.BidPrice + q.AskPrice) / 2) }

// Crossed reports whether the bid is above the ask. Feeds occasionally emit
// crossed records; they are preserved rather than rejected.
func (q *Quote) Crossed() bool { return q.BidPrice > q.AskPrice }

// LastQuote is the most recent NBBO for a contract.
type LastQuote struct {
	AskPrice    float64
	BidPrice    float64
	AskSize     float64
	BidSize     float64
	Midpoint    *float64
	LastUpdated int64 // nanosecond epoch
	Timeframe   *Timeframe
}

type wireLastQuote struct {
	Ask         *jsonFloat `json:"ask"`
	AskPrice    *jsonFloat `json:"ask_price"`
	Bid         *jsonFloat `json:"bid"`
	BidPrice    *jsonFloat `json:"bid_price"`
	AskSize     *jsonFloat `json:"ask_size"`
	BidSize     *jsonFloat `json:"bid_size"`
	Midpoint    *jsonFloat `json:"midpoint"`
	LastUpdated *jsonInt   `json:"last_updated"`
	Timeframe   *string    `json:"timeframe"`
}

// ParseLastQuote builds a LastQuote from a raw API object.
func ParseLastQuote(data []byte) (*LastQuote, error) {
	var w wireLastQuote
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, decodeError("last_quote", err)
	}
	return w.toLastQuote()
}

func (w *wireLastQuote) toLastQuote() (*LastQuote, error) {
	ask, err := requireFloat(firstSet(w.AskPrice, w.Ask), "ask_price")
	if err != nil {
		return nil, err
	}
	bid, err := requireFloat(firstSet(w.BidPrice, w.Bid), "bid_price")
	if err != nil {
		return nil, err
	}
	askSize, err := requireFloat(w.AskSize, "ask_size")
	if err != nil {
		return nil, err
	}
	bidSize, err := requireFloat(w.BidSize, "bid_size")
	if err != nil {
		return nil, err
	}
	updated, err := requireInt(w.LastUpdated, "last_updated")
	if err != nil {
		return nil, err
	}

	return &LastQuote{
		AskPrice:    ask,
		BidPrice:    bid,
		AskSize:     askSize,
		BidSize:     bidSize,
		Midpoint:    floatVal(w.Midpoint),
		LastUpdated: updated,
		Timeframe:   timeframePtr(w.Timeframe),
	}, nil
}

// Time returns the last-updated timestamp as a UTC time.
func (q *LastQuote) Time() time.Time { return TimeFromNanos(q.LastUpdated) }

// Spread is ask_price minus bid_price.
func (q *LastQuote) Spread() float64 { return q.AskPrice - q.BidPrice }

// MidpointPrice returns the feed-supplied midpoint when present, otherwise
// (bid+ask)/2 rounded to four decimal places.
func (q *LastQuote) MidpointPrice() float64 {
	if q.Midpoint != nil {
		return *q.Midpoint
	}
	return round4((q.BidPrice + q.AskPrice) / 2)
}

// SpreadPercentage is the spread as a percentage of the midpoint, 0 when the
// midpoint is 0.
func (q *LastQuote) SpreadPercentage() float64 {
	mid := q.MidpointPrice()
	if mid == 0 {
		return 0
	}
	return q.Spread() / mid * 100
}

// RealTime reports whether the quote is marked real-time. Unknown timeframes
// report false.
func (q *LastQuote) RealTime() bool {
	return q.Timeframe != nil && *q.Timeframe == TimeframeRealTime
}

// Delayed reports whether the quote is marked delayed.
func (q *LastQuote) Delayed() bool {
	return q.Timeframe != nil && *q.Timeframe == TimeframeDelayed
}
