package marketdata

import (
	"encoding/json"
	"fmt"
	"math"
)

// Direction is the sign of a bar's change.
type Direction string

const (
	DirectionUp        Direction = "up"
	DirectionDown      Direction = "down"
	DirectionUnchanged Direction = "unchanged"
)

// dojiBodyRatio is the body-to-range ratio below which a bar reads as a doji.
const dojiBodyRatio = 0.1

// DailyBar is one trading day of OHLCV data. Snapshot day bars carry the
// previous close and change fields; bars from the aggregate endpoints do not,
// so those three are optional. Aggregate bars instead carry a window start
// timestamp in milliseconds.
type DailyBar struct {
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	VWAP   float64

	Timestamp     *int64 // milliseconds, aggregate bars only
	PreviousClose *float64
	Change        *float64
	ChangePercent *float64
}

type wireDailyBar struct {
	Open          *jsonFloat `json:"open"`
	O             *jsonFloat `json:"o"`
	High          *jsonFloat `json:"high"`
	H             *jsonFloat `json:"h"`
	Low           *jsonFloat `json:"low"`
	L             *jsonFloat `json:"l"`
	Close         *jsonFloat `json:"close"`
	C             *jsonFloat `json:"c"`
	Volume        *jsonFloat `json:"volume"`
	V             *jsonFloat `json:"v"`
	VWAP          *jsonFloat `json:"vwap"`
	VW            *jsonFloat `json:"vw"`
	Timestamp     *jsonInt   `json:"timestamp"`
	T             *jsonInt   `json:"t"`
	PreviousClose *jsonFloat `json:"previous_close"`
	Change        *jsonFloat `json:"change"`
	ChangePercent *jsonFloat `json:"change_percent"`
}

// ParseDailyBar builds a DailyBar from a raw API object. The aggregate
// endpoints abbreviate field names (o/h/l/c/v/vw); both spellings decode,
// with the long form taking precedence.
func ParseDailyBar(data []byte) (*DailyBar, error) {
	var w wireDailyBar
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, decodeError("daily_bar", err)
	}
	return w.toDailyBar()
}

// ParseDailyBars builds a bar list from a raw results array, in order.
func ParseDailyBars(data []byte) ([]DailyBar, error) {
	var raw []wireDailyBar
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, decodeError("daily_bars", err)
	}
	out := make([]DailyBar, 0, len(raw))
	for i := range raw {
		b, err := raw[i].toDailyBar()
		if err != nil {
			return nil, fmt.Errorf("daily_bar[%d]: %w", i, err)
		}
		out = append(out, *b)
	}
	return out, nil
}

func (w *wireDailyBar) toDailyBar() (*DailyBar, error) {
	open, err := requireFloat(firstSet(w.Open, w.O), "open")
	if err != nil {
		return nil, err
	}
	high, err := requireFloat(firstSet(w.High, w.H), "high")
	if err != nil {
		return nil, err
	}
	low, err := requireFloat(firstSet(w.Low, w.L), "low")
	if err != nil {
		return nil, err
	}
	closePrice, err := requireFloat(firstSet(w.Close, w.C), "close")
	if err != nil {
		return nil, err
	}
	volume, err := requireFloat(firstSet(w.Volume, w.V), "volume")
	if err != nil {
		return nil, err
	}
	vwap, err := requireFloat(firstSet(w.VWAP, w.VW), "vwap")
	if err != nil {
		return nil, err
	}

	return &DailyBar{
		Open:          open,
		High:          high,
		Low:           low,
		Close:         closePrice,
		Volume:        volume,
		VWAP:          vwap,
		Timestamp:     intVal(firstSet(w.Timestamp, w.T)),
		PreviousClose: floatVal(w.PreviousClose),
		Change:        floatVal(w.Change),
		ChangePercent: floatVal(w.ChangePercent),
	}, nil
}

// Range is high minus low.
func (b *DailyBar) Range() float64 { return b.High - b.Low }

// ChangeDirection classifies the sign of the day's change. Bars without a
// change field (aggregate bars) report unchanged.
func (b *DailyBar) ChangeDirection() Direction {
	if b.Change == nil || *b.Change == 0 {
		return DirectionUnchanged
	}
	if *b.Change > 0 {
		return DirectionUp
	}
	return DirectionDown
}

// GreenDay reports a close above the open.
func (b *DailyBar) GreenDay() bool { return b.Close > b.Open }

// RedDay reports a close below the open.
func (b *DailyBar) RedDay() bool { return b.Close < b.Open }

// Doji reports a bar whose body is less than a tenth of its range.
func (b *DailyBar) Doji() bool {
	return math.Abs(b.Open-b.Close) < dojiBodyRatio*b.Range()
}

// UpperShadow is the distance from the top of the body to the high.
func (b *DailyBar) UpperShadow() float64 {
	return b.High - math.Max(b.Open, b.Close)
}

// LowerShadow is the distance from the bottom of the body to the low.
func (b *DailyBar) LowerShadow() float64 {
	return math.Min(b.Open, b.Close) - b.Low
}
