package rest

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndicators_SMADefaults(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/indicators/sma/AAPL", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("window"), "unset window falls back to the default and is sent explicitly")
		assert.Equal(t, "day", r.URL.Query().Get("timespan"))
		fmt.Fprint(w, `{"status":"OK","results":{"values":[
			{"timestamp": 1704240000000, "value": 184.9},
			{"timestamp": 1704153600000, "value": 184.2}
		]}}`)
	}))

	sma, err := client.Indicators().SMA(context.Background(), "AAPL", nil)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", sma.Ticker)
	assert.Equal(t, 50, sma.Window, "the series reports the window it was requested with")
	assert.Equal(t, "day", sma.Timespan)
	require.Equal(t, 2, sma.Len())
	assert.Equal(t, 184.9, sma.Latest().Value, "newest-first payloads are reordered chronologically")
}

func TestIndicators_ParamsThreadThrough(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/indicators/ema/TSLA", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "9", q.Get("window"))
		assert.Equal(t, "hour", q.Get("timespan"))
		assert.Equal(t, "2024-01-01", q.Get("timestamp.gte"))
		assert.Equal(t, "close", q.Get("series_type"))
		assert.Equal(t, "120", q.Get("limit"))
		fmt.Fprint(w, `{"status":"OK","results":{"values":[{"timestamp": 1704240000000, "value": 247.3}]}}`)
	}))

	ema, err := client.Indicators().EMA(context.Background(), "TSLA", &IndicatorParams{
		Window:       9,
		Timespan:     "hour",
		TimestampGTE: "2024-01-01",
		SeriesType:   "close",
		Limit:        120,
	})
	require.NoError(t, err)
	assert.Equal(t, 9, ema.Window)
	assert.Equal(t, "hour", ema.Timespan)
	assert.InDelta(t, 0.2, ema.SmoothingConstant(), 1e-9)
}

func TestIndicators_RSIDefaults(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/indicators/rsi/AAPL", r.URL.Path)
		assert.Equal(t, "14", r.URL.Query().Get("window"))
		fmt.Fprint(w, `{"status":"OK","results":{"values":[
			{"timestamp": 1704240000000, "value": 24.5},
			{"timestamp": 1704153600000, "value": 33.0}
		]}}`)
	}))

	rsi, err := client.Indicators().RSI(context.Background(), "AAPL", nil)
	require.NoError(t, err)
	assert.Equal(t, 14, rsi.Window)
	assert.True(t, rsi.Oversold())
	assert.Equal(t, "oversold", string(rsi.Signal()))
}

func TestIndicators_EmptyResults(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"OK","request_id":"r2"}`)
	}))

	sma, err := client.Indicators().SMA(context.Background(), "NEWIPO", nil)
	require.NoError(t, err, "an indicator without history is an empty series, not a failure")
	assert.Equal(t, 0, sma.Len())
	assert.Nil(t, sma.Latest())
	assert.False(t, sma.TrendingUp())
}

func TestIndicators_MACDDefaults(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/indicators/macd/AAPL", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "12", q.Get("short_window"))
		assert.Equal(t, "26", q.Get("long_window"))
		assert.Equal(t, "9", q.Get("signal_window"))
		assert.Equal(t, "day", q.Get("timespan"))
		fmt.Fprint(w, `{"status":"OK","results":{"values":[
			{"timestamp": 1704240000000, "value": 0.42, "signal": 0.31, "histogram": 0.11},
			{"timestamp": 1704153600000, "value": 0.28, "signal": 0.33, "histogram": -0.05}
		]}}`)
	}))

	macd, err := client.Indicators().MACD(context.Background(), "AAPL", nil)
	require.NoError(t, err)
	assert.Equal(t, 12, macd.ShortWindow)
	assert.Equal(t, 26, macd.LongWindow)
	assert.Equal(t, 9, macd.SignalWindow)
	require.Equal(t, 2, macd.Len())
	assert.True(t, macd.BullishCrossover(), "value moved from below the signal line to above it")
}

func TestIndicators_MACDOverrides(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "5", q.Get("short_window"))
		assert.Equal(t, "35", q.Get("long_window"))
		assert.Equal(t, "5", q.Get("signal_window"))
		assert.Equal(t, "week", q.Get("timespan"))
		fmt.Fprint(w, `{"status":"OK","results":{"values":[]}}`)
	}))

	macd, err := client.Indicators().MACD(context.Background(), "AAPL", &MACDParams{
		ShortWindow:  5,
		LongWindow:   35,
		SignalWindow: 5,
		Timespan:     "week",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, macd.ShortWindow)
	assert.Equal(t, 35, macd.LongWindow)
	assert.Equal(t, "week", macd.Timespan)
	assert.Equal(t, 0, macd.Len())
}

func TestIndicators_RequireTicker(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := client.Indicators().SMA(context.Background(), "", nil)
	assert.EqualError(t, err, "meridian: ticker is required")

	_, err = client.Indicators().MACD(context.Background(), "", nil)
	assert.EqualError(t, err, "meridian: ticker is required")
}
