package marketdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuote_RemoteAndCanonicalAgree(t *testing.T) {
	remote := `{
		"sip_timestamp": 1704067200000000000,
		"ask": 3.30,
		"bid": 3.10,
		"ask_size": 12,
		"bid_size": 9,
		"sequence_number": 987654
	}`
	canonical := `{
		"timestamp": 1704067200000000000,
		"ask_price": 3.30,
		"bid_price": 3.10,
		"ask_size": 12,
		"bid_size": 9,
		"sequence": 987654
	}`

	fromRemote, err := ParseQuote("O:TEST", []byte(remote))
	require.NoError(t, err)
	fromCanonical, err := ParseQuote("O:TEST", []byte(canonical))
	require.NoError(t, err)

	assert.Equal(t, fromCanonical, fromRemote, "alias decoding must be a renaming, nothing more")
	assert.Equal(t, int64(987654), fromRemote.Sequence)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), fromRemote.Time())
}

func TestQuote_DerivedPrices(t *testing.T) {
	q, err := ParseQuote("O:TEST", []byte(`{
		"timestamp": 1,
		"ask_price": 3.30,
		"bid_price": 3.10,
		"ask_size": 1,
		"bid_size": 1,
		"sequence": 1
	}`))
	require.NoError(t, err)

	assert.InDelta(t, 0.20, q.Spread(), 1e-9)
	assert.InDelta(t, 3.2, q.Midpoint(), 1e-9)
	assert.False(t, q.Crossed())
}

func TestQuote_CrossedMarket(t *testing.T) {
	q, err := ParseQuote("O:TEST", []byte(`{
		"timestamp": 1,
		"ask_price": 3.00,
		"bid_price": 3.10,
		"ask_size": 1,
		"bid_size": 1,
		"sequence": 1
	}`))
	require.NoError(t, err)

	assert.True(t, q.Crossed(), "bid above ask is preserved, not rejected")
	assert.InDelta(t, -0.10, q.Spread(), 1e-9)
}

func TestParseQuote_Validation(t *testing.T) {
	tests := []struct {
		name        string
		payload     string
		errContains string
	}{
		{
			name:        "missing timestamp",
			payload:     `{"ask_price": 1, "bid_price": 1, "ask_size": 1, "bid_size": 1, "sequence": 1}`,
			errContains: "timestamp",
		},
		{
			name:        "missing ask",
			payload:     `{"timestamp": 1, "bid_price": 1, "ask_size": 1, "bid_size": 1, "sequence": 1}`,
			errContains: "ask_price",
		},
		{
			name:        "missing sequence",
			payload:     `{"timestamp": 1, "ask_price": 1, "bid_price": 1, "ask_size": 1, "bid_size": 1}`,
			errContains: "sequence",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuote("O:TEST", []byte(tt.payload))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestParseLastQuote_RemoteAliases(t *testing.T) {
	remote := `{
		"ask": 6.90,
		"bid": 6.60,
		"ask_size": 110,
		"bid_size": 172,
		"last_updated": 1704067200000000000,
		"timeframe": "REAL-TIME"
	}`

	lq, err := ParseLastQuote([]byte(remote))
	require.NoError(t, err)

	assert.InDelta(t, 6.90, lq.AskPrice, 1e-12)
	assert.InDelta(t, 6.60, lq.BidPrice, 1e-12)
	assert.InDelta(t, 110.0, lq.AskSize, 1e-12)
	assert.InDelta(t, 172.0, lq.BidSize, 1e-12)
	assert.Nil(t, lq.Midpoint)
	assert.True(t, lq.RealTime())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), lq.Time())
}

func TestLastQuote_SpreadInvariant(t *testing.T) {
	tests := []struct {
		name     string
		ask, bid float64
		midpoint *float64
		wantMid  float64
		wantPct  float64
	}{
		{
			name: "explicit midpoint wins",
			ask:  2.0, bid: 1.0,
			midpoint: fp(1.4),
			wantMid:  1.4,
			wantPct:  1.0 / 1.4 * 100,
		},
		{
			name: "fallback midpoint",
			ask:  2.0, bid: 1.0,
			wantMid: 1.5,
			wantPct: 1.0 / 1.5 * 100,
		},
		{
			name: "fallback rounds to four places",
			ask:  3.3334, bid: 3.3333,
			wantMid: 3.3334,
			wantPct: 0.0001 / 3.3334 * 100,
		},
		{
			name: "zero midpoint yields zero percentage",
			ask:  0, bid: 0,
			wantMid: 0,
			wantPct: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lq := &LastQuote{AskPrice: tt.ask, BidPrice: tt.bid, AskSize: 1, BidSize: 1, Midpoint: tt.midpoint, LastUpdated: 1}

			assert.InDelta(t, tt.ask-tt.bid, lq.Spread(), 1e-12)
			assert.InDelta(t, tt.wantMid, lq.MidpointPrice(), 1e-9)
			assert.InDelta(t, tt.wantPct, lq.SpreadPercentage(), 1e-9)
		})
	}
}

func TestParseLastQuote_Validation(t *testing.T) {
	_, err := ParseLastQuote([]byte(`{"ask_price": 1, "bid_price": 1, "ask_size": 1, "bid_size": 1}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "last_updated")
}

func TestLastQuote_TimeframeAbsent(t *testing.T) {
	lq, err := ParseLastQuote([]byte(`{"ask_price": 1, "bid_price": 1, "ask_size": 1, "bid_size": 1, "last_updated": 1}`))
	require.NoError(t, err)

	assert.Nil(t, lq.Timeframe)
	assert.False(t, lq.RealTime())
	assert.False(t, lq.Delayed())
}
