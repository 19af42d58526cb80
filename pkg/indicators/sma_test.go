package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSMA_ThreadsRequestParams(t *testing.T) {
	sma, err := ParseSMA("AAPL", 20, "hour", seriesPayload(t, 184.2, 185.32))
	require.NoError(t, err)

	assert.Equal(t, "AAPL", sma.Ticker)
	assert.Equal(t, 20, sma.Window)
	assert.Equal(t, "hour", sma.Timespan)
}

func TestSMA_Trending(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		up, down bool
	}{
		{name: "rising", values: []float64{1, 2, 3, 4, 5, 6}, up: true},
		{name: "falling", values: []float64{6, 5, 4, 3, 2, 1}, down: true},
		{name: "flat over lookback", values: []float64{2, 9, 9, 9, 9, 2}},
		{name: "five points only", values: []float64{1, 2, 3, 4, 5}},
		{name: "long history rising", values: []float64{9, 9, 1, 2, 3, 4, 5, 6}, up: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sma, err := ParseSMA("AAPL", 50, "day", seriesPayload(t, tt.values...))
			require.NoError(t, err)
			assert.Equal(t, tt.up, sma.TrendingUp())
			assert.Equal(t, tt.down, sma.TrendingDown())
		})
	}
}

func TestSMA_GoldenCross(t *testing.T) {
	fast, err := ParseSMA("AAPL", 50, "day", seriesPayload(t, 180.0, 186.0))
	require.NoError(t, err)
	slow, err := ParseSMA("AAPL", 200, "day", seriesPayload(t, 183.0, 184.0))
	require.NoError(t, err)

	assert.True(t, fast.CrossedAbove(slow))
	assert.False(t, fast.CrossedBelow(slow))
	assert.True(t, slow.CrossedBelow(fast))
	assert.False(t, slow.CrossedAbove(fast))
}

func TestSMA_CrossedNilOther(t *testing.T) {
	sma, err := ParseSMA("AAPL", 50, "day", seriesPayload(t, 180.0, 186.0))
	require.NoError(t, err)

	assert.False(t, sma.CrossedAbove(nil))
	assert.False(t, sma.CrossedBelow(nil))
}
