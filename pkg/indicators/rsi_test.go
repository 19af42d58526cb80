package indicators

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySignal(t *testing.T) {
	tests := []struct {
		value float64
		want  Signal
	}{
		{value: 0, want: SignalExtremelyOversold},
		{value: 19.99, want: SignalExtremelyOversold},
		{value: 20, want: SignalOversold},
		{value: 28.6, want: SignalOversold},
		{value: 29.99, want: SignalOversold},
		{value: 30, want: SignalWeak},
		{value: 39.99, want: SignalWeak},
		{value: 40, want: SignalNeutral},
		{value: 50, want: SignalNeutral},
		{value: 60, want: SignalNeutral},
		{value: 60.01, want: SignalStrong},
		{value: 70, want: SignalStrong},
		{value: 70.01, want: SignalOverbought},
		{value: 80, want: SignalOverbought},
		{value: 80.01, want: SignalExtremelyOverbought},
		{value: 100, want: SignalExtremelyOverbought},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.value), func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySignal(tt.value))
		})
	}
}

func TestRSI_SignalClassification(t *testing.T) {
	rsi, err := ParseRSI("AAPL", 14, "day",
		seriesPayload(t, 45.0, 68.5, 65.0, 74.3, 67.0, 70.0, 50.0, 18.4, 31.2, 28.6))
	require.NoError(t, err)

	require.Equal(t, 28.6, rsi.Latest().Value)
	assert.Equal(t, SignalOversold, rsi.Signal())
	assert.Equal(t, "oversold", string(rsi.Signal()))
	assert.True(t, rsi.Oversold())
	assert.False(t, rsi.Overbought())
	assert.False(t, rsi.RecoveringFromOversold(), "previous reading 31.2 is not oversold")
}

func TestRSI_EmptySeriesNeutral(t *testing.T) {
	rsi, err := ParseRSI("AAPL", 14, "day", []byte(`{"values": []}`))
	require.NoError(t, err)

	assert.Equal(t, SignalNeutral, rsi.Signal())
	assert.False(t, rsi.Overbought())
	assert.False(t, rsi.Oversold())
	assert.False(t, rsi.RecoveringFromOversold())
}

func TestRSI_OverboughtOversold(t *testing.T) {
	tests := []struct {
		name       string
		value      float64
		overbought bool
		oversold   bool
	}{
		{name: "deep oversold", value: 12.0, oversold: true},
		{name: "boundary thirty", value: 30.0},
		{name: "neutral", value: 55.0},
		{name: "boundary seventy", value: 70.0},
		{name: "overbought", value: 71.5, overbought: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rsi, err := ParseRSI("AAPL", 14, "day", seriesPayload(t, tt.value))
			require.NoError(t, err)
			assert.Equal(t, tt.overbought, rsi.Overbought())
			assert.Equal(t, tt.oversold, rsi.Oversold())
		})
	}
}

func TestRSI_RecoveringFromOversold(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   bool
	}{
		{name: "clean recovery", values: []float64{25.0, 28.0, 32.0}, want: true},
		{name: "boundary thirty counts", values: []float64{25.0, 28.0, 30.0}, want: true},
		{name: "still oversold", values: []float64{25.0, 28.0, 29.5}, want: false},
		{name: "prior not both oversold", values: []float64{35.0, 28.0, 32.0}, want: false},
		{name: "recovery too old", values: []float64{25.0, 28.0, 32.0, 45.0}, want: false},
		{name: "two points only", values: []float64{25.0, 32.0}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rsi, err := ParseRSI("AAPL", 14, "day", seriesPayload(t, tt.values...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, rsi.RecoveringFromOversold())
		})
	}
}

func TestRSI_Divergence(t *testing.T) {
	rsi, err := ParseRSI("AAPL", 14, "day", seriesPayload(t, 28.0, 34.0))
	require.NoError(t, err)

	assert.True(t, rsi.BullishDivergence([]float64{182.5, 180.0}), "price lower low, oscillator higher low")
	assert.False(t, rsi.BullishDivergence([]float64{180.0, 182.5}), "price and oscillator agree")
	assert.False(t, rsi.BearishDivergence([]float64{180.0, 182.5}), "oscillator rising with price")

	falling, err := ParseRSI("AAPL", 14, "day", seriesPayload(t, 72.0, 66.0))
	require.NoError(t, err)

	assert.True(t, falling.BearishDivergence([]float64{180.0, 182.5}), "price higher high, oscillator lower high")
	assert.False(t, falling.BullishDivergence([]float64{182.5, 180.0}), "oscillator falling with price")
}

func TestRSI_DivergenceInsufficientHistory(t *testing.T) {
	rsi, err := ParseRSI("AAPL", 14, "day", seriesPayload(t, 28.0, 34.0))
	require.NoError(t, err)

	assert.False(t, rsi.BullishDivergence([]float64{180.0}))
	assert.False(t, rsi.BullishDivergence(nil))

	short, err := ParseRSI("AAPL", 14, "day", seriesPayload(t, 34.0))
	require.NoError(t, err)
	assert.False(t, short.BullishDivergence([]float64{182.5, 180.0}))
	assert.False(t, short.BearishDivergence([]float64{180.0, 182.5}))
}
