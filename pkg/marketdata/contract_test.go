package marketdata

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contractFixture = `{
	"ticker": "O:AAPL240621C00150000",
	"underlying_ticker": "AAPL",
	"contract_type": "call",
	"strike_price": 150,
	"expiration_date": "2024-06-21",
	"exercise_style": "american",
	"shares_per_contract": 100,
	"primary_exchange": "BATO",
	"cfi": "OCASPS"
}`

func TestParseContract(t *testing.T) {
	c, err := ParseContract([]byte(contractFixture))
	require.NoError(t, err)

	assert.Equal(t, "O:AAPL240621C00150000", c.Ticker)
	assert.Equal(t, "AAPL", c.UnderlyingTicker)
	assert.Equal(t, ContractCall, c.ContractType)
	assert.InDelta(t, 150.0, c.StrikePrice, 1e-12)
	assert.Equal(t, "2024-06-21", c.ExpirationDate)
	assert.Equal(t, "american", c.ExerciseStyle)
	assert.Equal(t, 100, c.SharesPerContract)
	require.NotNil(t, c.PrimaryExchange)
	assert.Equal(t, "BATO", *c.PrimaryExchange)
	require.NotNil(t, c.CFI)
	assert.Equal(t, "OCASPS", *c.CFI)
	assert.Nil(t, c.Correction)

	assert.True(t, c.IsCall())
	assert.False(t, c.IsPut())
}

func TestParseContract_StrikeCoercion(t *testing.T) {
	c, err := ParseContract([]byte(`{
		"ticker": "O:SPY240119P00470000",
		"underlying_ticker": "SPY",
		"contract_type": "put",
		"strike_price": "470.5",
		"expiration_date": "2024-01-19",
		"exercise_style": "american",
		"shares_per_contract": 100
	}`))
	require.NoError(t, err)
	assert.InDelta(t, 470.5, c.StrikePrice, 1e-12)
	assert.True(t, c.IsPut())
}

func TestParseContract_Validation(t *testing.T) {
	valid := map[string]any{
		"ticker":              "O:AAPL240621C00150000",
		"underlying_ticker":   "AAPL",
		"contract_type":       "call",
		"strike_price":        150.0,
		"expiration_date":     "2024-06-21",
		"exercise_style":      "american",
		"shares_per_contract": 100,
	}

	tests := []struct {
		name        string
		mutate      func(m map[string]any)
		errContains string
	}{
		{
			name:        "missing ticker",
			mutate:      func(m map[string]any) { delete(m, "ticker") },
			errContains: "ticker",
		},
		{
			name:        "missing underlying",
			mutate:      func(m map[string]any) { delete(m, "underlying_ticker") },
			errContains: "underlying_ticker",
		},
		{
			name:        "missing contract type",
			mutate:      func(m map[string]any) { delete(m, "contract_type") },
			errContains: "contract_type",
		},
		{
			name:        "bogus contract type",
			mutate:      func(m map[string]any) { m["contract_type"] = "warrant" },
			errContains: "warrant",
		},
		{
			name:        "missing strike",
			mutate:      func(m map[string]any) { delete(m, "strike_price") },
			errContains: "strike_price",
		},
		{
			name:        "zero strike",
			mutate:      func(m map[string]any) { m["strike_price"] = 0.0 },
			errContains: "positive",
		},
		{
			name:        "negative strike",
			mutate:      func(m map[string]any) { m["strike_price"] = -150.0 },
			errContains: "positive",
		},
		{
			name:        "non-numeric strike",
			mutate:      func(m map[string]any) { m["strike_price"] = "abc" },
			errContains: "not numeric",
		},
		{
			name:        "malformed expiration",
			mutate:      func(m map[string]any) { m["expiration_date"] = "June 21" },
			errContains: "ISO date",
		},
		{
			name:        "missing exercise style",
			mutate:      func(m map[string]any) { delete(m, "exercise_style") },
			errContains: "exercise_style",
		},
		{
			name:        "missing shares per contract",
			mutate:      func(m map[string]any) { delete(m, "shares_per_contract") },
			errContains: "shares_per_contract",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := make(map[string]any, len(valid))
			for k, v := range valid {
				doc[k] = v
			}
			tt.mutate(doc)

			_, err := ParseContract(mustJSON(t, doc))
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "want ValidationError, got %T", err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestParseContracts(t *testing.T) {
	payload := `[
		{
			"ticker": "O:AAPL240621C00150000",
			"underlying_ticker": "AAPL",
			"contract_type": "call",
			"strike_price": 150,
			"expiration_date": "2024-06-21",
			"exercise_style": "american",
			"shares_per_contract": 100
		},
		{
			"ticker": "O:AAPL240621P00145000",
			"underlying_ticker": "AAPL",
			"contract_type": "put",
			"strike_price": 145,
			"expiration_date": "2024-06-21",
			"exercise_style": "american",
			"shares_per_contract": 100
		}
	]`

	contracts, err := ParseContracts([]byte(payload))
	require.NoError(t, err)
	require.Len(t, contracts, 2)

	var call *Contract
	for i := range contracts {
		if contracts[i].IsCall() {
			call = &contracts[i]
		}
	}
	require.NotNil(t, call, "expected a call contract in the listing")
	assert.InDelta(t, 150.0, call.StrikePrice, 1e-12)
}

func TestParseContracts_BadElement(t *testing.T) {
	payload := `[
		{
			"ticker": "O:AAPL240621C00150000",
			"underlying_ticker": "AAPL",
			"contract_type": "call",
			"strike_price": 150,
			"expiration_date": "2024-06-21",
			"exercise_style": "american",
			"shares_per_contract": 100
		},
		{"ticker": "O:BROKEN"}
	]`

	_, err := ParseContracts([]byte(payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contract[1]")
}

func TestContract_Expiration(t *testing.T) {
	c, err := ParseContract([]byte(contractFixture))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), c.Expiration())
	assert.False(t, c.Expired(time.Date(2024, 6, 21, 23, 0, 0, 0, time.UTC)), "not expired on expiration day")
	assert.True(t, c.Expired(time.Date(2024, 6, 22, 0, 0, 0, 0, time.UTC)))
	assert.False(t, c.Expired(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
}
