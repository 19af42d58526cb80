package marketdata

import (
	"encoding/json"
	"fmt"
	"time"
)

// ContractType distinguishes calls from puts.
type ContractType string

const (
	ContractCall ContractType = "call"
	ContractPut  ContractType = "put"
)

// Contract is an option contract reference entry.
type Contract struct {
	Ticker            string
	UnderlyingTicker  string
	ContractType      ContractType
	StrikePrice       float64
	ExpirationDate    string // ISO date, e.g. "2024-06-21"
	ExerciseStyle     string
	SharesPerContract int

	PrimaryExchange *string
	CFI             *string
	Correction      *int64
}

type wireContract struct {
	Ticker            string     `json:"ticker"`
	UnderlyingTicker  string     `json:"underlying_ticker"`
	ContractType      string     `json:"contract_type"`
	StrikePrice       *jsonFloat `json:"strike_price"`
	ExpirationDate    string     `json:"expiration_date"`
	ExerciseStyle     string     `json:"exercise_style"`
	SharesPerContract *jsonInt   `json:"shares_per_contract"`
	PrimaryExchange   *string    `json:"primary_exchange"`
	CFI               *string    `json:"cfi"`
	Correction        *jsonInt   `json:"correction"`
}

const isoDateLayout = "2006-01-02"

// ParseContract builds a Contract from a raw API object. Required fields are
// ticker, underlying_ticker, contract_type, strike_price, expiration_date,
// exercise_style, and shares_per_contract.
func ParseContract(data []byte) (*Contract, error) {
	var w wireContract
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, decodeError("contract", err)
	}
	return w.toContract()
}

// ParseContracts builds the contract list from a raw results array, in order.
func ParseContracts(data []byte) ([]Contract, error) {
	var raw []wireContract
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, decodeError("contracts", err)
	}
	out := make([]Contract, 0, len(raw))
	for i := range raw {
		c, err := raw[i].toContract()
		if err != nil {
			return nil, fmt.Errorf("contract[%d]: %w", i, err)
		}
		out = append(out, *c)
	}
	return out, nil
}

func (w *wireContract) toContract() (*Contract, error) {
	ticker, err := requireString(w.Ticker, "ticker")
	if err != nil {
		return nil, err
	}
	underlying, err := requireString(w.UnderlyingTicker, "underlying_ticker")
	if err != nil {
		return nil, err
	}
	ct := ContractType(w.ContractType)
	if ct != ContractCall && ct != ContractPut {
		if w.ContractType == "" {
			return nil, errMissing("contract_type")
		}
		return nil, &ValidationError{Field: "contract_type", Message: fmt.Sprintf("must be %q or %q, got %q", ContractCall, ContractPut, w.ContractType)}
	}
	strike, err := requireFloat(w.StrikePrice, "strike_price")
	if err != nil {
		return nil, err
	}
	if strike <= 0 {
		return nil, &ValidationError{Field: "strike_price", Message: fmt.Sprintf("must be positive, got %v", strike)}
	}
	expiration, err := requireString(w.ExpirationDate, "expiration_date")
	if err != nil {
		return nil, err
	}
	if _, err := time.Parse(isoDateLayout, expiration); err != nil {
		return nil, &ValidationError{Field: "expiration_date", Message: fmt.Sprintf("not an ISO date: %q", expiration)}
	}
	style, err := requireString(w.ExerciseStyle, "exercise_style")
	if err != nil {
		return nil, err
	}
	shares, err := requireInt(w.SharesPerContract, "shares_per_contract")
	if err != nil {
		return nil, err
	}

	return &Contract{
		Ticker:            ticker,
		UnderlyingTicker:  underlying,
		ContractType:      ct,
		StrikePrice:       strike,
		ExpirationDate:    expiration,
		ExerciseStyle:     style,
		SharesPerContract: int(shares),
		PrimaryExchange:   w.PrimaryExchange,
		CFI:               w.CFI,
		Correction:        intVal(w.Correction),
	}, nil
}

// IsCall reports whether the contract is a call.
func (c *Contract) IsCall() bool { return c.ContractType == ContractCall }

// IsPut reports whether the contract is a put.
func (c *Contract) IsPut() bool { return c.ContractType == ContractPut }

// Expiration returns the expiration date at UTC midnight. The date format is
// validated at construction, so the parse cannot fail here.
func (c *Contract) Expiration() time.Time {
	t, _ := time.Parse(isoDateLayout, c.ExpirationDate)
	return t
}

// Expired reports whether the contract's expiration date is before asOf,
// comparing calendar dates in UTC.
func (c *Contract) Expired(asOf time.Time) bool {
	y, m, d := asOf.UTC().Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return c.Expiration().Before(day)
}
