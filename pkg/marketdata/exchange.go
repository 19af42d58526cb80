package marketdata

import (
	"encoding/json"
	"fmt"
)

// AssetClass identifies which market an exchange serves.
type AssetClass string

const (
	AssetClassStocks  AssetClass = "stocks"
	AssetClassOptions AssetClass = "options"
	AssetClassFutures AssetClass = "futures"
	AssetClassForex   AssetClass = "fx"
	AssetClassCrypto  AssetClass = "crypto"
	AssetClassIndices AssetClass = "indices"
)

// Exchange is a reference entry for a trading venue or reporting facility.
type Exchange struct {
	ID         int
	Name       string
	AssetClass AssetClass

	MIC          *string
	OperatingMIC *string
	Acronym      *string
	Locale       *string
	Type         *string
	URL          *string
}

type wireExchange struct {
	ID           *jsonInt `json:"id"`
	Name         string   `json:"name"`
	AssetClass   string   `json:"asset_class"`
	MIC          *string  `json:"mic"`
	OperatingMIC *string  `json:"operating_mic"`
	Acronym      *string  `json:"acronym"`
	Locale       *string  `json:"locale"`
	Type         *string  `json:"type"`
	URL          *string  `json:"url"`
}

// ParseExchange builds an Exchange from a raw API object. Name and
// asset_class are required; the asset class is kept verbatim so new classes
// survive decoding.
func ParseExchange(data []byte) (*Exchange, error) {
	var w wireExchange
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, decodeError("exchange", err)
	}
	return w.toExchange()
}

// ParseExchanges builds the exchange list from a raw results array.
func ParseExchanges(data []byte) ([]Exchange, error) {
	var raw []wireExchange
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, decodeError("exchanges", err)
	}
	out := make([]Exchange, 0, len(raw))
	for i := range raw {
		e, err := raw[i].toExchange()
		if err != nil {
			return nil, fmt.Errorf("exchange[%d]: %w", i, err)
		}
		out = append(out, *e)
	}
	return out, nil
}

func (w *wireExchange) toExchange() (*Exchange, error) {
	name, err := requireString(w.Name, "name")
	if err != nil {
		return nil, err
	}
	class, err := requireString(w.AssetClass, "asset_class")
	if err != nil {
		return nil, err
	}

	e := &Exchange{
		Name:         name,
		AssetClass:   AssetClass(class),
		MIC:          w.MIC,
		OperatingMIC: w.OperatingMIC,
		Acronym:      w.Acronym,
		Locale:       w.Locale,
		Type:         w.Type,
		URL:          w.URL,
	}
	if w.ID != nil {
		e.ID = int(*w.ID)
	}
	return e, nil
}

// IsStocks reports an equities venue.
func (e *Exchange) IsStocks() bool { return e.AssetClass == AssetClassStocks }

// IsOptions reports an options venue.
func (e *Exchange) IsOptions() bool { return e.AssetClass == AssetClassOptions }

// IsFutures reports a futures venue.
func (e *Exchange) IsFutures() bool { return e.AssetClass == AssetClassFutures }

// IsForex reports a foreign-exchange venue.
func (e *Exchange) IsForex() bool { return e.AssetClass == AssetClassForex }

// IsCrypto reports a crypto venue.
func (e *Exchange) IsCrypto() bool { return e.AssetClass == AssetClassCrypto }

// IsIndices reports an index publisher.
func (e *Exchange) IsIndices() bool { return e.AssetClass == AssetClassIndices }
