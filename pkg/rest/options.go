package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/google/go-querystring/query"

	"meridian-api/pkg/marketdata"
)

// OptionsService exposes the options contract endpoints.
type OptionsService struct {
	client *Client
}

// ContractsParams filter a reference contract listing. Zero-valued fields
// are omitted from the query.
type ContractsParams struct {
	ContractType      string  `url:"contract_type,omitempty"`
	ExpirationDate    string  `url:"expiration_date,omitempty"`
	ExpirationDateGTE string  `url:"expiration_date.gte,omitempty"`
	ExpirationDateLTE string  `url:"expiration_date.lte,omitempty"`
	StrikePriceGTE    float64 `url:"strike_price.gte,omitempty"`
	StrikePriceLTE    float64 `url:"strike_price.lte,omitempty"`
	Expired           *bool   `url:"expired,omitempty"`
	Order             string  `url:"order,omitempty"`
	Limit             int     `url:"limit,omitempty"`
	Sort              string  `url:"sort,omitempty"`
}

// TradesParams bound and order a trade listing.
type TradesParams struct {
	TimestampGTE string `url:"timestamp.gte,omitempty"`
	TimestampLTE string `url:"timestamp.lte,omitempty"`
	Order        string `url:"order,omitempty"`
	Limit        int    `url:"limit,omitempty"`
	Sort         string `url:"sort,omitempty"`
}

// QuotesParams bound and order a quote listing.
type QuotesParams struct {
	TimestampGTE string `url:"timestamp.gte,omitempty"`
	TimestampLTE string `url:"timestamp.lte,omitempty"`
	Order        string `url:"order,omitempty"`
	Limit        int    `url:"limit,omitempty"`
	Sort         string `url:"sort,omitempty"`
}

// Contracts lists reference contracts for an underlying ticker, following
// cursor pages until exhausted. A 404 from the listing endpoint means the
// underlying has no contracts and yields an empty slice, not an error.
func (s *OptionsService) Contracts(ctx context.Context, underlying string, params *ContractsParams) ([]marketdata.Contract, error) {
	if err := requireArg(underlying, "underlying ticker"); err != nil {
		return nil, err
	}
	vals, _ := query.Values(params)
	vals.Set("underlying_ticker", underlying)

	var contracts []marketdata.Contract
	err := s.client.collectPages(ctx, "/v3/reference/options/contracts", vals, func(results json.RawMessage) error {
		page, err := marketdata.ParseContracts(results)
		if err != nil {
			return err
		}
		contracts = append(contracts, page...)
		return nil
	})
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return contracts, nil
}

// ContractDetails fetches the reference record for a single contract ticker.
func (s *OptionsService) ContractDetails(ctx context.Context, ticker string) (*marketdata.Contract, error) {
	if err := requireArg(ticker, "ticker"); err != nil {
		return nil, err
	}
	env, err := s.client.get(ctx, "/v3/reference/options/contracts/"+url.PathEscape(ticker), nil)
	if err != nil {
		return nil, err
	}
	return marketdata.ParseContract(env.Results)
}

// Snapshot fetches the live snapshot for one contract of an underlying.
func (s *OptionsService) Snapshot(ctx context.Context, underlying, contract string) (*marketdata.Snapshot, error) {
	if err := requireArg(underlying, "underlying ticker"); err != nil {
		return nil, err
	}
	if err := requireArg(contract, "contract ticker"); err != nil {
		return nil, err
	}
	path := "/v3/snapshot/options/" + url.PathEscape(underlying) + "/" + url.PathEscape(contract)
	env, err := s.client.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	return marketdata.ParseSnapshot(env.Results)
}

// PreviousDay fetches the prior trading day's bar for a contract. When the
// remote has no history for the ticker it returns *NoPreviousDataFoundError
// rather than a bare API error.
func (s *OptionsService) PreviousDay(ctx context.Context, ticker string) (*marketdata.DailyBar, error) {
	return s.client.previousBar(ctx, ticker)
}

// Trades lists trades for a contract ticker, following cursor pages.
func (s *OptionsService) Trades(ctx context.Context, ticker string, params *TradesParams) ([]marketdata.Trade, error) {
	return s.client.listTrades(ctx, ticker, params)
}

// LastTrade fetches the most recent trade for a contract ticker.
func (s *OptionsService) LastTrade(ctx context.Context, ticker string) (*marketdata.LastTrade, error) {
	return s.client.lastTrade(ctx, ticker)
}

// Quotes lists quotes for a contract ticker, following cursor pages.
func (s *OptionsService) Quotes(ctx context.Context, ticker string, params *QuotesParams) ([]marketdata.Quote, error) {
	return s.client.listQuotes(ctx, ticker, params)
}

// previousBar backs PreviousDay and PreviousClose; both surfaces share the
// aggregates endpoint and the no-data contract.
func (c *Client) previousBar(ctx context.Context, ticker string) (*marketdata.DailyBar, error) {
	if err := requireArg(ticker, "ticker"); err != nil {
		return nil, err
	}
	env, err := c.get(ctx, "/v2/aggs/ticker/"+url.PathEscape(ticker)+"/prev", nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, &NoPreviousDataFoundError{Ticker: ticker, cause: apiErr}
		}
		return nil, err
	}
	if len(env.Results) == 0 {
		return nil, &NoPreviousDataFoundError{Ticker: ticker}
	}
	bars, err := marketdata.ParseDailyBars(env.Results)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, &NoPreviousDataFoundError{Ticker: ticker}
	}
	return &bars[0], nil
}

func (c *Client) listTrades(ctx context.Context, ticker string, params *TradesParams) ([]marketdata.Trade, error) {
	if err := requireArg(ticker, "ticker"); err != nil {
		return nil, err
	}
	vals, _ := query.Values(params)

	var trades []marketdata.Trade
	err := c.collectPages(ctx, "/v3/trades/"+url.PathEscape(ticker), vals, func(results json.RawMessage) error {
		page, err := marketdata.ParseTrades(ticker, results)
		if err != nil {
			return err
		}
		trades = append(trades, page...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trades, nil
}

func (c *Client) listQuotes(ctx context.Context, ticker string, params *QuotesParams) ([]marketdata.Quote, error) {
	if err := requireArg(ticker, "ticker"); err != nil {
		return nil, err
	}
	vals, _ := query.Values(params)

	var quotes []marketdata.Quote
	err := c.collectPages(ctx, "/v3/quotes/"+url.PathEscape(ticker), vals, func(results json.RawMessage) error {
		page, err := marketdata.ParseQuotes(ticker, results)
		if err != nil {
			return err
		}
		quotes = append(quotes, page...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (c *Client) lastTrade(ctx context.Context, ticker string) (*marketdata.LastTrade, error) {
	if err := requireArg(ticker, "ticker"); err != nil {
		return nil, err
	}
	env, err := c.get(ctx, "/v2/last/trade/"+url.PathEscape(ticker), nil)
	if err != nil {
		return nil, err
	}
	return marketdata.ParseLastTrade(env.Results)
}
