package rest

import (
	"context"
	"net/url"

	"github.com/google/go-querystring/query"

	"meridian-api/pkg/marketdata"
)

// StocksService exposes the stock market data endpoints.
type StocksService struct {
	client *Client
}

// AggregatesParams tune a daily-bar range query.
type AggregatesParams struct {
	Adjusted *bool  `url:"adjusted,omitempty"`
	Sort     string `url:"sort,omitempty"`
	Limit    int    `url:"limit,omitempty"`
}

// PreviousClose fetches the prior trading day's bar for a stock ticker.
// Same no-data contract as the options PreviousDay: a ticker without
// history yields *NoPreviousDataFoundError.
func (s *StocksService) PreviousClose(ctx context.Context, ticker string) (*marketdata.DailyBar, error) {
	return s.client.previousBar(ctx, ticker)
}

// DailyBars fetches one bar per trading day over [from, to], both ISO dates
// inclusive. Bars arrive oldest first.
func (s *StocksService) DailyBars(ctx context.Context, ticker, from, to string, params *AggregatesParams) ([]marketdata.DailyBar, error) {
	if err := requireArg(ticker, "ticker"); err != nil {
		return nil, err
	}
	if err := requireArg(from, "from date"); err != nil {
		return nil, err
	}
	if err := requireArg(to, "to date"); err != nil {
		return nil, err
	}
	vals, _ := query.Values(params)

	path := "/v2/aggs/ticker/" + url.PathEscape(ticker) + "/range/1/day/" + url.PathEscape(from) + "/" + url.PathEscape(to)
	env, err := s.client.get(ctx, path, vals)
	if err != nil {
		return nil, err
	}
	if len(env.Results) == 0 {
		return nil, nil
	}
	return marketdata.ParseDailyBars(env.Results)
}

// Trades lists trades for a stock ticker, following cursor pages.
func (s *StocksService) Trades(ctx context.Context, ticker string, params *TradesParams) ([]marketdata.Trade, error) {
	return s.client.listTrades(ctx, ticker, params)
}

// LastTrade fetches the most recent trade for a stock ticker.
func (s *StocksService) LastTrade(ctx context.Context, ticker string) (*marketdata.LastTrade, error) {
	return s.client.lastTrade(ctx, ticker)
}

// LastQuote fetches the most recent NBBO quote for a stock ticker.
func (s *StocksService) LastQuote(ctx context.Context, ticker string) (*marketdata.LastQuote, error) {
	if err := requireArg(ticker, "ticker"); err != nil {
		return nil, err
	}
	env, err := s.client.get(ctx, "/v2/last/nbbo/"+url.PathEscape(ticker), nil)
	if err != nil {
		return nil, err
	}
	return marketdata.ParseLastQuote(env.Results)
}
