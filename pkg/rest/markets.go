package rest

import (
	"context"

	"meridian-api/pkg/marketdata"
)

// MarketsService exposes the market status and trading calendar endpoints.
// Both respond without the standard results envelope: status is a bare
// object, the calendar a bare array.
type MarketsService struct {
	client *Client
}

// Status fetches the current trading session state across exchanges.
func (s *MarketsService) Status(ctx context.Context) (*marketdata.MarketStatus, error) {
	env, err := s.client.get(ctx, "/v1/marketstatus/now", nil)
	if err != nil {
		return nil, err
	}
	return marketdata.ParseMarketStatus(env.raw)
}

// UpcomingHolidays fetches the forthcoming market holidays and early
// closes, in the order the remote reports them.
func (s *MarketsService) UpcomingHolidays(ctx context.Context) ([]marketdata.Holiday, error) {
	env, err := s.client.get(ctx, "/v1/marketstatus/upcoming", nil)
	if err != nil {
		return nil, err
	}
	return marketdata.ParseHolidays(env.raw)
}
