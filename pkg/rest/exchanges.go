package rest

import (
	"context"

	"github.com/google/go-querystring/query"

	"meridian-api/pkg/marketdata"
)

// ExchangesService exposes the exchange reference endpoint.
type ExchangesService struct {
	client *Client
}

// ExchangesParams filter the exchange listing.
type ExchangesParams struct {
	AssetClass string `url:"asset_class,omitempty"`
	Locale     string `url:"locale,omitempty"`
}

// List fetches the known exchanges, optionally filtered by asset class and
// locale. The listing is small and never paginated.
func (s *ExchangesService) List(ctx context.Context, params *ExchangesParams) ([]marketdata.Exchange, error) {
	vals, _ := query.Values(params)
	env, err := s.client.get(ctx, "/v3/reference/exchanges", vals)
	if err != nil {
		return nil, err
	}
	if len(env.Results) == 0 {
		return nil, nil
	}
	return marketdata.ParseExchanges(env.Results)
}
