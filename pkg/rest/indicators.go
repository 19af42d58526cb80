package rest

import (
	"context"
	"net/url"
	"strconv"

	"github.com/google/go-querystring/query"

	"meridian-api/pkg/indicators"
)

// Defaults applied when params leave a window or timespan unset. The
// resolved values are sent to the remote AND stamped onto the returned
// series, so the series always reports the window it was computed with.
const (
	defaultMovingAverageWindow = 50
	defaultRSIWindow           = 14
	defaultMACDShortWindow     = 12
	defaultMACDLongWindow      = 26
	defaultMACDSignalWindow    = 9
	defaultTimespan            = "day"
)

// IndicatorsService exposes the server-computed technical indicator
// endpoints.
type IndicatorsService struct {
	client *Client
}

// IndicatorParams tune a single-window indicator query. Zero-valued fields
// fall back to the service defaults.
type IndicatorParams struct {
	Timestamp    string `url:"timestamp,omitempty"`
	TimestampGTE string `url:"timestamp.gte,omitempty"`
	TimestampLTE string `url:"timestamp.lte,omitempty"`
	Timespan     string `url:"timespan,omitempty"`
	Window       int    `url:"window,omitempty"`
	SeriesType   string `url:"series_type,omitempty"`
	Order        string `url:"order,omitempty"`
	Limit        int    `url:"limit,omitempty"`
}

// MACDParams tune a MACD query; the three windows default to 12/26/9.
type MACDParams struct {
	Timestamp    string `url:"timestamp,omitempty"`
	TimestampGTE string `url:"timestamp.gte,omitempty"`
	TimestampLTE string `url:"timestamp.lte,omitempty"`
	Timespan     string `url:"timespan,omitempty"`
	ShortWindow  int    `url:"short_window,omitempty"`
	LongWindow   int    `url:"long_window,omitempty"`
	SignalWindow int    `url:"signal_window,omitempty"`
	SeriesType   string `url:"series_type,omitempty"`
	Order        string `url:"order,omitempty"`
	Limit        int    `url:"limit,omitempty"`
}

func (p *IndicatorParams) resolve(defaultWindow int) (window int, timespan string) {
	window, timespan = defaultWindow, defaultTimespan
	if p == nil {
		return window, timespan
	}
	if p.Window > 0 {
		window = p.Window
	}
	if p.Timespan != "" {
		timespan = p.Timespan
	}
	return window, timespan
}

func (p *MACDParams) resolve() (short, long, signal int, timespan string) {
	short, long, signal = defaultMACDShortWindow, defaultMACDLongWindow, defaultMACDSignalWindow
	timespan = defaultTimespan
	if p == nil {
		return short, long, signal, timespan
	}
	if p.ShortWindow > 0 {
		short = p.ShortWindow
	}
	if p.LongWindow > 0 {
		long = p.LongWindow
	}
	if p.SignalWindow > 0 {
		signal = p.SignalWindow
	}
	if p.Timespan != "" {
		timespan = p.Timespan
	}
	return short, long, signal, timespan
}

// SMA fetches a simple moving average series for a ticker.
func (s *IndicatorsService) SMA(ctx context.Context, ticker string, params *IndicatorParams) (*indicators.SMA, error) {
	window, timespan := params.resolve(defaultMovingAverageWindow)
	data, err := s.fetch(ctx, "sma", ticker, params, window, timespan)
	if err != nil {
		return nil, err
	}
	return indicators.ParseSMA(ticker, window, timespan, data)
}

// EMA fetches an exponential moving average series for a ticker.
func (s *IndicatorsService) EMA(ctx context.Context, ticker string, params *IndicatorParams) (*indicators.EMA, error) {
	window, timespan := params.resolve(defaultMovingAverageWindow)
	data, err := s.fetch(ctx, "ema", ticker, params, window, timespan)
	if err != nil {
		return nil, err
	}
	return indicators.ParseEMA(ticker, window, timespan, data)
}

// RSI fetches a relative strength index series for a ticker.
func (s *IndicatorsService) RSI(ctx context.Context, ticker string, params *IndicatorParams) (*indicators.RSI, error) {
	window, timespan := params.resolve(defaultRSIWindow)
	data, err := s.fetch(ctx, "rsi", ticker, params, window, timespan)
	if err != nil {
		return nil, err
	}
	return indicators.ParseRSI(ticker, window, timespan, data)
}

// MACD fetches a MACD series for a ticker.
func (s *IndicatorsService) MACD(ctx context.Context, ticker string, params *MACDParams) (*indicators.MACD, error) {
	if err := requireArg(ticker, "ticker"); err != nil {
		return nil, err
	}
	short, long, signal, timespan := params.resolve()
	vals, _ := query.Values(params)
	vals.Set("short_window", strconv.Itoa(short))
	vals.Set("long_window", strconv.Itoa(long))
	vals.Set("signal_window", strconv.Itoa(signal))
	vals.Set("timespan", timespan)

	data, err := s.results(ctx, "macd", ticker, vals)
	if err != nil {
		return nil, err
	}
	return indicators.ParseMACD(ticker, short, long, signal, timespan, data)
}

func (s *IndicatorsService) fetch(ctx context.Context, kind, ticker string, params *IndicatorParams, window int, timespan string) ([]byte, error) {
	if err := requireArg(ticker, "ticker"); err != nil {
		return nil, err
	}
	vals, _ := query.Values(params)
	vals.Set("window", strconv.Itoa(window))
	vals.Set("timespan", timespan)
	return s.results(ctx, kind, ticker, vals)
}

// results unwraps the indicator envelope; a missing results object decodes
// as an empty series rather than an error.
func (s *IndicatorsService) results(ctx context.Context, kind, ticker string, vals url.Values) ([]byte, error) {
	env, err := s.client.get(ctx, "/v1/indicators/"+kind+"/"+url.PathEscape(ticker), vals)
	if err != nil {
		return nil, err
	}
	if len(env.Results) == 0 {
		return []byte("{}"), nil
	}
	return env.Results, nil
}
