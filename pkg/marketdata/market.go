package marketdata

import (
	"encoding/json"
	"fmt"
	"time"
)

// Market session states reported by the status endpoint.
const (
	MarketOpen          = "open"
	MarketClosed        = "closed"
	MarketExtendedHours = "extended-hours"
)

// MarketStatus is the current trading session state across markets.
type MarketStatus struct {
	Market     string // open, closed, or extended-hours
	EarlyHours bool   // pre-market session
	AfterHours bool
	ServerTime *string
	Exchanges  map[string]string
	Currencies map[string]string
}

type wireMarketStatus struct {
	Market        string            `json:"market"`
	EarlyHours    *bool             `json:"early_hours"`
	EarlyHoursAlt *bool             `json:"earlyHours"`
	AfterHours    *bool             `json:"after_hours"`
	AfterHoursAlt *bool             `json:"afterHours"`
	ServerTime    *string           `json:"server_time"`
	ServerTimeAlt *string           `json:"serverTime"`
	Exchanges     map[string]string `json:"exchanges"`
	Currencies    map[string]string `json:"currencies"`
}

// ParseMarketStatus builds a MarketStatus from a raw API object. The status
// endpoint uses camelCase flag names; both spellings decode.
func ParseMarketStatus(data []byte) (*MarketStatus, error) {
	var w wireMarketStatus
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, decodeError("market_status", err)
	}

	market, err := requireString(w.Market, "market")
	if err != nil {
		return nil, err
	}
	switch market {
	case MarketOpen, MarketClosed, MarketExtendedHours:
	default:
		return nil, &ValidationError{Field: "market", Message: fmt.Sprintf("unknown session state %q", market)}
	}

	s := &MarketStatus{
		Market:     market,
		ServerTime: firstSet(w.ServerTime, w.ServerTimeAlt),
		Exchanges:  w.Exchanges,
		Currencies: w.Currencies,
	}
	if v := firstSet(w.EarlyHours, w.EarlyHoursAlt); v != nil {
		s.EarlyHours = *v
	}
	if v := firstSet(w.AfterHours, w.AfterHoursAlt); v != nil {
		s.AfterHours = *v
	}
	return s, nil
}

// IsOpen reports a regular open session.
func (s *MarketStatus) IsOpen() bool { return s.Market == MarketOpen }

// IsClosed reports a fully closed market.
func (s *MarketStatus) IsClosed() bool { return s.Market == MarketClosed }

// IsExtendedHours reports any session outside regular hours.
func (s *MarketStatus) IsExtendedHours() bool {
	return s.Market == MarketExtendedHours || s.EarlyHours || s.AfterHours
}

// IsPreMarket reports the pre-market session.
func (s *MarketStatus) IsPreMarket() bool { return s.EarlyHours }

// IsAfterHours reports the after-hours session.
func (s *MarketStatus) IsAfterHours() bool { return s.AfterHours }

// ServerTimestamp parses the server clock reading, when present.
func (s *MarketStatus) ServerTimestamp() (time.Time, error) {
	if s.ServerTime == nil {
		return time.Time{}, fmt.Errorf("meridian: market status has no server time")
	}
	return time.Parse(time.RFC3339, *s.ServerTime)
}

// Holiday status values.
const (
	HolidayClosed     = "closed"
	HolidayEarlyClose = "early-close"
)

// Holiday is one market calendar entry.
type Holiday struct {
	Date     string // ISO date
	Name     string
	Exchange string
	Status   string // closed or early-close

	Open  *string // session open, RFC 3339, early-close only
	Close *string // session close, RFC 3339, early-close only
}

type wireHoliday struct {
	Date     string  `json:"date"`
	Name     string  `json:"name"`
	Exchange string  `json:"exchange"`
	Status   string  `json:"status"`
	Open     *string `json:"open"`
	Close    *string `json:"close"`
}

// ParseHoliday builds a Holiday from a raw API object. Early-close entries
// must carry a close time.
func ParseHoliday(data []byte) (*Holiday, error) {
	var w wireHoliday
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, decodeError("holiday", err)
	}
	return w.toHoliday()
}

// ParseHolidays builds the holiday list from a raw results array.
func ParseHolidays(data []byte) ([]Holiday, error) {
	var raw []wireHoliday
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, decodeError("holidays", err)
	}
	out := make([]Holiday, 0, len(raw))
	for i := range raw {
		h, err := raw[i].toHoliday()
		if err != nil {
			return nil, fmt.Errorf("holiday[%d]: %w", i, err)
		}
		out = append(out, *h)
	}
	return out, nil
}

func (w *wireHoliday) toHoliday() (*Holiday, error) {
	date, err := requireString(w.Date, "date")
	if err != nil {
		return nil, err
	}
	if _, err := time.Parse(isoDateLayout, date); err != nil {
		return nil, &ValidationError{Field: "date", Message: fmt.Sprintf("not an ISO date: %q", date)}
	}
	name, err := requireString(w.Name, "name")
	if err != nil {
		return nil, err
	}
	exchange, err := requireString(w.Exchange, "exchange")
	if err != nil {
		return nil, err
	}
	switch w.Status {
	case HolidayClosed, HolidayEarlyClose:
	case "":
		return nil, errMissing("status")
	default:
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", w.Status)}
	}
	if w.Status == HolidayEarlyClose && w.Close == nil {
		return nil, &ValidationError{Field: "close", Message: "early-close holiday requires a close time"}
	}

	return &Holiday{
		Date:     date,
		Name:     name,
		Exchange: exchange,
		Status:   w.Status,
		Open:     w.Open,
		Close:    w.Close,
	}, nil
}

// IsClosed reports a full-day closure.
func (h *Holiday) IsClosed() bool { return h.Status == HolidayClosed }

// IsEarlyClose reports a shortened session.
func (h *Holiday) IsEarlyClose() bool { return h.Status == HolidayEarlyClose }

// Day returns the holiday date at UTC midnight. The date format is validated
// at construction.
func (h *Holiday) Day() time.Time {
	t, _ := time.Parse(isoDateLayout, h.Date)
	return t
}
