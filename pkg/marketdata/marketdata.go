// Package marketdata defines the immutable value types returned by the
// Meridian REST API: option contracts, trades, quotes, snapshots, daily bars,
// exchanges, and market calendar entries. Values are built exclusively through
// the Parse functions, which validate required fields and normalise the wire
// payload into canonical form. Construction either succeeds completely or
// fails with a *ValidationError; constructed values are never mutated.
package marketdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeFromNanos converts a nanosecond epoch timestamp to a UTC time. Trade
// and quote timestamps on the wire are nanoseconds; indicator series use
// milliseconds and have their own helper.
func TimeFromNanos(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}

// round4 rounds half away from zero at four decimal places. Quote midpoints
// are quoted to four places upstream.
func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// ValidationError reports a payload that cannot be turned into a value type:
// a required field is missing or a field fails its type constraint.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("meridian: invalid %s: %s", e.Field, e.Message)
}

func errMissing(field string) error {
	return &ValidationError{Field: field, Message: "required field missing"}
}

// decodeError normalises JSON decode failures into a ValidationError keyed by
// the entity being parsed, preserving any field-level error raised during
// coercion.
func decodeError(entity string, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		if ve.Field == "" {
			ve.Field = entity
		}
		return ve
	}
	return &ValidationError{Field: entity, Message: err.Error()}
}

// jsonFloat decodes a JSON number that may arrive either as a number or as a
// numeric string. Non-numeric strings fail decoding.
type jsonFloat float64

func (f *jsonFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}
	if s[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return &ValidationError{Message: fmt.Sprintf("malformed string value %s", s)}
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return &ValidationError{Message: fmt.Sprintf("not numeric: %q", raw)}
		}
		*f = jsonFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return &ValidationError{Message: fmt.Sprintf("not numeric: %s", s)}
	}
	*f = jsonFloat(v)
	return nil
}

// jsonInt decodes an integer that may arrive as a number, a numeric string,
// or a float with no fractional part.
type jsonInt int64

func (i *jsonInt) UnmarshalJSON(data []byte) error {
	var f jsonFloat
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*i = jsonInt(f)
	return nil
}

// firstSet returns the first non-nil pointer, preferring the canonical field
// spelling over remote aliases.
func firstSet[T any](vals ...*T) *T {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func floatVal(f *jsonFloat) *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}

func intVal(i *jsonInt) *int64 {
	if i == nil {
		return nil
	}
	v := int64(*i)
	return &v
}

func requireFloat(f *jsonFloat, field string) (float64, error) {
	if f == nil {
		return 0, errMissing(field)
	}
	return float64(*f), nil
}

func requireInt(i *jsonInt, field string) (int64, error) {
	if i == nil {
		return 0, errMissing(field)
	}
	return int64(*i), nil
}

func requireString(s, field string) (string, error) {
	if s == "" {
		return "", errMissing(field)
	}
	return s, nil
}

// Timeframe labels the freshness of a quote or trade record.
type Timeframe string

const (
	TimeframeRealTime Timeframe = "REAL-TIME"
	TimeframeDelayed  Timeframe = "DELAYED"
)

func timeframePtr(s *string) *Timeframe {
	if s == nil {
		return nil
	}
	tf := Timeframe(*s)
	return &tf
}
