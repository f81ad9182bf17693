// Package validate holds the field validators shared by every resource.
//
// Request bodies arrive as loosely-typed JSON: a score might be 7, 7.0 or "7".
// The functions here narrow those values to the Go types the domain uses.
// They are pure: no I/O, no logging, no clock reads.
//
// Each validator returns an *apperror.AppError wrapping apperror.ErrValidation.
// The error carries no field name; callers attach one with Named so a single
// bad field can be reported on its own.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sakif/training-journal/internal/apperror"
)

// Score bounds for feeling, performance and rating.
const (
	MinScore = 0
	MaxScore = 10
)

var (
	errScore = apperror.ValidationFailed("", fmt.Sprintf("must be an integer between %d and %d", MinScore, MaxScore))
	errDate  = apperror.ValidationFailed("", "must be a valid date")
	errEmpty = apperror.ValidationFailed("", "must be a non-empty string")
)

// dateLayouts are tried in order. Layouts without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ClampScore coerces v to a number and returns it only if it is an integer
// in [0,10].
//
// Accepted inputs: float64 and json.Number (what encoding/json produces),
// Go integer types, and strings holding a number ("7", " 3 ", "4.0").
// Everything else is rejected, including "", booleans and nil.
func ClampScore(v any) (int, error) {
	f, ok := toNumber(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errScore
	}
	if f != math.Trunc(f) || f < MinScore || f > MaxScore {
		return 0, errScore
	}
	return int(f), nil
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Years outside this range have no RFC 3339 form, so encoding/json cannot
// write them back out.
const (
	MinYear = 1
	MaxYear = 9999
)

var (
	minDate = time.Date(MinYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxDate = time.Date(MaxYear, time.December, 31, 23, 59, 59, 999999999, time.UTC)
)

// ParseDate coerces v to an instant in UTC between years MinYear and MaxYear.
//
// Strings may be RFC 3339 (with or without fractional seconds), a zone-less
// "2006-01-02T15:04[:05]" or a bare "2006-01-02". Numbers are read as epoch
// milliseconds. A time.Time is passed through.
func ParseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return time.Time{}, errDate
		}
		return inRange(d)
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return inRange(t)
			}
		}
		return time.Time{}, errDate
	default:
		ms, ok := toNumber(v)
		if !ok || math.IsNaN(ms) || math.IsInf(ms, 0) {
			return time.Time{}, errDate
		}
		// Bound before converting: int64(ms) is undefined past ±2^63.
		if ms < float64(minDate.UnixMilli()) || ms > float64(maxDate.UnixMilli()) {
			return time.Time{}, errDate
		}
		return inRange(time.UnixMilli(int64(ms)))
	}
}

func inRange(t time.Time) (time.Time, error) {
	t = t.UTC()
	if t.Before(minDate) || t.After(maxDate) {
		return time.Time{}, errDate
	}
	return t, nil
}

// NonEmptyTrimmed accepts only strings with non-whitespace content and
// returns the trimmed form.
func NonEmptyTrimmed(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errEmpty
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errEmpty
	}
	return s, nil
}

// DateRangeOrdered reports whether end is strictly after start.
func DateRangeOrdered(start, end time.Time) bool {
	return end.After(start)
}

// Named attaches a field name to a validation error, producing messages
// like "feeling must be an integer between 0 and 10". Other errors are
// returned unchanged.
func Named(field string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || !errors.Is(err, apperror.ErrValidation) {
		return err
	}
	msg := appErr.Message
	if appErr.Field == "" {
		msg = field + " " + msg
	}
	return apperror.ValidationFailed(field, msg)
}
