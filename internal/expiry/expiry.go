// Package expiry converts the creation form's human-friendly expiry
// (amount + unit) into the wire-format duration string the token backend
// accepts, and parses that format back for the development backend.
package expiry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidUnit is returned for an unrecognized unit or a negative amount.
	// It signals a caller contract violation before any request is sent.
	ErrInvalidUnit = errors.New("invalid expiry unit")
	// ErrInvalidDuration is returned when a wire duration string is malformed.
	ErrInvalidDuration = errors.New("invalid expiry duration")
)

// Unit is a human-friendly unit of time offered by the creation form.
type Unit string

const (
	Minutes Unit = "Minutes"
	Hours   Unit = "Hours"
	Days    Unit = "Days"
	Weeks   Unit = "Weeks"
	Months  Unit = "Months"
	Years   Unit = "Years"
)

// hoursPer maps every hour-denominated unit to its multiplier.
// The backend only accepts minute- and hour-denominated durations,
// so everything above an hour is flattened to hours.
var hoursPer = map[Unit]int{
	Hours:  1,
	Days:   24,
	Weeks:  168,
	Months: 720,
	Years:  8760,
}

// Units lists the supported units in form order.
func Units() []Unit {
	return []Unit{Minutes, Hours, Days, Weeks, Months, Years}
}

// CreateExpiryString converts amount and unit into the wire duration string,
// e.g. (3, Days) -> "72h". amount 0 is passed through as "0m"/"0h"; whether a
// zero duration is acceptable is the server's decision.
func CreateExpiryString(amount int, unit Unit) (string, error) {
	if amount < 0 {
		return "", fmt.Errorf("%w: amount must not be negative, got %d", ErrInvalidUnit, amount)
	}
	if unit == Minutes {
		return strconv.Itoa(amount) + "m", nil
	}
	multiplier, ok := hoursPer[unit]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
	}
	return strconv.Itoa(amount*multiplier) + "h", nil
}

// ParseUnit validates a unit coming from configuration or user input.
func ParseUnit(s string) (Unit, error) {
	unit := Unit(s)
	if unit == Minutes {
		return unit, nil
	}
	if _, ok := hoursPer[unit]; ok {
		return unit, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidUnit, s)
}

// ParseExpiryString parses a wire duration string. Only "<integer>m" and
// "<integer>h" are accepted; anything else, including fractional amounts and
// other suffixes, is rejected.
func ParseExpiryString(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	var base time.Duration
	switch s[len(s)-1] {
	case 'm':
		base = time.Minute
	case 'h':
		base = time.Hour
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	digits := s[:len(s)-1]
	if strings.TrimLeft(digits, "0123456789") != "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	amount, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	return time.Duration(amount) * base, nil
}
