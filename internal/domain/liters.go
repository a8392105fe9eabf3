package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Liters is a solvent quantity in whole centiliters (hundredths of a liter).
// Keeping the unit integral means repeated adjustments cannot accumulate
// floating-point drift; inputs are accepted to at most two decimal places.
type Liters int64

// LitersFromFloat rounds f (in liters) to the nearest centiliter, half away
// from zero.
func LitersFromFloat(f float64) Liters {
	return Liters(math.Round(f * 100))
}

// ParseLiters parses a decimal liter quantity such as "18", "-3.8" or
// "50.25". More than two decimal places is an error.
func ParseLiters(s string) (Liters, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty quantity")
	}

	neg := false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		neg = true
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	if whole == "" {
		whole = "0"
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q: %w", s, err)
	}

	var f int64
	switch len(frac) {
	case 0:
	case 1, 2:
		f, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid quantity %q: %w", s, err)
		}
		if len(frac) == 1 {
			f *= 10
		}
	default:
		return 0, fmt.Errorf("quantity %q has more than two decimal places", s)
	}

	cl := w*100 + f
	if neg {
		cl = -cl
	}
	return Liters(cl), nil
}

// Centiliters returns the raw integer value as stored in the database.
func (l Liters) Centiliters() int64 { return int64(l) }

// Float returns the quantity in liters. Values are exact multiples of 0.01
// so the result round-trips through JSON without drift.
func (l Liters) Float() float64 { return float64(l) / 100 }

// String renders the quantity in liters with trailing zeros trimmed,
// e.g. "50.5", "-18", "0.25".
func (l Liters) String() string {
	neg := l < 0
	cl := int64(l)
	if neg {
		cl = -cl
	}
	s := strconv.FormatInt(cl/100, 10)
	if rem := cl % 100; rem != 0 {
		if rem%10 == 0 {
			s += "." + strconv.FormatInt(rem/10, 10)
		} else {
			s += fmt.Sprintf(".%02d", rem)
		}
	}
	if neg {
		s = "-" + s
	}
	return s
}
