package dataprocessing

import (
	"math"
	"strconv"
	"strings"
)

// CoerceNumber reads a loosely formatted numeric cell. Every character that
// is not a digit or a decimal point is dropped and the longest decimal prefix
// of the rest is parsed, so "1,250 kVA" yields 1250 and "45.5%" yields 45.5.
// Empty or unparseable cells yield def.
func CoerceNumber(c Cell, def float64) float64 {
	v, ok := coerceNumber(c)
	if !ok {
		return def
	}
	return v
}

func coerceNumber(c Cell) (float64, bool) {
	if c.IsEmpty() {
		return 0, false
	}

	stripped := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, c.String())

	prefix := decimalPrefix(stripped)
	if prefix == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// decimalPrefix returns the longest leading run of s shaped like digits,
// optionally followed by a point and more digits. At least one digit is
// required.
func decimalPrefix(s string) string {
	end, digits := 0, 0
	for end < len(s) && s[end] != '.' {
		end++
		digits++
	}
	if end < len(s) {
		frac := end + 1
		for frac < len(s) && s[frac] != '.' {
			frac++
			digits++
		}
		if frac > end+1 {
			end = frac
		}
	}
	if digits == 0 {
		return ""
	}
	return strings.TrimSuffix(s[:end], ".")
}
