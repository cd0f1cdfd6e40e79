// Package formatting parses and renders the loosely formatted values the
// journal deals in: byte sizes from config and JSON buried in model output.
package formatting

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// byteUnits are base-1024 steps, index i meaning 1024^i bytes.
var byteUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// FormatBytes renders n with the largest unit that keeps the value at or
// above one, using precision decimal places. Negative precision counts as 0.
func FormatBytes(n int64, precision int) string {
	if n == 0 {
		return "0 B"
	}

	exp := min(int(math.Log(float64(n))/math.Log(1024)), len(byteUnits)-1)
	value := float64(n) / math.Pow(1024, float64(exp))
	return strconv.FormatFloat(value, 'f', max(precision, 0), 64) + " " + byteUnits[exp]
}

// ParseBytes reads sizes like "1MB", "512 kb" or "2048". A bare number is
// bytes. Units are case-insensitive.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size string")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	number, unit := s, ""
	if split >= 0 {
		number, unit = s[:split], strings.TrimSpace(s[split:])
	}
	if number == "" {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size number: %w", err)
	}
	if unit == "" {
		return int64(value), nil
	}

	exp := slices.Index(byteUnits, strings.ToUpper(unit))
	if exp < 0 {
		return 0, fmt.Errorf("unknown byte size unit: %q", unit)
	}
	return int64(value * math.Pow(1024, float64(exp))), nil
}
