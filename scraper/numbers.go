package scraper

import (
	"strconv"
	"strings"
)

// roomsTranslate maps the site's room-count enum tokens to integers.
// Unknown tokens (including "MORE") map to 0.
var roomsTranslate = map[string]int{
	"ONE":   1,
	"TWO":   2,
	"THREE": 3,
	"FOUR":  4,
	"FIVE":  5,
	"SIX":   6,
	"SEVEN": 7,
	"EIGHT": 8,
	"NINE":  9,
	"TEN":   10,
}

// priceToFloat parses a display price like "1 234,50 zł" into 1234.50.
// Thousands separators, currency symbols and non-breaking spaces are
// dropped; a comma decimal is converted to a dot. Strings with no
// parseable number yield 0.0.
func priceToFloat(price string) float64 {
	var b strings.Builder
	for _, r := range price {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			b.WriteRune(r)
		}
	}
	filtered := strings.ReplaceAll(b.String(), ",", ".")
	val, err := strconv.ParseFloat(filtered, 64)
	if err != nil {
		return 0.0
	}
	return val
}

// digitsToInt keeps only the digits of s and parses them, 0 when none.
func digitsToInt(s string) int {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	val, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return val
}
