package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Discount descriptors arrive as free text on a lookup offer. Two shapes
// carry a usable quantity: "N units for <price>" and "buy one, get the
// second at <price>". Anything else, including malformed text, falls back
// to a required quantity of one (no promotion).

var unitsPattern = regexp.MustCompile(`(\d+)\s*(?:יחידות ב|units for)`)

var secondUnitPhrases = []string{
	"קנה אחד, קבל את השני ב",
	"buy one, get the second",
	"buy one get one",
}

// ParseDiscountDescriptor extracts the minimum quantity that unlocks the
// promotional price from a discount descriptor. It returns 1 when the text
// is empty, unrecognised or malformed.
func ParseDiscountDescriptor(text string) int {
	if text == "" {
		return 1
	}

	if m := unitsPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}

	lower := strings.ToLower(text)
	for _, phrase := range secondUnitPhrases {
		if strings.Contains(text, phrase) || strings.Contains(lower, phrase) {
			return 2
		}
	}

	return 1
}
