package domain

import (
	"regexp"
	"strconv"
)

//nolint:gochecknoglobals // Compiled once, read-only
var (
	dualPricePattern    = regexp.MustCompile(`\$([0-9.]+)/M\s*Input\s*[•·]\s*\$([0-9.]+)/M\s*Output`)
	tokenPricePattern   = regexp.MustCompile(`\$([0-9.]+)/M\s*Tokens?`)
	perUnitPricePattern = []*regexp.Regexp{
		regexp.MustCompile(`\$([0-9.]+)/Image`),
		regexp.MustCompile(`\$([0-9.]+)/Step`),
	}
	contextPattern = regexp.MustCompile(`(\d+)\s*Context`)
)

// PriceQuote is the result of parsing a pricing fragment. Every field is optional.
type PriceQuote struct {
	InputPrice    *float64
	OutputPrice   *float64
	UnifiedPrice  *float64
	ContextLength *int
}

// ParsePricing extracts prices and context length from a fragment such as
// "$0.45/M Input • $1.8/M Output • 262144 Context".
//
// Price patterns are tried in priority order and the first match wins:
// dual input/output, unified per-token, then per-image and per-step.
// The context length is read independently of the price branch.
// A fragment matching nothing yields an empty quote, not an error.
func ParsePricing(fragment string) PriceQuote {
	var quote PriceQuote

	if m := dualPricePattern.FindStringSubmatch(fragment); m != nil {
		input, inputOK := parsePrice(m[1])
		output, outputOK := parsePrice(m[2])
		if inputOK && outputOK {
			quote.InputPrice = &input
			quote.OutputPrice = &output
		}
	} else if m := tokenPricePattern.FindStringSubmatch(fragment); m != nil {
		quote.UnifiedPrice = parsePricePtr(m[1])
	} else {
		for _, pattern := range perUnitPricePattern {
			if m := pattern.FindStringSubmatch(fragment); m != nil {
				quote.UnifiedPrice = parsePricePtr(m[1])
				break
			}
		}
	}

	if m := contextPattern.FindStringSubmatch(fragment); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			quote.ContextLength = &n
		}
	}

	return quote
}

func parsePrice(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parsePricePtr(s string) *float64 {
	v, ok := parsePrice(s)
	if !ok {
		return nil
	}
	return &v
}
