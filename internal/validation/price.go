package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizePrice parses the free-text purchase price field into a decimal.
// An empty or blank input is valid and means "no value supplied": ok is
// false and the caller leaves the persisted price at its zero default.
//
// The form historically accepted a comma-decimal regional convention where
// the dot was typed as the separator: dots are translated to commas first,
// and the comma is then treated as the fractional separator. Both "123.45"
// and "123,45" therefore parse to the same value. Text that still fails to
// parse after translation is a conversion failure that blocks the
// submission.
func NormalizePrice(input string) (price decimal.Decimal, ok bool, err error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return decimal.Zero, false, nil
	}

	s = strings.ReplaceAll(s, ".", ",")
	if strings.Count(s, ",") > 1 {
		return decimal.Zero, false, fmt.Errorf("invalid price %q: more than one decimal separator", input)
	}

	price, parseErr := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if parseErr != nil {
		return decimal.Zero, false, fmt.Errorf("invalid price %q: %w", input, parseErr)
	}

	return price, true, nil
}
