package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMoney parses a Brazilian-formatted currency cell ("R$ 1.234,56",
// comma decimal separator, dot thousands separator) into a float64.
// Everything except digits, the comma, and a minus sign is discarded
// before parsing; anything that still is not a number comes back as 0.
// Never returns an error: spreadsheet money cells are dirty by default.
func ParseMoney(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '-':
			b.WriteRune(r)
		}
	}
	cleaned := strings.ReplaceAll(b.String(), ",", ".")
	if cleaned == "" || cleaned == "-" {
		return 0
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}
