package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FormatBRL renders an amount in Brazilian currency notation:
// "R$ 1.234,56".
func FormatBRL(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	intPart, decPart := s[:len(s)-3], s[len(s)-2:]

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	out := "R$ " + grouped.String() + "," + decPart
	if neg {
		return "-" + out
	}
	return out
}

// FormatPct renders a ratio already expressed in percent.
func FormatPct(v float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%.1f%%", v), ".", ",")
}

// KPIBox renders one framed dashboard figure.
func KPIBox(label, value string) string {
	content := SubtleStyle.Render(label) + "\n" + BoldStyle.Render(value)
	return KPIBoxStyle.Render(content)
}

// KPIRow lays out several KPI boxes side by side.
func KPIRow(boxes ...string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

// AmountStyle picks the style for a signed amount: errors for negative,
// success otherwise.
func AmountStyle(v float64) lipgloss.Style {
	if v < 0 {
		return ErrorStyle
	}
	return SuccessStyle
}
