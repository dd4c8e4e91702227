// Package metrics computes the dashboard's financial aggregates. Every
// function is a pure query over `(transactions, students, Filter)`
// passed by value: no ambient state, no mutation of the input slices,
// and every ratio guards its denominator to 0 instead of NaN.
package metrics

import (
	"strings"
	"time"

	"github.com/caixaescolar/caixa/internal/model"
	"github.com/caixaescolar/caixa/internal/normalize"
)

// Filter is the active reporting window, passed by value into every
// aggregation that honors it. Delinquency deliberately ignores it (see
// Delinquency) so past-due receivables cannot vanish behind a narrow
// date selection.
type Filter struct {
	Start *time.Time
	End   *time.Time
}

// Apply returns the transactions whose due date falls inside the
// window. Rows without a parseable due date are dropped whenever a
// bound is set; with no bounds the input passes through untouched.
func (f Filter) Apply(txs []model.Transaction) []model.Transaction {
	if f.Start == nil && f.End == nil {
		return txs
	}
	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.DueDate == nil {
			continue
		}
		if f.Start != nil && tx.DueDate.Before(*f.Start) {
			continue
		}
		if f.End != nil && tx.DueDate.After(*f.End) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// IsTuition reports whether a transaction is a tuition installment.
// Matching is accent- and case-insensitive on the normalized category.
func IsTuition(tx *model.Transaction) bool {
	return strings.Contains(normalize.Fold(tx.Category), "mensalidade")
}

// safeRatio divides num by den, returning 0 for a zero denominator.
// Published ratios must never be NaN or Infinity.
func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// pctChange is the percentage change from prev to cur, 0 when prev is 0.
func pctChange(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return (cur - prev) / prev * 100
}
