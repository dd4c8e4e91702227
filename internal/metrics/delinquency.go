package metrics

import (
	"time"

	"github.com/caixaescolar/caixa/internal/model"
	"github.com/caixaescolar/caixa/internal/normalize"
)

// DelinquencyWindow is one rolling window's past-due picture: PastDue
// is every income row already due (any status), Open the subset still
// unpaid, Rate the open share in percent.
type DelinquencyWindow struct {
	PastDue float64
	Open    float64
	Rate    float64
}

// Delinquency holds the four windows the dashboard publishes. Narrower
// windows are strict subsets of wider ones, so each numerator and
// denominator is monotonically non-decreasing from Last30Days out to
// AllTime.
type Delinquency struct {
	Last30Days   DelinquencyWindow
	Last3Months  DelinquencyWindow
	Last12Months DelinquencyWindow
	AllTime      DelinquencyWindow
}

// ComputeDelinquency scans the FULL transaction set, never a filtered
// one: applying the dashboard's date filter here would make past-due
// receivables disappear whenever a narrow window is selected. A row is
// past due when it is income with a due date strictly before the start
// of today.
func ComputeDelinquency(txs []model.Transaction, now time.Time) Delinquency {
	today := normalize.StartOfDay(now)
	cut30 := today.AddDate(0, 0, -30)
	cut3m := today.AddDate(0, -3, 0)
	cut12m := today.AddDate(0, -12, 0)

	var d Delinquency
	for i := range txs {
		tx := &txs[i]
		if !tx.IsIncome() || tx.DueDate == nil || !tx.DueDate.Before(today) {
			continue
		}
		open := tx.IsOpen()
		add := func(w *DelinquencyWindow) {
			w.PastDue += tx.AbsAmount
			if open {
				w.Open += tx.AbsAmount
			}
		}
		add(&d.AllTime)
		if !tx.DueDate.Before(cut12m) {
			add(&d.Last12Months)
		}
		if !tx.DueDate.Before(cut3m) {
			add(&d.Last3Months)
		}
		if !tx.DueDate.Before(cut30) {
			add(&d.Last30Days)
		}
	}

	for _, w := range []*DelinquencyWindow{&d.Last30Days, &d.Last3Months, &d.Last12Months, &d.AllTime} {
		w.Rate = safeRatio(w.Open, w.PastDue) * 100
	}
	return d
}
