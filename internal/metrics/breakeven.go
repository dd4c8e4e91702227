package metrics

import (
	"math"
	"time"

	"github.com/caixaescolar/caixa/internal/model"
	"github.com/caixaescolar/caixa/internal/normalize"
)

// BreakEven is the global break-even picture over the active window.
type BreakEven struct {
	FixedCosts            float64
	VariableCosts         float64
	PaidIncome            float64
	ContributionMargin    float64
	ContributionMarginPct float64
	Revenue               float64 // monthly revenue needed to cover fixed costs
	EffectiveTicket       float64
	Students              int // ceil(Revenue / EffectiveTicket)
}

// ComputeBreakEven derives the break-even revenue and student count.
// The effective ticket prefers the current active-base average and
// falls back to the trailing three calendar months of tuition rows when
// that average is 0, which happens at the start of a reporting period.
func ComputeBreakEven(txs []model.Transaction, students []model.Student, now time.Time) BreakEven {
	be := sumBreakEvenInputs(txs)

	be.EffectiveTicket = AverageTicket(students)
	if be.EffectiveTicket == 0 {
		be.EffectiveTicket = trailingTicket(txs, now)
	}
	if be.EffectiveTicket > 0 && be.Revenue > 0 {
		be.Students = int(math.Ceil(be.Revenue / be.EffectiveTicket))
	}
	return be
}

func sumBreakEvenInputs(txs []model.Transaction) BreakEven {
	var be BreakEven
	for i := range txs {
		tx := &txs[i]
		if tx.Status != model.StatusPago {
			continue
		}
		switch {
		case tx.IsIncome():
			be.PaidIncome += tx.AbsAmount
		case tx.IsExpense() && tx.CostKind == model.CostFixa:
			be.FixedCosts += tx.AbsAmount
		case tx.IsExpense():
			be.VariableCosts += tx.AbsAmount
		}
	}

	be.ContributionMargin = be.PaidIncome - be.VariableCosts
	be.ContributionMarginPct = safeRatio(be.ContributionMargin, be.PaidIncome) * 100
	if be.ContributionMarginPct != 0 {
		be.Revenue = be.FixedCosts / (be.ContributionMarginPct / 100)
	}
	return be
}

// trailingTicket averages tuition installments (paid, pending or
// overdue) due in the three calendar months before the current one.
func trailingTicket(txs []model.Transaction, now time.Time) float64 {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	from := monthStart.AddDate(0, -3, 0)

	var sum float64
	var n int
	for i := range txs {
		tx := &txs[i]
		if !tx.IsIncome() || !IsTuition(tx) || tx.DueDate == nil {
			continue
		}
		if tx.Status != model.StatusPago && !tx.IsOpen() {
			continue
		}
		if tx.DueDate.Before(from) || !tx.DueDate.Before(monthStart) {
			continue
		}
		sum += tx.AbsAmount
		n++
	}
	return safeRatio(sum, float64(n))
}

// RollingWindow is one 90-day break-even window expressed as
// monthly-equivalent figures (window sums divided by 3).
type RollingWindow struct {
	MonthlyFixed          float64
	MonthlyVariable       float64
	MonthlyIncome         float64
	ContributionMarginPct float64
	Revenue               float64
}

// RollingBreakEven compares the current 90-day window against the
// immediately preceding one. Growth is the percent change of the
// break-even revenue, 0 when the previous window has none.
type RollingBreakEven struct {
	Current   RollingWindow
	Previous  RollingWindow
	GrowthPct float64
}

// ComputeRollingBreakEven windows paid rows by their effective
// realization date (payment date, else due date).
func ComputeRollingBreakEven(txs []model.Transaction, now time.Time) RollingBreakEven {
	today := normalize.StartOfDay(now)
	curFrom := today.AddDate(0, 0, -90)
	prevFrom := today.AddDate(0, 0, -180)

	window := func(from, to time.Time) RollingWindow {
		var in []model.Transaction
		for i := range txs {
			tx := txs[i]
			d := tx.EffectiveDate()
			if d == nil || d.Before(from) || !d.Before(to) {
				continue
			}
			in = append(in, tx)
		}
		be := sumBreakEvenInputs(in)
		w := RollingWindow{
			MonthlyFixed:    be.FixedCosts / 3,
			MonthlyVariable: be.VariableCosts / 3,
			MonthlyIncome:   be.PaidIncome / 3,
		}
		margin := w.MonthlyIncome - w.MonthlyVariable
		w.ContributionMarginPct = safeRatio(margin, w.MonthlyIncome) * 100
		if w.ContributionMarginPct != 0 {
			w.Revenue = w.MonthlyFixed / (w.ContributionMarginPct / 100)
		}
		return w
	}

	rbe := RollingBreakEven{
		Current:  window(curFrom, today.AddDate(0, 0, 1)),
		Previous: window(prevFrom, curFrom),
	}
	rbe.GrowthPct = pctChange(rbe.Current.Revenue, rbe.Previous.Revenue)
	return rbe
}
