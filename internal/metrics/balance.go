package metrics

import (
	"time"

	"github.com/caixaescolar/caixa/internal/model"
	"github.com/caixaescolar/caixa/internal/normalize"
)

// maxSeriesDays bounds the balance series so a bad end date in the
// input can never produce an unbounded loop.
const maxSeriesDays = 1830

// BalancePoint is one day of the cumulative balance evolution.
// Realized is nil for days strictly after today: the future cannot
// have been realized, while the projection keeps running.
type BalancePoint struct {
	Date      time.Time
	Realized  *float64
	Projected float64
}

// BalanceSeries builds the daily cumulative realized and projected
// balance from start. Realized accumulates paid rows at their payment
// date (due date when no payment date exists); projected additionally
// accumulates pending and overdue rows at their due date. With a nil
// end the series extends one year past today.
func BalanceSeries(txs []model.Transaction, start time.Time, end *time.Time, now time.Time) []BalancePoint {
	start = normalize.StartOfDay(start)
	today := normalize.StartOfDay(now)

	stop := today.AddDate(1, 0, 0)
	if end != nil {
		stop = normalize.StartOfDay(*end)
	}
	if bound := start.AddDate(0, 0, maxSeriesDays); stop.After(bound) {
		stop = bound
	}
	if stop.Before(start) {
		return nil
	}

	realizedDelta := make(map[time.Time]float64)
	projectedDelta := make(map[time.Time]float64)
	for i := range txs {
		tx := &txs[i]
		signed := func() float64 {
			if tx.IsExpense() {
				return -tx.AbsAmount
			}
			return tx.AbsAmount
		}
		switch {
		case tx.Status == model.StatusPago:
			d := tx.EffectiveDate()
			if d == nil {
				continue
			}
			day := normalize.StartOfDay(*d)
			realizedDelta[day] += signed()
			projectedDelta[day] += signed()
		case tx.IsOpen():
			if tx.DueDate == nil {
				continue
			}
			day := normalize.StartOfDay(*tx.DueDate)
			projectedDelta[day] += signed()
		}
	}

	var points []BalancePoint
	var realized, projected float64
	for day := start; !day.After(stop); day = day.AddDate(0, 0, 1) {
		realized += realizedDelta[day]
		projected += projectedDelta[day]
		p := BalancePoint{Date: day, Projected: projected}
		if !day.After(today) {
			r := realized
			p.Realized = &r
		}
		points = append(points, p)
	}
	return points
}

// BiWeekly keeps the 1st and 15th of each month from a daily series.
func BiWeekly(points []BalancePoint) []BalancePoint {
	var out []BalancePoint
	for _, p := range points {
		if d := p.Date.Day(); d == 1 || d == 15 {
			out = append(out, p)
		}
	}
	return out
}

// Monthly keeps the 1st of each month from a daily series.
func Monthly(points []BalancePoint) []BalancePoint {
	var out []BalancePoint
	for _, p := range points {
		if p.Date.Day() == 1 {
			out = append(out, p)
		}
	}
	return out
}
