package metrics

import (
	"time"

	"github.com/caixaescolar/caixa/internal/model"
)

// Cohort summarizes the historical student base by lifecycle group.
// Churn is the churned share of the whole cohort; retention is its
// complement.
type Cohort struct {
	Total        int
	Active       int
	Enrolled     int
	Finished     int
	Churned      int
	Paused       int
	Other        int
	ChurnPct     float64
	RetentionPct float64
}

// Retention computes the cohort summary over the classified students.
func Retention(students []model.Student) Cohort {
	var c Cohort
	c.Total = len(students)
	for i := range students {
		switch st := students[i].Status; {
		case st.IsActive():
			c.Active++
		case st.IsEnrolled():
			c.Enrolled++
		case st.IsFinished():
			c.Finished++
		case st.IsChurned():
			c.Churned++
		case st.IsPaused():
			c.Paused++
		default:
			c.Other++
		}
	}
	c.ChurnPct = safeRatio(float64(c.Churned), float64(c.Total)) * 100
	if c.Total > 0 {
		c.RetentionPct = 100 - c.ChurnPct
	}
	return c
}

// MonthValue is one month's figure in a trend series.
type MonthValue struct {
	Month time.Time
	Value float64
}

// MonthlyNet sums the paid net cash result per calendar month over the
// trailing monthsBack months, oldest first. Rows are placed by their
// effective realization date.
func MonthlyNet(txs []model.Transaction, now time.Time, monthsBack int) []MonthValue {
	if monthsBack <= 0 {
		return nil
	}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(monthsBack - 1), 0)
	out := make([]MonthValue, monthsBack)
	for i := range out {
		out[i].Month = first.AddDate(0, i, 0)
	}
	for i := range txs {
		tx := &txs[i]
		if tx.Status != model.StatusPago {
			continue
		}
		d := tx.EffectiveDate()
		if d == nil {
			continue
		}
		idx := (d.Year()-first.Year())*12 + int(d.Month()) - int(first.Month())
		if idx < 0 || idx >= monthsBack {
			continue
		}
		if tx.IsExpense() {
			out[idx].Value -= tx.AbsAmount
		} else if tx.IsIncome() {
			out[idx].Value += tx.AbsAmount
		}
	}
	return out
}

// ProjectLinear extends a history by ahead steps of simple linear
// growth: the average step between first and last observation. Less
// than two observations project flat.
func ProjectLinear(history []MonthValue, ahead int) []MonthValue {
	if len(history) == 0 || ahead <= 0 {
		return nil
	}
	last := history[len(history)-1]
	var step float64
	if len(history) > 1 {
		step = (last.Value - history[0].Value) / float64(len(history)-1)
	}
	out := make([]MonthValue, ahead)
	for i := range out {
		out[i] = MonthValue{
			Month: last.Month.AddDate(0, i+1, 0),
			Value: last.Value + step*float64(i+1),
		}
	}
	return out
}
