package metrics

import (
	"time"

	"github.com/caixaescolar/caixa/internal/model"
)

// AverageTicket is the headline ticket: the mean CurrentValue over the
// active student base, 0 with no active students. This is a different
// definition from QuarterlyTicketTrend, which averages actual billed
// tuition installments.
func AverageTicket(students []model.Student) float64 {
	var sum float64
	var n int
	for i := range students {
		if students[i].Status.IsActive() {
			sum += students[i].CurrentValue
			n++
		}
	}
	return safeRatio(sum, float64(n))
}

// TicketBucket is one slice of the ticket price distribution.
type TicketBucket struct {
	Label string
	Count int
	Pct   float64 // share of the active base
}

// TicketDistribution buckets active students by CurrentValue.
func TicketDistribution(students []model.Student) []TicketBucket {
	buckets := []TicketBucket{
		{Label: "Até R$ 250"},
		{Label: "R$ 251–350"},
		{Label: "R$ 351–450"},
		{Label: "Acima de R$ 450"},
	}
	var active int
	for i := range students {
		s := &students[i]
		if !s.Status.IsActive() {
			continue
		}
		active++
		switch {
		case s.CurrentValue <= 250:
			buckets[0].Count++
		case s.CurrentValue <= 350:
			buckets[1].Count++
		case s.CurrentValue <= 450:
			buckets[2].Count++
		default:
			buckets[3].Count++
		}
	}
	for i := range buckets {
		buckets[i].Pct = safeRatio(float64(buckets[i].Count), float64(active)) * 100
	}
	return buckets
}

// QuarterlyTicketTrend averages tuition installments per calendar
// quarter of the reference year. Unlike the headline ticket it reads
// transaction amounts, and it counts paid, pending and overdue rows
// alike: the trend tracks billed tuition, not settled tuition.
func QuarterlyTicketTrend(txs []model.Transaction, year int) [4]float64 {
	var sums [4]float64
	var counts [4]int
	for i := range txs {
		tx := &txs[i]
		if !tx.IsIncome() || !IsTuition(tx) || tx.DueDate == nil || tx.DueDate.Year() != year {
			continue
		}
		if tx.Status != model.StatusPago && !tx.IsOpen() {
			continue
		}
		q := quarterOf(*tx.DueDate)
		sums[q] += tx.AbsAmount
		counts[q]++
	}
	var trend [4]float64
	for q := range trend {
		trend[q] = safeRatio(sums[q], float64(counts[q]))
	}
	return trend
}

func quarterOf(t time.Time) int {
	return (int(t.Month()) - 1) / 3
}
