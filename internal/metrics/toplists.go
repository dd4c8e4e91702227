package metrics

import (
	"sort"
	"time"

	"github.com/caixaescolar/caixa/internal/model"
	"github.com/caixaescolar/caixa/internal/normalize"
)

// TopDefaulters lists the n students with the largest overdue balance,
// largest first.
func TopDefaulters(students []model.Student, n int) []model.Student {
	var out []model.Student
	for i := range students {
		if students[i].TotalOverdue > 0 {
			out = append(out, students[i])
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalOverdue != out[j].TotalOverdue {
			return out[i].TotalOverdue > out[j].TotalOverdue
		}
		return out[i].Name < out[j].Name
	})
	return truncate(out, n)
}

// UpcomingPayments lists the next n open outgoing payments due today or
// later, soonest first.
func UpcomingPayments(txs []model.Transaction, now time.Time, n int) []model.Transaction {
	today := normalize.StartOfDay(now)
	var out []model.Transaction
	for i := range txs {
		tx := txs[i]
		if !tx.IsExpense() || !tx.IsOpen() || tx.DueDate == nil || tx.DueDate.Before(today) {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DueDate.Before(*out[j].DueDate)
	})
	return truncate(out, n)
}

// RecentReceipts lists the last n incoming payments received on or
// before today, most recent first. The payment date orders the list,
// with the due date standing in when it is missing.
func RecentReceipts(txs []model.Transaction, now time.Time, n int) []model.Transaction {
	today := normalize.StartOfDay(now)
	var out []model.Transaction
	for i := range txs {
		tx := txs[i]
		if !tx.IsIncome() || tx.Status != model.StatusPago {
			continue
		}
		d := tx.EffectiveDate()
		if d == nil || normalize.StartOfDay(*d).After(today) {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EffectiveDate().After(*out[j].EffectiveDate())
	})
	return truncate(out, n)
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
