// Package dre builds the two income statements the dashboard shows: a
// cash-basis monthly DRE bucketed by normalized category, and a
// managerial EBITDA-style P&L driven by category keyword heuristics.
// Both read only paid transactions, placed on their effective
// realization date (payment date when present, else due date).
package dre

import (
	"sort"
	"time"

	"github.com/caixaescolar/caixa/internal/model"
)

// CategoryLine is one category row of the cash DRE: twelve month cells
// plus the year total.
type CategoryLine struct {
	Category string
	Months   [12]float64
	Total    float64
}

// Section groups the income or expense side of the DRE.
type Section struct {
	Lines       []CategoryLine
	MonthTotals [12]float64
	Total       float64
}

// DRE is the cash-basis monthly statement for one reference year.
type DRE struct {
	Year        int
	Income      Section
	Expense     Section
	Profit      [12]float64
	ProfitTotal float64
}

// CashBasis buckets every paid transaction of the reference year into
// {category}×{month} cells, split by income and expense, with monthly
// and grand totals and the profit row.
func CashBasis(txs []model.Transaction, year int) DRE {
	income := map[string]*[12]float64{}
	expense := map[string]*[12]float64{}

	for i := range txs {
		tx := &txs[i]
		if tx.Status != model.StatusPago {
			continue
		}
		d := tx.EffectiveDate()
		if d == nil || d.Year() != year {
			continue
		}
		var cells map[string]*[12]float64
		switch {
		case tx.IsIncome():
			cells = income
		case tx.IsExpense():
			cells = expense
		default:
			continue
		}
		cat := tx.Category
		if cat == "" {
			cat = "Sem Categoria"
		}
		row, ok := cells[cat]
		if !ok {
			row = &[12]float64{}
			cells[cat] = row
		}
		row[monthIndex(*d)] += tx.AbsAmount
	}

	out := DRE{
		Year:    year,
		Income:  buildSection(income),
		Expense: buildSection(expense),
	}
	for m := range out.Profit {
		out.Profit[m] = out.Income.MonthTotals[m] - out.Expense.MonthTotals[m]
	}
	out.ProfitTotal = out.Income.Total - out.Expense.Total
	return out
}

func buildSection(cells map[string]*[12]float64) Section {
	var sec Section
	for cat, months := range cells {
		line := CategoryLine{Category: cat, Months: *months}
		for m, v := range months {
			line.Total += v
			sec.MonthTotals[m] += v
		}
		sec.Lines = append(sec.Lines, line)
	}
	sort.Slice(sec.Lines, func(i, j int) bool {
		return sec.Lines[i].Category < sec.Lines[j].Category
	})
	for m := range sec.MonthTotals {
		sec.Total += sec.MonthTotals[m]
	}
	return sec
}

func monthIndex(t time.Time) int {
	return int(t.Month()) - 1
}
