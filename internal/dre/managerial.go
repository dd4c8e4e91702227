package dre

import (
	"strings"

	"github.com/caixaescolar/caixa/internal/model"
	"github.com/caixaescolar/caixa/internal/normalize"
)

// PLLine is one line of the managerial statement. VerticalPct is the
// line's share of net revenue in percent; Detail marks indented
// breakdown lines under a section header.
type PLLine struct {
	Label       string
	Amount      float64
	VerticalPct float64
	Detail      bool
}

// ManagerialPL is the fixed 21-line EBITDA-style statement.
type ManagerialPL struct {
	Year  int
	Lines []PLLine
}

// plBuckets accumulates the keyword-classified totals.
type plBuckets struct {
	tuition      float64
	enrollment   float64
	otherRevenue float64
	deductions   float64
	variable     float64
	personnel    float64
	marketing    float64
	occupancy    float64
	otherFixed   float64
	depreciation float64
	financial    float64
	profitTaxes  float64
}

// Managerial re-buckets the reference year's paid transactions by
// keyword heuristics on category and description text into the fixed
// statement schema. The bucket order below is a priority list: the
// first keyword family that matches claims the row.
func Managerial(txs []model.Transaction, year int) ManagerialPL {
	var b plBuckets
	for i := range txs {
		tx := &txs[i]
		if tx.Status != model.StatusPago {
			continue
		}
		d := tx.EffectiveDate()
		if d == nil || d.Year() != year {
			continue
		}
		text := normalize.Fold(tx.Category + " " + tx.Description)
		switch {
		case tx.IsIncome():
			switch {
			case strings.Contains(text, "mensalidade"):
				b.tuition += tx.AbsAmount
			case strings.Contains(text, "matricula"):
				b.enrollment += tx.AbsAmount
			default:
				b.otherRevenue += tx.AbsAmount
			}
		case tx.IsExpense():
			switch {
			case strings.Contains(text, "imposto"), containsWord(text, "das"), containsWord(text, "iss"):
				b.deductions += tx.AbsAmount
			case strings.Contains(text, "depreciacao"), strings.Contains(text, "amortizacao"):
				b.depreciation += tx.AbsAmount
			case containsWord(text, "irpj"), containsWord(text, "csll"):
				b.profitTaxes += tx.AbsAmount
			case tx.CostKind == model.CostVariavel:
				b.variable += tx.AbsAmount
			case strings.Contains(text, "pessoal"), strings.Contains(text, "salario"), strings.Contains(text, "folha"):
				b.personnel += tx.AbsAmount
			case strings.Contains(text, "marketing"):
				b.marketing += tx.AbsAmount
			case strings.Contains(text, "financeiro"), strings.Contains(text, "juros"), strings.Contains(text, "banco"), strings.Contains(text, "tarifa"):
				b.financial += tx.AbsAmount
			case strings.Contains(text, "aluguel"), strings.Contains(text, "condominio"):
				b.occupancy += tx.AbsAmount
			default:
				b.otherFixed += tx.AbsAmount
			}
		}
	}

	gross := b.tuition + b.enrollment + b.otherRevenue
	net := gross - b.deductions
	contribution := net - b.variable
	fixedTotal := b.personnel + b.marketing + b.occupancy + b.otherFixed
	ebitda := contribution - fixedTotal
	ebit := ebitda - b.depreciation
	ebt := ebit - b.financial
	profit := ebt - b.profitTaxes

	pl := ManagerialPL{Year: year}
	add := func(label string, amount float64, detail bool) {
		pl.Lines = append(pl.Lines, PLLine{
			Label:       label,
			Amount:      amount,
			VerticalPct: verticalPct(amount, net),
			Detail:      detail,
		})
	}

	add("Receita Bruta", gross, false)
	add("Mensalidades", b.tuition, true)
	add("Matrículas", b.enrollment, true)
	add("Outras Receitas", b.otherRevenue, true)
	add("(-) Deduções e Impostos sobre Receita", -b.deductions, false)
	add("(=) Receita Líquida", net, false)
	add("(-) Custos Variáveis", -b.variable, false)
	add("(=) Margem de Contribuição", contribution, false)
	add("(-) Despesas Fixas", -fixedTotal, false)
	add("Pessoal", -b.personnel, true)
	add("Marketing", -b.marketing, true)
	add("Ocupação", -b.occupancy, true)
	add("Outras Fixas", -b.otherFixed, true)
	add("(=) EBITDA", ebitda, false)
	add("(-) Depreciação e Amortização", -b.depreciation, false)
	add("(=) EBIT", ebit, false)
	add("(+/-) Resultado Financeiro", -b.financial, false)
	add("(=) Resultado Antes dos Impostos", ebt, false)
	add("(-) Impostos sobre o Lucro", -b.profitTaxes, false)
	add("(=) Lucro Líquido", profit, false)
	margin := verticalPct(profit, net)
	pl.Lines = append(pl.Lines, PLLine{Label: "Margem Líquida (%)", Amount: margin, VerticalPct: margin})

	return pl
}

func verticalPct(amount, net float64) float64 {
	if net == 0 {
		return 0
	}
	return amount / net * 100
}

// containsWord matches a whole whitespace-delimited token, so "das"
// cannot fire inside words like "despesas".
func containsWord(text, word string) bool {
	for _, tok := range strings.Fields(text) {
		if tok == word {
			return true
		}
	}
	return false
}
