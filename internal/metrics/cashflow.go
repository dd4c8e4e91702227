package metrics

import "github.com/caixaescolar/caixa/internal/model"

// CashFlow holds the headline cash KPIs. Entrada and Saida sum paid
// rows only; pending and overdue income are tracked separately and are
// never folded into the paid totals.
type CashFlow struct {
	Entrada       float64
	Saida         float64
	Saldo         float64
	PendingIncome float64
	OverdueIncome float64
}

// Cash computes the cash KPIs over the given (usually pre-filtered)
// transaction set.
func Cash(txs []model.Transaction) CashFlow {
	var cf CashFlow
	for i := range txs {
		tx := &txs[i]
		switch tx.Status {
		case model.StatusPago:
			switch tx.Type {
			case model.TypeEntrada:
				cf.Entrada += tx.AbsAmount
			case model.TypeSaida:
				cf.Saida += tx.AbsAmount
			}
		case model.StatusPendente:
			if tx.IsIncome() {
				cf.PendingIncome += tx.AbsAmount
			}
		case model.StatusAtrasado:
			if tx.IsIncome() {
				cf.OverdueIncome += tx.AbsAmount
			}
		}
	}
	cf.Saldo = cf.Entrada - cf.Saida
	return cf
}
