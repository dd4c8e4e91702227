// Package model defines the core domain models used throughout the application.
package model

import "time"

// PaymentStatus is the settlement state of a single installment or expense.
// The vocabulary is closed and comes straight from the source spreadsheets.
type PaymentStatus string

// Payment status constants.
const (
	StatusPago      PaymentStatus = "Pago"
	StatusPendente  PaymentStatus = "Pendente"
	StatusAtrasado  PaymentStatus = "Atrasado"
	StatusCancelado PaymentStatus = "Cancelado"
	StatusUnknown   PaymentStatus = ""
)

// TransactionType distinguishes money in, money out, and purely
// informational registry rows.
type TransactionType string

// Transaction type constants.
const (
	TypeEntrada TransactionType = "Entrada"
	TypeSaida   TransactionType = "Saída"
	TypeInfo    TransactionType = "Info"
)

// CostKind classifies an expense for break-even purposes.
type CostKind string

// Cost kind constants.
const (
	CostFixa     CostKind = "Fixa"
	CostVariavel CostKind = "Variável"
)

// Source tags which origin table a row came from.
type Source string

// Source constants.
const (
	SourceTransactions Source = "transactions"
	SourceRegistry     Source = "registry"
)

// Transaction is the canonical form of one financial spreadsheet row.
// Dates are nil when the source cell could not be parsed; amounts are
// zero when the source cell was not a number. The normalizer guarantees
// these defaults so downstream aggregation never has to guard parsing.
type Transaction struct {
	DueDate         *time.Time
	PaymentDate     *time.Time
	ID              string
	StudentID       string // registry id carried on the row, when present
	Description     string
	ResponsibleName string
	Category        string
	PaymentMethod   string
	Account         string
	Status          PaymentStatus
	Type            TransactionType
	CostKind        CostKind
	Source          Source
	NetAmount       float64 // signed
	AbsAmount       float64 // unsigned
	GrossAmount     float64 // unsigned, pre-fee
}

// EffectiveDate is the realization date used for cash-basis bucketing:
// the payment date when present, otherwise the due date. Nil when the
// row carries neither.
func (t *Transaction) EffectiveDate() *time.Time {
	if t.PaymentDate != nil {
		return t.PaymentDate
	}
	return t.DueDate
}

// IsIncome reports whether the transaction represents money coming in.
func (t *Transaction) IsIncome() bool {
	return t.Type == TypeEntrada
}

// IsExpense reports whether the transaction represents money going out.
func (t *Transaction) IsExpense() bool {
	return t.Type == TypeSaida
}

// IsOpen reports whether the installment is still awaiting payment.
func (t *Transaction) IsOpen() bool {
	return t.Status == StatusPendente || t.Status == StatusAtrasado
}
