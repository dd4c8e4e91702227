package model

import "time"

// Student is one identity from the school registry together with the
// financial buckets accumulated from its matched transactions. Students
// are value objects: the whole set is rebuilt from scratch on every
// refresh and carries no identity beyond ID and MatchName.
type Student struct {
	BirthDate      *time.Time
	EnrollmentDate *time.Time
	LockedDate     *time.Time // trancado
	DroppedDate    *time.Time // desistente
	EvadedDate     *time.Time // evadido
	CompletedDate  *time.Time
	LastPayment    *time.Time
	NextDue        *time.Time

	ID                 string
	Name               string
	MatchName          string // lowercased, enrollment tag ("1/6", "1/6[1]") stripped
	ResponsibleName    string
	Phone              string
	CPF                string
	FinancialCPF       string
	ScholarshipPercent string
	Book               string
	PaymentDay         string
	ContractPeriod     string

	Installments []Transaction // every matched row, including Cancelado

	ContractValue float64
	CurrentValue  float64 // drives ticket calculations
	TotalPaid     float64
	TotalPending  float64
	TotalOverdue  float64

	Status Status

	CurrentlyEnrolled bool // vigente
	NewlyEnrolled     bool // matriculado
	Completed         bool
}

// HasOverdue reports whether the student carries any overdue balance.
func (s *Student) HasOverdue() bool {
	return s.TotalOverdue > 0
}
