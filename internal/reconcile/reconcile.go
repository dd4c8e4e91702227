// Package reconcile builds canonical students from registry rows and
// attributes income transactions to them. The algorithm is two-phase:
// an index pass over the registry, then an attribution pass over the
// transactions. Both use local, disposable lookup maps so repeated runs
// over the same input yield identical output.
package reconcile

import (
	"sort"
	"strings"
	"time"

	"github.com/caixaescolar/caixa/internal/model"
	"github.com/caixaescolar/caixa/internal/normalize"
)

// Registry column synonyms, probed in order.
var (
	keysID             = []string{"id", "ID", "id_aluno", "ID_Aluno", "codigo", "Código"}
	keysName           = []string{"nome_completo_aluno", "Nome_Completo_Aluno", "nome_completo", "nome", "Nome", "aluno", "Aluno"}
	keysResponsible    = []string{"responsavel", "Responsável", "Responsavel", "nome_responsavel"}
	keysPhone          = []string{"telefone", "Telefone", "celular", "Celular"}
	keysCPF            = []string{"cpf", "CPF"}
	keysFinancialCPF   = []string{"cpf_financeiro", "CPF_Financeiro", "cpf_resp_financeiro"}
	keysBirthDate      = []string{"data_nascimento", "Data_Nascimento", "nascimento"}
	keysEnrollmentDate = []string{"data_matricula", "Data_Matricula", "data_matrícula"}
	keysContractValue  = []string{"valor_contrato", "Valor_Contrato"}
	keysCurrentValue   = []string{"valor_atual", "Valor_Atual", "valor_mensalidade", "mensalidade"}
	keysScholarship    = []string{"bolsa", "Bolsa", "percentual_bolsa", "desconto"}
	keysBook           = []string{"livro", "Livro", "book", "Book", "etapa"}
	keysPaymentDay     = []string{"dia_pagamento", "Dia_Pagamento", "dia_vencimento"}
	keysContractPeriod = []string{"periodo_contrato", "Periodo_Contrato", "período_contrato", "duracao_contrato"}
	keysVigente        = []string{"vigente", "Vigente"}
	keysMatriculado    = []string{"matriculado", "Matriculado"}
	keysConcluido      = []string{"concluido", "Concluído", "concluído", "Concluido"}
	keysCompletedDate  = []string{"data_conclusao", "Data_Conclusao", "data_conclusão"}
	keysLockedDate     = []string{"trancado", "Trancado", "data_trancamento"}
	keysDroppedDate    = []string{"desistente", "Desistente", "data_desistencia"}
	keysEvadedDate     = []string{"evadido", "Evadido", "data_evasao"}
)

// Result is the output of one reconciliation run. Unattributed keeps
// the income transactions no student could be found for: they stay out
// of every student-scoped view but must remain queryable for audit.
type Result struct {
	Students     []model.Student
	Unattributed []model.Transaction
}

// UnattributedTotal sums the income the reconciler could not attribute.
func (r Result) UnattributedTotal() float64 {
	var total float64
	for _, tx := range r.Unattributed {
		total += tx.AbsAmount
	}
	return total
}

// Reconcile builds students from registry rows and attributes every
// income transaction to at most one of them. It never fails: registry
// rows without a usable identity are skipped, and transactions that
// match no student are collected as unattributed rather than dropped.
func Reconcile(transactions []model.Transaction, registry []model.RawRow) Result {
	byID := make(map[string]*model.Student)
	byName := make(map[string]*model.Student)
	order := make([]*model.Student, 0, len(registry))

	// Index pass.
	for _, raw := range registry {
		s := studentFromRow(raw)
		if s.ID == "" {
			continue
		}
		if _, dup := byID[s.ID]; dup {
			continue
		}
		byID[s.ID] = s
		if s.MatchName != "" {
			if _, taken := byName[s.MatchName]; !taken {
				byName[s.MatchName] = s
			}
		}
		order = append(order, s)
	}

	// Attribution pass.
	var unattributed []model.Transaction
	for _, tx := range transactions {
		if tx.Type != model.TypeEntrada || tx.Source == model.SourceRegistry {
			continue
		}
		s := match(tx, byID, byName)
		if s == nil {
			unattributed = append(unattributed, tx)
			continue
		}
		accumulate(s, tx)
	}

	students := make([]model.Student, 0, len(order))
	for _, s := range order {
		s.Status = Classify(s)
		students = append(students, *s)
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].Name != students[j].Name {
			return students[i].Name < students[j].Name
		}
		return students[i].ID < students[j].ID
	})

	return Result{Students: students, Unattributed: unattributed}
}

// match resolves a transaction to a student: direct id first, then the
// normalized description, then the responsible-party name. First hit
// wins.
func match(tx model.Transaction, byID, byName map[string]*model.Student) *model.Student {
	if tx.StudentID != "" {
		if s, ok := byID[tx.StudentID]; ok {
			return s
		}
	}
	if key := normalize.MatchName(tx.Description); key != "" {
		if s, ok := byName[key]; ok {
			return s
		}
	}
	if key := strings.ToLower(strings.TrimSpace(tx.ResponsibleName)); key != "" {
		if s, ok := byName[key]; ok {
			return s
		}
	}
	return nil
}

// accumulate folds one matched transaction into the student's buckets.
// Cancelado and unknown statuses land in the installment list only.
func accumulate(s *model.Student, tx model.Transaction) {
	s.Installments = append(s.Installments, tx)

	switch tx.Status {
	case model.StatusPago:
		s.TotalPaid += tx.AbsAmount
		if paid := tx.EffectiveDate(); paid != nil {
			if s.LastPayment == nil || paid.After(*s.LastPayment) {
				s.LastPayment = paid
			}
		}
	case model.StatusPendente:
		s.TotalPending += tx.AbsAmount
		bumpNextDue(s, tx.DueDate)
	case model.StatusAtrasado:
		s.TotalOverdue += tx.AbsAmount
		bumpNextDue(s, tx.DueDate)
	}
}

func bumpNextDue(s *model.Student, due *time.Time) {
	if due == nil {
		return
	}
	if s.NextDue == nil || due.Before(*s.NextDue) {
		s.NextDue = due
	}
}

// studentFromRow builds a student skeleton from one registry row. A row
// with no id column falls back to the raw name as its identity; a row
// with neither is unusable and comes back with an empty ID.
func studentFromRow(raw model.RawRow) *model.Student {
	name := raw.First(keysName...)
	id := raw.First(keysID...)
	if id == "" {
		id = name
	}

	s := &model.Student{
		ID:                 id,
		Name:               name,
		MatchName:          normalize.MatchName(name),
		ResponsibleName:    raw.First(keysResponsible...),
		Phone:              raw.First(keysPhone...),
		CPF:                raw.First(keysCPF...),
		FinancialCPF:       raw.First(keysFinancialCPF...),
		ScholarshipPercent: raw.First(keysScholarship...),
		Book:               raw.First(keysBook...),
		PaymentDay:         raw.First(keysPaymentDay...),
		ContractPeriod:     raw.First(keysContractPeriod...),
		BirthDate:          normalize.ParseDate(raw.First(keysBirthDate...)),
		EnrollmentDate:     normalize.ParseDate(raw.First(keysEnrollmentDate...)),
		LockedDate:         normalize.ParseDate(raw.First(keysLockedDate...)),
		DroppedDate:        normalize.ParseDate(raw.First(keysDroppedDate...)),
		EvadedDate:         normalize.ParseDate(raw.First(keysEvadedDate...)),
		CompletedDate:      normalize.ParseDate(raw.First(keysCompletedDate...)),
		ContractValue:      normalize.ParseMoney(raw.First(keysContractValue...)),
		CurrentValue:       normalize.ParseMoney(raw.First(keysCurrentValue...)),
	}

	s.CurrentlyEnrolled, _ = normalize.ParseFlag(raw.First(keysVigente...))
	s.NewlyEnrolled, _ = normalize.ParseFlag(raw.First(keysMatriculado...))
	s.Completed, _ = normalize.ParseFlag(raw.First(keysConcluido...))

	return s
}
