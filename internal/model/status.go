package model

// Status is a student's lifecycle state, assigned by the classifier's
// priority-ordered rule table. The groups below (active, enrolled,
// finished, churned, paused) are mutually exclusive because every
// status belongs to exactly one of them.
type Status string

// Lifecycle status constants, in classifier priority order.
const (
	LifecycleConcluido               Status = "Concluído"
	LifecycleEvadido                 Status = "Evadido"
	LifecycleDesistente              Status = "Desistente"
	LifecycleTrancado                Status = "Trancado"
	LifecycleAtivo                   Status = "Ativo"
	LifecycleInadimplenteAtivo       Status = "Inadimplente/Ativo"
	LifecycleMatriculado             Status = "Matriculado"
	LifecycleInadimplenteMatriculado Status = "Inadimplente/Matriculado"
	LifecycleOutros                  Status = "Outros"
)

// IsActive reports whether the status counts toward the active base
// used for ticket and break-even figures.
func (s Status) IsActive() bool {
	return s == LifecycleAtivo || s == LifecycleInadimplenteAtivo
}

// IsEnrolled reports whether the status represents a newly enrolled
// student who has not yet started.
func (s Status) IsEnrolled() bool {
	return s == LifecycleMatriculado || s == LifecycleInadimplenteMatriculado
}

// IsFinished reports whether the student completed the course.
func (s Status) IsFinished() bool {
	return s == LifecycleConcluido
}

// IsChurned reports whether the student left before completing.
func (s Status) IsChurned() bool {
	return s == LifecycleDesistente || s == LifecycleEvadido
}

// IsPaused reports whether the enrollment is locked.
func (s Status) IsPaused() bool {
	return s == LifecycleTrancado
}

// IsDelinquent reports whether the status carries an overdue marker.
func (s Status) IsDelinquent() bool {
	return s == LifecycleInadimplenteAtivo || s == LifecycleInadimplenteMatriculado
}
