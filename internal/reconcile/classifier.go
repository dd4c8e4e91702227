package reconcile

import "github.com/caixaescolar/caixa/internal/model"

// lifecycleRule pairs a predicate with the status it assigns. Rules are
// evaluated top to bottom and the first hit wins, so the table order IS
// the disambiguation policy: source data routinely carries several exit
// markers at once (a student both evaded and locked), and evasion must
// beat locking, which must beat any enrollment flag.
type lifecycleRule struct {
	applies func(*model.Student) bool
	status  func(*model.Student) model.Status
	name    string
}

func fixed(st model.Status) func(*model.Student) model.Status {
	return func(*model.Student) model.Status { return st }
}

var lifecycleRules = []lifecycleRule{
	{
		name:    "completed",
		applies: func(s *model.Student) bool { return s.Completed || s.CompletedDate != nil },
		status:  fixed(model.LifecycleConcluido),
	},
	{
		name:    "evaded",
		applies: func(s *model.Student) bool { return s.EvadedDate != nil },
		status:  fixed(model.LifecycleEvadido),
	},
	{
		name:    "dropped",
		applies: func(s *model.Student) bool { return s.DroppedDate != nil },
		status:  fixed(model.LifecycleDesistente),
	},
	{
		name:    "locked",
		applies: func(s *model.Student) bool { return s.LockedDate != nil },
		status:  fixed(model.LifecycleTrancado),
	},
	{
		name:    "currently enrolled",
		applies: func(s *model.Student) bool { return s.CurrentlyEnrolled },
		status: func(s *model.Student) model.Status {
			if s.HasOverdue() {
				return model.LifecycleInadimplenteAtivo
			}
			return model.LifecycleAtivo
		},
	},
	{
		name:    "newly enrolled",
		applies: func(s *model.Student) bool { return s.NewlyEnrolled },
		status: func(s *model.Student) model.Status {
			if s.HasOverdue() {
				return model.LifecycleInadimplenteMatriculado
			}
			return model.LifecycleMatriculado
		},
	},
}

// Classify assigns the student's lifecycle status by walking the rule
// table in priority order. Students matching no rule are Outros.
func Classify(s *model.Student) model.Status {
	for _, rule := range lifecycleRules {
		if rule.applies(s) {
			return rule.status(s)
		}
	}
	return model.LifecycleOutros
}
