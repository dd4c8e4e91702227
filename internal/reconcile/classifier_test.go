package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/caixaescolar/caixa/internal/model"
)

func dateOf(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		student model.Student
		want    model.Status
	}{
		{
			name:    "completed flag",
			student: model.Student{Completed: true, CurrentlyEnrolled: true},
			want:    model.LifecycleConcluido,
		},
		{
			name:    "completed date alone",
			student: model.Student{CompletedDate: dateOf(2024, time.June, 1)},
			want:    model.LifecycleConcluido,
		},
		{
			name:    "evaded",
			student: model.Student{EvadedDate: dateOf(2024, time.March, 1)},
			want:    model.LifecycleEvadido,
		},
		{
			name:    "dropped",
			student: model.Student{DroppedDate: dateOf(2024, time.March, 1)},
			want:    model.LifecycleDesistente,
		},
		{
			name:    "locked",
			student: model.Student{LockedDate: dateOf(2024, time.March, 1)},
			want:    model.LifecycleTrancado,
		},
		{
			name:    "active without overdue",
			student: model.Student{CurrentlyEnrolled: true},
			want:    model.LifecycleAtivo,
		},
		{
			name:    "active with overdue",
			student: model.Student{CurrentlyEnrolled: true, TotalOverdue: 300},
			want:    model.LifecycleInadimplenteAtivo,
		},
		{
			name:    "newly enrolled without overdue",
			student: model.Student{NewlyEnrolled: true},
			want:    model.LifecycleMatriculado,
		},
		{
			name:    "newly enrolled with overdue",
			student: model.Student{NewlyEnrolled: true, TotalOverdue: 50},
			want:    model.LifecycleInadimplenteMatriculado,
		},
		{
			name:    "nothing set",
			student: model.Student{},
			want:    model.LifecycleOutros,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(&tt.student))
		})
	}
}

func TestClassify_PriorityDisambiguation(t *testing.T) {
	// Source data routinely carries several exit markers at once; the
	// table order must resolve them deterministically.
	tests := []struct {
		name    string
		student model.Student
		want    model.Status
	}{
		{
			name: "evaded beats locked",
			student: model.Student{
				EvadedDate:        dateOf(2024, time.March, 1),
				LockedDate:        dateOf(2024, time.January, 15),
				CurrentlyEnrolled: true,
			},
			want: model.LifecycleEvadido,
		},
		{
			name: "evaded beats dropped",
			student: model.Student{
				EvadedDate:  dateOf(2024, time.March, 1),
				DroppedDate: dateOf(2024, time.April, 1),
			},
			want: model.LifecycleEvadido,
		},
		{
			name: "dropped beats locked",
			student: model.Student{
				DroppedDate: dateOf(2024, time.March, 1),
				LockedDate:  dateOf(2024, time.January, 15),
			},
			want: model.LifecycleDesistente,
		},
		{
			name: "completed beats everything",
			student: model.Student{
				Completed:         true,
				EvadedDate:        dateOf(2024, time.March, 1),
				DroppedDate:       dateOf(2024, time.March, 1),
				LockedDate:        dateOf(2024, time.March, 1),
				CurrentlyEnrolled: true,
				TotalOverdue:      500,
			},
			want: model.LifecycleConcluido,
		},
		{
			name: "currently enrolled beats newly enrolled",
			student: model.Student{
				CurrentlyEnrolled: true,
				NewlyEnrolled:     true,
			},
			want: model.LifecycleAtivo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(&tt.student))
		})
	}
}

func TestStatusGroups_MutuallyExclusive(t *testing.T) {
	statuses := []model.Status{
		model.LifecycleConcluido,
		model.LifecycleEvadido,
		model.LifecycleDesistente,
		model.LifecycleTrancado,
		model.LifecycleAtivo,
		model.LifecycleInadimplenteAtivo,
		model.LifecycleMatriculado,
		model.LifecycleInadimplenteMatriculado,
		model.LifecycleOutros,
	}

	for _, st := range statuses {
		var groups int
		for _, in := range []bool{st.IsActive(), st.IsEnrolled(), st.IsFinished(), st.IsChurned(), st.IsPaused()} {
			if in {
				groups++
			}
		}
		assert.LessOrEqual(t, groups, 1, "status %s belongs to more than one group", st)
	}
}
