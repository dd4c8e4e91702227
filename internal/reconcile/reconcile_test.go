package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caixaescolar/caixa/internal/model"
	"github.com/caixaescolar/caixa/internal/normalize"
)

func incomeTx(id, description string, status model.PaymentStatus, amount float64, due string) model.Transaction {
	return model.Transaction{
		ID:          id,
		Description: description,
		Status:      status,
		Type:        model.TypeEntrada,
		Source:      model.SourceTransactions,
		NetAmount:   amount,
		AbsAmount:   amount,
		DueDate:     normalize.ParseDate(due),
	}
}

func TestReconcile_EndToEnd(t *testing.T) {
	// One registry row, one matching paid installment.
	registry := []model.RawRow{{
		"id":                  "S1",
		"nome_completo_aluno": "Ana Silva",
		"vigente":             "TRUE",
		"valor_atual":         "R$ 300,00",
	}}
	txs := []model.Transaction{
		incomeTx("t1", "Ana Silva 1/3", model.StatusPago, 300, "10/01/2024"),
	}

	result := Reconcile(txs, registry)
	require.Len(t, result.Students, 1)

	s := result.Students[0]
	assert.Equal(t, "S1", s.ID)
	assert.Equal(t, model.LifecycleAtivo, s.Status)
	assert.InDelta(t, 300, s.TotalPaid, 0.001)
	assert.True(t, s.Status.IsActive())
	assert.Empty(t, result.Unattributed)
	require.NotNil(t, s.LastPayment)
	assert.Equal(t, "10/01/2024", s.LastPayment.Format("02/01/2006"))
}

func TestReconcile_MatchPriority(t *testing.T) {
	registry := []model.RawRow{
		{"id": "S1", "nome_completo_aluno": "Ana Silva"},
		{"id": "S2", "nome_completo_aluno": "Bruno Costa"},
	}

	tests := []struct {
		name   string
		tx     model.Transaction
		wantID string
	}{
		{
			name: "direct id beats name",
			tx: func() model.Transaction {
				tx := incomeTx("t1", "Bruno Costa 1/2", model.StatusPago, 100, "10/01/2024")
				tx.StudentID = "S1"
				return tx
			}(),
			wantID: "S1",
		},
		{
			name:   "normalized description",
			tx:     incomeTx("t2", "Ana Silva 2/6[1]", model.StatusPago, 100, "10/01/2024"),
			wantID: "S1",
		},
		{
			name: "responsible name fallback",
			tx: func() model.Transaction {
				tx := incomeTx("t3", "PIX recebido", model.StatusPago, 100, "10/01/2024")
				tx.ResponsibleName = "Bruno Costa"
				return tx
			}(),
			wantID: "S2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Reconcile([]model.Transaction{tt.tx}, registry)
			require.Empty(t, result.Unattributed)
			for _, s := range result.Students {
				if s.ID == tt.wantID {
					assert.Len(t, s.Installments, 1)
					return
				}
			}
			t.Fatalf("no student %s with installments", tt.wantID)
		})
	}
}

func TestReconcile_UnmatchedRetained(t *testing.T) {
	registry := []model.RawRow{{"id": "S1", "nome_completo_aluno": "Ana Silva"}}
	orphan := incomeTx("t1", "Fulano Desconhecido", model.StatusPago, 250, "10/01/2024")

	result := Reconcile([]model.Transaction{orphan}, registry)

	require.Len(t, result.Unattributed, 1)
	assert.Equal(t, "t1", result.Unattributed[0].ID)
	assert.InDelta(t, 250, result.UnattributedTotal(), 0.001)

	// The student is untouched.
	assert.Zero(t, result.Students[0].TotalPaid)
}

func TestReconcile_Buckets(t *testing.T) {
	registry := []model.RawRow{{"id": "S1", "nome_completo_aluno": "Ana Silva"}}
	txs := []model.Transaction{
		incomeTx("t1", "Ana Silva 1/4", model.StatusPago, 300, "10/01/2024"),
		incomeTx("t2", "Ana Silva 2/4", model.StatusPendente, 300, "10/02/2024"),
		incomeTx("t3", "Ana Silva 3/4", model.StatusAtrasado, 300, "10/03/2024"),
		incomeTx("t4", "Ana Silva 4/4", model.StatusCancelado, 300, "10/04/2024"),
	}

	result := Reconcile(txs, registry)
	require.Len(t, result.Students, 1)
	s := result.Students[0]

	assert.InDelta(t, 300, s.TotalPaid, 0.001)
	assert.InDelta(t, 300, s.TotalPending, 0.001)
	assert.InDelta(t, 300, s.TotalOverdue, 0.001)
	assert.Len(t, s.Installments, 4, "Cancelado still lands in the installment list")

	// Conservation: buckets account for exactly the Pago/Pendente/Atrasado rows.
	var bucketed float64
	for _, tx := range s.Installments {
		if tx.Status == model.StatusPago || tx.IsOpen() {
			bucketed += tx.AbsAmount
		}
	}
	assert.InDelta(t, bucketed, s.TotalPaid+s.TotalPending+s.TotalOverdue, 0.001)

	// NextDue is the soonest open due date.
	require.NotNil(t, s.NextDue)
	assert.Equal(t, "10/02/2024", s.NextDue.Format("02/01/2006"))
}

func TestReconcile_Idempotent(t *testing.T) {
	registry := []model.RawRow{
		{"id": "S1", "nome_completo_aluno": "Ana Silva", "vigente": "TRUE"},
		{"id": "S2", "nome_completo_aluno": "Bruno Costa", "matriculado": "TRUE"},
	}
	txs := []model.Transaction{
		incomeTx("t1", "Ana Silva 1/2", model.StatusPago, 300, "10/01/2024"),
		incomeTx("t2", "Bruno Costa 1/2", model.StatusAtrasado, 250, "05/01/2024"),
		incomeTx("t3", "Desconhecido", model.StatusPago, 99, "06/01/2024"),
	}

	first := Reconcile(txs, registry)
	second := Reconcile(txs, registry)

	assert.Equal(t, first, second, "reconciliation must be a pure function of its input")
}

func TestReconcile_RegistrySkeletons(t *testing.T) {
	// Registry rows alone produce students with zeroed buckets.
	registry := []model.RawRow{
		{"id": "S1", "nome_completo_aluno": "Ana Silva", "valor_contrato": "R$ 3.600,00"},
		{"id": "S2", "nome_completo_aluno": "Bruno Costa"},
	}

	result := Reconcile(nil, registry)
	require.Len(t, result.Students, 2)
	for _, s := range result.Students {
		assert.Zero(t, s.TotalPaid)
		assert.Zero(t, s.TotalPending)
		assert.Zero(t, s.TotalOverdue)
		assert.Equal(t, model.LifecycleOutros, s.Status)
	}
	assert.InDelta(t, 3600, result.Students[0].ContractValue, 0.001)
}

func TestReconcile_RowWithoutIdentitySkipped(t *testing.T) {
	registry := []model.RawRow{
		{"telefone": "11 99999-0000"},
		{"nome_completo_aluno": "Sem Id"},
	}

	result := Reconcile(nil, registry)
	require.Len(t, result.Students, 1, "name stands in for a missing id; neither means skip")
	assert.Equal(t, "Sem Id", result.Students[0].ID)
}

func TestReconcile_RegistryRowsNotAttributed(t *testing.T) {
	// Info rows sourced from the registry never enter attribution.
	registry := []model.RawRow{{"id": "S1", "nome_completo_aluno": "Ana Silva"}}
	regTx := model.Transaction{
		ID:          "registry-0",
		Description: "Ana Silva",
		Type:        model.TypeEntrada,
		Source:      model.SourceRegistry,
		Status:      model.StatusPago,
		AbsAmount:   300,
	}

	result := Reconcile([]model.Transaction{regTx}, registry)
	assert.Zero(t, result.Students[0].TotalPaid)
	assert.Empty(t, result.Unattributed)
}

func TestReconcile_LastPaymentKeepsNewest(t *testing.T) {
	registry := []model.RawRow{{"id": "S1", "nome_completo_aluno": "Ana Silva"}}
	older := incomeTx("t1", "Ana Silva 1/2", model.StatusPago, 300, "10/01/2024")
	newer := incomeTx("t2", "Ana Silva 2/2", model.StatusPago, 300, "10/03/2024")
	paidAt := time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC)
	newer.PaymentDate = &paidAt

	result := Reconcile([]model.Transaction{newer, older}, registry)
	s := result.Students[0]
	require.NotNil(t, s.LastPayment)
	assert.True(t, s.LastPayment.Equal(paidAt))
}
