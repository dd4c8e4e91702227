package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caixaescolar/caixa/internal/model"
	"github.com/caixaescolar/caixa/internal/testutil"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestTransactionSnapshotRoundtrip(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	txs := []model.Transaction{
		{
			ID:              "transactions-0",
			DueDate:         datePtr(2024, time.January, 10),
			PaymentDate:     datePtr(2024, time.January, 12),
			StudentID:       "S1",
			Description:     "Mensalidade Ana Silva",
			ResponsibleName: "Paula Silva",
			Category:        "Mensalidade",
			PaymentMethod:   "Pix",
			Account:         "Principal",
			Status:          model.StatusPago,
			Type:            model.TypeEntrada,
			CostKind:        model.CostVariavel,
			Source:          model.SourceTransactions,
			NetAmount:       300,
			AbsAmount:       300,
			GrossAmount:     310,
		},
		{
			ID:        "transactions-1",
			Status:    model.StatusPendente,
			Type:      model.TypeSaida,
			CostKind:  model.CostFixa,
			Source:    model.SourceTransactions,
			NetAmount: -150,
			AbsAmount: 150,
		},
	}

	require.NoError(t, store.ReplaceTransactions(ctx, "escola-a", txs))

	got, err := store.GetTransactions(ctx, "escola-a")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Dateless rows sort first (NULL due_date), the dated row follows.
	assert.Equal(t, "transactions-1", got[0].ID)
	assert.Nil(t, got[0].DueDate)
	assert.Nil(t, got[0].PaymentDate)

	rt := got[1]
	assert.Equal(t, "transactions-0", rt.ID)
	require.NotNil(t, rt.DueDate)
	assert.True(t, rt.DueDate.Equal(*txs[0].DueDate))
	require.NotNil(t, rt.PaymentDate)
	assert.True(t, rt.PaymentDate.Equal(*txs[0].PaymentDate))
	assert.Equal(t, model.StatusPago, rt.Status)
	assert.Equal(t, model.TypeEntrada, rt.Type)
	assert.Equal(t, model.CostVariavel, rt.CostKind)
	assert.Equal(t, model.SourceTransactions, rt.Source)
	assert.InDelta(t, 300, rt.NetAmount, 0.001)
	assert.InDelta(t, 310, rt.GrossAmount, 0.001)
	assert.Equal(t, "Paula Silva", rt.ResponsibleName)
}

func TestReplaceTransactions_Replaces(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	first := []model.Transaction{{ID: "a", Status: model.StatusPago, Type: model.TypeEntrada, Source: model.SourceTransactions}}
	second := []model.Transaction{{ID: "b", Status: model.StatusPendente, Type: model.TypeEntrada, Source: model.SourceTransactions}}

	require.NoError(t, store.ReplaceTransactions(ctx, "escola-a", first))
	require.NoError(t, store.ReplaceTransactions(ctx, "escola-a", second))

	got, err := store.GetTransactions(ctx, "escola-a")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestSnapshots_TenantIsolation(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceTransactions(ctx, "escola-a",
		[]model.Transaction{{ID: "a", Status: model.StatusPago, Type: model.TypeEntrada, Source: model.SourceTransactions}}))
	require.NoError(t, store.ReplaceTransactions(ctx, "escola-b",
		[]model.Transaction{{ID: "b", Status: model.StatusPago, Type: model.TypeEntrada, Source: model.SourceTransactions}}))

	// Replacing one tenant never touches the other.
	require.NoError(t, store.ReplaceTransactions(ctx, "escola-a", nil))

	gotA, err := store.GetTransactions(ctx, "escola-a")
	require.NoError(t, err)
	assert.Empty(t, gotA)

	gotB, err := store.GetTransactions(ctx, "escola-b")
	require.NoError(t, err)
	require.Len(t, gotB, 1)
	assert.Equal(t, "b", gotB[0].ID)
}

func TestStudentSnapshotRoundtrip(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	students := []model.Student{
		{
			ID:                 "S1",
			Name:               "Ana Silva",
			MatchName:          "ana silva",
			ResponsibleName:    "Paula Silva",
			Phone:              "11 99999-0000",
			CPF:                "123.456.789-00",
			ScholarshipPercent: "50%",
			Book:               "Livro 2",
			PaymentDay:         "10",
			ContractPeriod:     "2024",
			EnrollmentDate:     datePtr(2024, time.February, 1),
			LastPayment:        datePtr(2024, time.May, 10),
			NextDue:            datePtr(2024, time.June, 10),
			ContractValue:      3600,
			CurrentValue:       300,
			TotalPaid:          900,
			TotalPending:       300,
			TotalOverdue:       0,
			Status:             model.LifecycleAtivo,
			CurrentlyEnrolled:  true,
			NewlyEnrolled:      true,
		},
		{ID: "S2", Name: "Bruno Costa", Status: model.LifecycleEvadido, EvadedDate: datePtr(2023, time.November, 5)},
	}

	require.NoError(t, store.ReplaceStudents(ctx, "escola-a", students))

	got, err := store.GetStudents(ctx, "escola-a")
	require.NoError(t, err)
	require.Len(t, got, 2)

	ana := got[0]
	assert.Equal(t, "Ana Silva", ana.Name, "students come back ordered by name")
	assert.Equal(t, "ana silva", ana.MatchName)
	assert.Equal(t, model.LifecycleAtivo, ana.Status)
	assert.True(t, ana.CurrentlyEnrolled)
	assert.True(t, ana.NewlyEnrolled)
	assert.False(t, ana.Completed)
	require.NotNil(t, ana.EnrollmentDate)
	assert.True(t, ana.EnrollmentDate.Equal(*students[0].EnrollmentDate))
	require.NotNil(t, ana.NextDue)
	assert.InDelta(t, 3600, ana.ContractValue, 0.001)
	assert.InDelta(t, 300, ana.TotalPending, 0.001)
	assert.Empty(t, ana.Installments, "installments are rebuilt by reconciliation, never persisted")

	bruno := got[1]
	assert.Equal(t, model.LifecycleEvadido, bruno.Status)
	assert.Nil(t, bruno.EnrollmentDate)
	require.NotNil(t, bruno.EvadedDate)
}

func TestSnapshots_EmptyTenantRejected(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	assert.Error(t, store.ReplaceTransactions(ctx, "  ", nil))
	_, err := store.GetTransactions(ctx, "")
	assert.Error(t, err)
	assert.Error(t, store.ReplaceStudents(ctx, "", nil))
	_, err = store.GetStudents(ctx, " ")
	assert.Error(t, err)
}

func TestSnapshots_CancelledContext(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, store.ReplaceTransactions(ctx, "escola-a", nil))
	_, err := store.GetTransactions(ctx, "escola-a")
	assert.Error(t, err)
}
