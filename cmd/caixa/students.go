package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/caixaescolar/caixa/internal/cli"
	"github.com/caixaescolar/caixa/internal/model"
)

func studentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "students",
		Short: "List the tenant's classified students",
		RunE:  runStudents,
	}

	cmd.Flags().String("status", "", "filter by lifecycle status (e.g. Ativo, Evadido)")
	cmd.Flags().Bool("overdue", false, "only students with an overdue balance")

	return cmd
}

func runStudents(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	tenant, err := currentTenant()
	if err != nil {
		return err
	}
	store, err := initStorage(ctx, tenant)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	students, err := store.GetStudents(ctx, tenant.Name)
	if err != nil {
		return err
	}

	statusFilter, _ := cmd.Flags().GetString("status")
	overdueOnly, _ := cmd.Flags().GetBool("overdue")

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Alunos — %s", tenant.Name)))
	var shown int
	for i := range students {
		s := &students[i]
		if statusFilter != "" && string(s.Status) != statusFilter {
			continue
		}
		if overdueOnly && !s.HasOverdue() {
			continue
		}
		shown++
		fmt.Printf("  %-30s %-26s pago %s  pendente %s  atraso %s\n",
			s.Name, statusStyle(s.Status).Render(string(s.Status)),
			cli.FormatBRL(s.TotalPaid), cli.FormatBRL(s.TotalPending),
			cli.FormatBRL(s.TotalOverdue))
	}
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%d de %d alunos", shown, len(students))))
	return nil
}

func statusStyle(st model.Status) lipgloss.Style {
	switch {
	case st.IsDelinquent():
		return cli.WarningStyle
	case st.IsChurned():
		return cli.ErrorStyle
	case st.IsActive(), st.IsEnrolled():
		return cli.SuccessStyle
	default:
		return cli.SubtleStyle
	}
}
