package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/caixaescolar/caixa/internal/cli"
	"github.com/caixaescolar/caixa/internal/metrics"
)

func delinquencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delinquency",
		Short: "Show past-due receivables over the four rolling windows",
		Long: `Delinquency reports the open share of past-due receivables over
the rolling 30-day, 3-month and 12-month windows and the full history.
It always scans the complete transaction set, regardless of any report
date window.`,
		RunE: runDelinquency,
	}
}

func runDelinquency(cmd *cobra.Command, _ []string) error {
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

	transactions, err := store.GetTransactions(ctx, tenant.Name)
	if err != nil {
		return err
	}

	d := metrics.ComputeDelinquency(transactions, time.Now())

	fmt.Println(cli.TitleStyle.Render("Inadimplência — " + tenant.Name))
	rows := []struct {
		label  string
		window metrics.DelinquencyWindow
	}{
		{"Últimos 30 dias", d.Last30Days},
		{"Últimos 3 meses", d.Last3Months},
		{"Últimos 12 meses", d.Last12Months},
		{"Histórico completo", d.AllTime},
	}
	for _, r := range rows {
		fmt.Printf("  %-20s vencido %s  em aberto %s  taxa %s\n",
			r.label,
			cli.FormatBRL(r.window.PastDue),
			cli.WarningStyle.Render(cli.FormatBRL(r.window.Open)),
			cli.BoldStyle.Render(cli.FormatPct(r.window.Rate)))
	}
	return nil
}
