package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/caixaescolar/caixa/internal/cli"
	"github.com/caixaescolar/caixa/internal/metrics"
	"github.com/caixaescolar/caixa/internal/model"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the tenant's financial dashboard",
		Long: `Report computes the dashboard KPIs over the tenant's stored
snapshot: cash flow, delinquency, break-even, ticket pricing, retention,
and the top-lists. A date window filters the cash figures; delinquency
always reads the full history.`,
		RunE: runReport,
	}

	cmd.Flags().StringP("start-date", "s", "", "window start (format: 2006-01-02)")
	cmd.Flags().StringP("end-date", "e", "", "window end (format: 2006-01-02)")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	now := time.Now()

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
	students, err := store.GetStudents(ctx, tenant.Name)
	if err != nil {
		return err
	}

	startFlag, _ := cmd.Flags().GetString("start-date")
	endFlag, _ := cmd.Flags().GetString("end-date")
	start, err := parseDateFlag(startFlag)
	if err != nil {
		return err
	}
	end, err := parseDateFlag(endFlag)
	if err != nil {
		return err
	}

	filter := metrics.Filter{Start: start, End: end}
	windowed := filter.Apply(transactions)

	cash := metrics.Cash(windowed)
	delinquency := metrics.ComputeDelinquency(transactions, now)
	breakEven := metrics.ComputeBreakEven(windowed, students, now)
	rolling := metrics.ComputeRollingBreakEven(transactions, now)
	cohort := metrics.Retention(students)

	fmt.Println(cli.TitleStyle.Render("Painel — " + tenant.Name))
	fmt.Println(cli.KPIRow(
		cli.KPIBox("Entradas", cli.AmountStyle(cash.Entrada).Render(cli.FormatBRL(cash.Entrada))),
		cli.KPIBox("Saídas", cli.ErrorStyle.Render(cli.FormatBRL(cash.Saida))),
		cli.KPIBox("Saldo", cli.AmountStyle(cash.Saldo).Render(cli.FormatBRL(cash.Saldo))),
		cli.KPIBox("A receber", cli.FormatBRL(cash.PendingIncome)),
		cli.KPIBox("Em atraso", cli.WarningStyle.Render(cli.FormatBRL(cash.OverdueIncome))),
	))

	fmt.Println(cli.TitleStyle.Render("Inadimplência"))
	fmt.Println(cli.KPIRow(
		cli.KPIBox("30 dias", cli.FormatPct(delinquency.Last30Days.Rate)),
		cli.KPIBox("3 meses", cli.FormatPct(delinquency.Last3Months.Rate)),
		cli.KPIBox("12 meses", cli.FormatPct(delinquency.Last12Months.Rate)),
		cli.KPIBox("Histórico", cli.FormatPct(delinquency.AllTime.Rate)),
	))

	fmt.Println(cli.TitleStyle.Render("Ponto de equilíbrio"))
	fmt.Printf("  Receita necessária: %s (margem de contribuição %s)\n",
		cli.BoldStyle.Render(cli.FormatBRL(breakEven.Revenue)),
		cli.FormatPct(breakEven.ContributionMarginPct))
	fmt.Printf("  Alunos necessários: %s (ticket efetivo %s)\n",
		cli.BoldStyle.Render(fmt.Sprintf("%d", breakEven.Students)),
		cli.FormatBRL(breakEven.EffectiveTicket))
	fmt.Printf("  Trimestre móvel: %s/mês, crescimento %s\n",
		cli.FormatBRL(rolling.Current.Revenue), cli.FormatPct(rolling.GrowthPct))

	fmt.Println(cli.TitleStyle.Render("Base de alunos"))
	fmt.Printf("  Ativos %d · Matriculados %d · Concluídos %d · Evasão %d · Trancados %d · Outros %d\n",
		cohort.Active, cohort.Enrolled, cohort.Finished, cohort.Churned, cohort.Paused, cohort.Other)
	fmt.Printf("  Churn %s · Retenção %s · Ticket médio %s\n",
		cli.FormatPct(cohort.ChurnPct), cli.FormatPct(cohort.RetentionPct),
		cli.FormatBRL(metrics.AverageTicket(students)))

	fmt.Println(cli.TitleStyle.Render("Distribuição de mensalidades"))
	for _, b := range metrics.TicketDistribution(students) {
		fmt.Printf("  %-18s %3d alunos (%s)\n", b.Label, b.Count, cli.FormatPct(b.Pct))
	}
	trend := metrics.QuarterlyTicketTrend(transactions, tenant.ReferenceYear)
	fmt.Printf("  Ticket faturado %d: T1 %s · T2 %s · T3 %s · T4 %s\n",
		tenant.ReferenceYear, cli.FormatBRL(trend[0]), cli.FormatBRL(trend[1]),
		cli.FormatBRL(trend[2]), cli.FormatBRL(trend[3]))

	printBalanceProjection(transactions, start, end, now)
	printGrowthProjection(transactions, now)
	printTopLists(transactions, students, now)
	return nil
}

func printGrowthProjection(transactions []model.Transaction, now time.Time) {
	history := metrics.MonthlyNet(transactions, now, 6)
	projected := metrics.ProjectLinear(history, 3)
	if len(projected) == 0 {
		return
	}

	fmt.Println(cli.TitleStyle.Render("Projeção linear (resultado mensal)"))
	for _, p := range projected {
		fmt.Printf("  %s  %s\n", p.Month.Format("01/2006"),
			cli.AmountStyle(p.Value).Render(cli.FormatBRL(p.Value)))
	}
}

func printBalanceProjection(transactions []model.Transaction, start, end *time.Time, now time.Time) {
	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	if start != nil {
		from = *start
	}
	monthly := metrics.Monthly(metrics.BalanceSeries(transactions, from, end, now))
	if len(monthly) == 0 {
		return
	}

	fmt.Println(cli.TitleStyle.Render("Evolução do saldo"))
	for _, p := range monthly {
		realized := cli.SubtleStyle.Render("—")
		if p.Realized != nil {
			realized = cli.AmountStyle(*p.Realized).Render(cli.FormatBRL(*p.Realized))
		}
		fmt.Printf("  %s  realizado %-18s projetado %s\n",
			p.Date.Format("01/2006"), realized, cli.FormatBRL(p.Projected))
	}
}

func printTopLists(transactions []model.Transaction, students []model.Student, now time.Time) {
	fmt.Println(cli.TitleStyle.Render("Maiores devedores"))
	for _, s := range metrics.TopDefaulters(students, 10) {
		fmt.Printf("  %-30s %s\n", s.Name, cli.ErrorStyle.Render(cli.FormatBRL(s.TotalOverdue)))
	}

	fmt.Println(cli.TitleStyle.Render("Próximos pagamentos"))
	for _, tx := range metrics.UpcomingPayments(transactions, now, 10) {
		fmt.Printf("  %s  %-30s %s\n",
			tx.DueDate.Format("02/01/2006"), tx.Description, cli.FormatBRL(tx.AbsAmount))
	}

	fmt.Println(cli.TitleStyle.Render("Últimos recebimentos"))
	for _, tx := range metrics.RecentReceipts(transactions, now, 10) {
		fmt.Printf("  %s  %-30s %s\n",
			tx.EffectiveDate().Format("02/01/2006"), tx.Description,
			cli.SuccessStyle.Render(cli.FormatBRL(tx.AbsAmount)))
	}
}
