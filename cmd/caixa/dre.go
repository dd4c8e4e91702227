package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caixaescolar/caixa/internal/cli"
	"github.com/caixaescolar/caixa/internal/dre"
	"github.com/caixaescolar/caixa/internal/ingest"
)

func dreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dre",
		Short: "Render the monthly DRE and managerial P&L",
		Long: `DRE renders the cash-basis monthly income statement (categories by
month, paid rows only) and the keyword-driven managerial P&L for the
tenant's reference year.`,
		RunE: runDRE,
	}

	cmd.Flags().Int("year", 0, "reference year (defaults to tenant config)")
	cmd.Flags().String("export", "", "write the monthly DRE as CSV to this path")
	cmd.Flags().Bool("managerial", false, "show the managerial P&L instead of the monthly DRE")

	return cmd
}

func runDRE(cmd *cobra.Command, _ []string) error {
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

	year, _ := cmd.Flags().GetInt("year")
	if year == 0 {
		year = tenant.ReferenceYear
	}

	if managerial, _ := cmd.Flags().GetBool("managerial"); managerial {
		printManagerial(dre.Managerial(transactions, year))
		return nil
	}

	statement := dre.CashBasis(transactions, year)

	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		f, err := os.Create(exportPath)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer func() { _ = f.Close() }()
		if err := ingest.ExportDRE(f, statement); err != nil {
			return err
		}
		fmt.Println(cli.SuccessStyle.Render("✓ exported to " + exportPath))
		return nil
	}

	printDRE(statement)
	return nil
}

func printDRE(d dre.DRE) {
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("DRE %d (regime de caixa)", d.Year)))

	printSection := func(name string, sec dre.Section) {
		fmt.Println(cli.BoldStyle.Render(name))
		for _, line := range sec.Lines {
			fmt.Printf("  %-30s %s\n", line.Category, cli.FormatBRL(line.Total))
		}
		fmt.Printf("  %-30s %s\n", "Total", cli.BoldStyle.Render(cli.FormatBRL(sec.Total)))
	}
	printSection("Receitas", d.Income)
	printSection("Despesas", d.Expense)

	fmt.Printf("%s %s\n", cli.BoldStyle.Render("Resultado do ano:"),
		cli.AmountStyle(d.ProfitTotal).Render(cli.FormatBRL(d.ProfitTotal)))
}

func printManagerial(pl dre.ManagerialPL) {
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("DRE Gerencial %d", pl.Year)))
	for _, line := range pl.Lines {
		label := line.Label
		if line.Detail {
			label = "    " + label
		}
		amount := cli.FormatBRL(line.Amount)
		if strings.HasSuffix(line.Label, "(%)") {
			amount = cli.FormatPct(line.Amount)
		}
		fmt.Printf("  %-42s %14s  %8s\n",
			label, amount, cli.FormatPct(line.VerticalPct))
	}
}
