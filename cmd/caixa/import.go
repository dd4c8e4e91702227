package main

import (
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/caixaescolar/caixa/internal/cli"
	"github.com/caixaescolar/caixa/internal/common"
	"github.com/caixaescolar/caixa/internal/ingest"
	"github.com/caixaescolar/caixa/internal/model"
	"github.com/caixaescolar/caixa/internal/normalize"
	"github.com/caixaescolar/caixa/internal/reconcile"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import and reconcile a tenant's spreadsheets",
		Long: `Import reads the tenant's transaction and registry CSV exports,
normalizes every row into a canonical transaction, reconciles income
against the student registry, classifies each student's lifecycle
status, and stores the resulting snapshot for the reporting commands.

The whole pipeline is a full recompute: each import replaces the
tenant's previous snapshot entirely.`,
		RunE: runImport,
	}

	cmd.Flags().String("transactions", "", "transactions CSV (overrides tenant config)")
	cmd.Flags().String("registry", "", "student registry CSV (overrides tenant config)")
	cmd.Flags().Bool("dry-run", false, "reconcile and report counts without saving")

	return cmd
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	tenant, err := currentTenant()
	if err != nil {
		return err
	}

	txPath, _ := cmd.Flags().GetString("transactions")
	if txPath == "" {
		txPath = tenant.TransactionsCSV
	}
	regPath, _ := cmd.Flags().GetString("registry")
	if regPath == "" {
		regPath = tenant.RegistryCSV
	}
	if txPath == "" || regPath == "" {
		return common.NewUserError(
			fmt.Sprintf("tenant %q has no spreadsheet paths configured", tenant.Name),
			common.ErrInvalidConfig)
	}

	txRows, err := ingest.ReadRows(txPath)
	if err != nil {
		return fmt.Errorf("failed to read transactions: %w", err)
	}
	regRows, err := ingest.ReadRows(regPath)
	if err != nil {
		return fmt.Errorf("failed to read registry: %w", err)
	}

	slog.Info("Normalizing rows", "transactions", len(txRows), "registry", len(regRows))

	bar := progressbar.Default(int64(len(txRows)+len(regRows)), "normalizing")
	transactions := make([]model.Transaction, 0, len(txRows)+len(regRows))
	for i, raw := range txRows {
		if tx, ok := normalize.Row(raw, model.SourceTransactions, i); ok {
			transactions = append(transactions, tx)
		}
		_ = bar.Add(1)
	}
	for i, raw := range regRows {
		if tx, ok := normalize.Row(raw, model.SourceRegistry, i); ok {
			transactions = append(transactions, tx)
		}
		_ = bar.Add(1)
	}

	result := reconcile.Reconcile(transactions, regRows)

	common.LogInfo("Reconciliation complete", common.Fields{
		"transactions":       len(transactions),
		"students":           len(result.Students),
		"unattributed":       len(result.Unattributed),
		"unattributed_total": result.UnattributedTotal(),
	})

	if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
		fmt.Println(cli.SubtleStyle.Render("dry run, nothing saved"))
		return nil
	}

	store, err := initStorage(ctx, tenant)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.ReplaceTransactions(ctx, tenant.Name, transactions); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	if err := store.ReplaceStudents(ctx, tenant.Name, result.Students); err != nil {
		return fmt.Errorf("failed to save students: %w", err)
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
		"✓ imported %d transactions and %d students for %s",
		len(transactions), len(result.Students), tenant.Name)))
	return nil
}
