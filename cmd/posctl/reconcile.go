package main

import (
	"fmt"

	"github.com/fekuna/omnipos-sales-service/internal/app"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile-reserved",
	Short: "Compare reserved stock with open HOLDING account holdings",
	Long: `Recomputes every product's reserved stock from the line items of unpaid HOLDING
account holdings and reports the products whose recorded value differs.

With --apply the recorded value is corrected and an adjustment movement is logged.`,
	Example: `  # Report drift only
  posctl reconcile-reserved

  # Correct it
  posctl reconcile-reserved --apply`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().Bool("apply", false, "Write the corrected reserved stock")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	apply, _ := cmd.Flags().GetBool("apply")

	repos, closeDB, err := app.Open(cmd.Context(), app.DatabaseConfig(cfg), false)
	if err != nil {
		return err
	}
	defer closeDB()

	uc := app.NewUseCases(repos, app.Infra{}, clock.NewSystem(), appLogger)
	drifts, err := uc.Inventory.ReconcileReserved(cmd.Context(), apply)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(drifts) == 0 {
		fmt.Fprintln(out, "reserved stock is consistent")
		return nil
	}
	fmt.Fprintf(out, "%-36s  %8s  %8s\n", "PRODUCT", "RECORDED", "EXPECTED")
	for _, d := range drifts {
		fmt.Fprintf(out, "%-36s  %8d  %8d\n", d.ProductID, d.Recorded, d.Expected)
	}
	if apply {
		fmt.Fprintf(out, "corrected %d product(s)\n", len(drifts))
	} else {
		fmt.Fprintln(out, "run with --apply to correct")
	}
	return nil
}
