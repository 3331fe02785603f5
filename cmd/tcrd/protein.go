package main

import (
	"github.com/spf13/cobra"

	"tcrdcore/internal/report"
)

func newProteinCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "protein <gene>",
		Short: "Show ChEMBL and drug activities for a gene symbol",
		Long: `Looks up the single protein with the given gene symbol and prints the
ChEMBL and drug activities of its target with binding = 10^-value.

Example:
  tcrd protein CHEK2`,
		Args: cobra.ExactArgs(1),
		RunE: a.runProtein,
	}
}

func (a *app) runProtein(cmd *cobra.Command, args []string) error {
	svc, closeStore, err := a.openService(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer closeStore()
	r, err := svc.ProteinActivityReport(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return report.Activities(a.writer(cmd), r)
}
