package main

import (
	"github.com/spf13/cobra"

	"tcrdcore/internal/report"
)

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Count every table and sample each record navigation",
		Args:  cobra.NoArgs,
		RunE:  a.runSummary,
	}
}

func (a *app) runSummary(cmd *cobra.Command, _ []string) error {
	svc, closeStore, err := a.openService(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer closeStore()
	s, err := svc.LoadSummary(cmd.Context())
	if err != nil {
		return err
	}
	return report.Summary(a.writer(cmd), s)
}
