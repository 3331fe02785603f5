package main

import (
	"github.com/spf13/cobra"

	"tcrdcore/internal/core"
	"tcrdcore/internal/report"
)

func newXrefCmd(a *app) *cobra.Command {
	var fam core.FamilyConfig
	cmd := &cobra.Command{
		Use:   "xref",
		Short: "Print the human to other-species accession table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runXref(cmd, fam)
		},
	}
	familyFlags(cmd, &fam)
	return cmd
}

func (a *app) runXref(cmd *cobra.Command, override core.FamilyConfig) error {
	svc, closeStore, err := a.openService(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer closeStore()
	fam := a.families(override)
	toHuman, fromHuman, err := svc.CrossReference(cmd.Context(), fam)
	if err != nil {
		return err
	}
	return report.CrossReference(a.writer(cmd), fam.Taxon, toHuman, fromHuman)
}
