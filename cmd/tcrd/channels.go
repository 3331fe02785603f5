package main

import (
	"github.com/spf13/cobra"

	"tcrdcore/internal/core"
	"tcrdcore/internal/report"
)

func newChannelsCmd(a *app) *cobra.Command {
	var fam core.FamilyConfig
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List ion-channel targets with their cross-species orthologs",
		Long: `Lists every target in the IC family with its UniProt accession, gene
symbol, development level and the orthologous accessions of the configured
taxon (NA when unmapped), then counts channels per development level and
lists the Tdark ones.

Example:
  tcrd channels --taxon 7955 --key ProteinFamilies_Zebrafish.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runChannels(cmd, fam)
		},
	}
	familyFlags(cmd, &fam)
	return cmd
}

func (a *app) runChannels(cmd *cobra.Command, fam core.FamilyConfig) error {
	svc, closeStore, err := a.openService(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer closeStore()
	r, err := svc.IonChannelReport(cmd.Context(), a.families(fam))
	if err != nil {
		return err
	}
	return report.Channels(a.writer(cmd), r)
}
