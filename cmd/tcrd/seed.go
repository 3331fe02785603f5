package main

import (
	"github.com/spf13/cobra"

	"tcrdcore/internal/core"
	"tcrdcore/internal/logger"
)

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixture.yaml>",
		Short: "Load a YAML snapshot into the configured store",
		Long: `Inserts the proteins, targets and activities of a YAML fixture into the
configured sqlite or postgres store in one transaction. Useful for building
a local development copy of the TCRD subset read by the reports.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runSeed,
	}
}

func (a *app) runSeed(cmd *cobra.Command, args []string) error {
	snap, err := core.ReadFixture(args[0])
	if err != nil {
		return err
	}
	svc, closeStore, err := a.openService(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer closeStore()
	if err := core.Seed(cmd.Context(), svc.Store(), snap); err != nil {
		return err
	}
	a.log.Infow("seeded store",
		logger.FieldDriver, a.cfg.Storage.Driver,
		"proteins", len(snap.Proteins),
		"targets", len(snap.Targets),
		"chembl_activities", len(snap.ChEMBLActivities),
		"drug_activities", len(snap.DrugActivities))
	a.writer(cmd).Linef("Seeded %d proteins, %d targets, %d ChEMBL activities, %d drug activities",
		len(snap.Proteins), len(snap.Targets), len(snap.ChEMBLActivities), len(snap.DrugActivities))
	return nil
}
