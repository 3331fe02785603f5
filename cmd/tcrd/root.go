package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"tcrdcore/internal/blob"
	"tcrdcore/internal/config"
	"tcrdcore/internal/core"
	"tcrdcore/internal/errors"
	"tcrdcore/internal/logger"
	"tcrdcore/internal/report"
)

// app carries state shared by every subcommand of one invocation.
type app struct {
	configFile string
	table      bool

	v       *viper.Viper
	cfg     *config.Config
	log     *zap.SugaredLogger
	metrics core.MetricsRecorder
	prom    *core.PrometheusMetricsRecorder
	tracer  core.Tracer
	trace   *os.File
}

// run executes one tcrd invocation. Metrics and trace output are flushed
// even when the command fails.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if terr := a.teardown(); err == nil {
		err = terr
	}
	return err
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tcrd",
		Short: "Drug-target reports over a TCRD database",
		Long: `tcrd queries proteins, targets and bioactivities from a TCRD database
(sqlite, postgres or an in-memory fixture) and prints tab-separated reports.

Cross-species reports read an Ensembl protein family file from the configured
blob store (local directory or S3).

Configuration comes from --config, TCRD_* environment variables and defaults,
e.g. TCRD_STORAGE_DRIVER=postgres TCRD_FAMILIES_TAXON=7955.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (yaml, toml or json)")
	root.PersistentFlags().BoolVar(&a.table, "table", false, "render sections as tables instead of tab-separated lines")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newChannelsCmd(a),
		newProteinCmd(a),
		newSummaryCmd(a),
		newXrefCmd(a),
		newSeedCmd(a),
		newFamiliesCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	v, err := config.New(a.configFile)
	if err != nil {
		return err
	}
	if err := v.BindPFlag("log.level", cmd.Root().PersistentFlags().Lookup("log-level")); err != nil {
		return errors.Wrap(err, "bind log-level flag")
	}
	cfg, err := config.LoadWithViper(v)
	if err != nil {
		return err
	}
	a.v, a.cfg = v, cfg

	a.log, err = logger.NewWithWriter(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	switch strings.ToLower(cfg.Metrics.Driver) {
	case "", "none":
	case "expvar":
		a.metrics = core.NewExpvarMetricsRecorder("")
	case "prometheus":
		a.prom = core.NewPrometheusMetricsRecorder()
		a.metrics = a.prom
	default:
		return errors.WithHint(
			errors.Wrapf(errors.ErrUnknownDriver, "metrics driver %q", cfg.Metrics.Driver),
			"use one of none, expvar, prometheus")
	}

	if cfg.Trace.File != "" {
		f, err := os.Create(cfg.Trace.File)
		if err != nil {
			return errors.MarkIO(err, "create trace file")
		}
		a.trace = f
		a.tracer = core.NewJSONTracer(f)
	}
	return nil
}

func (a *app) teardown() error {
	if a.cfg == nil {
		return nil
	}
	var errs []error
	if a.prom != nil {
		if err := a.prom.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			errs = append(errs, err)
		}
	}
	if a.trace != nil {
		if err := a.trace.Close(); err != nil {
			errs = append(errs, errors.MarkIO(err, "close trace file"))
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// openService opens the target store and, when withFamilies is set, the
// family file source. The returned close function releases the store.
func (a *app) openService(ctx context.Context, withFamilies bool) (*core.Service, func(), error) {
	store, err := core.OpenStore(ctx, a.cfg.Storage)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open store")
	}
	a.log.Debugw("store opened", logger.FieldDriver, a.cfg.Storage.Driver)

	var families blob.Store
	if withFamilies {
		families, err = blob.Open(ctx, a.cfg.Blob)
		if err != nil {
			_ = store.Close()
			return nil, nil, errors.Wrap(err, "open family source")
		}
	}
	opts := []core.ServiceOption{core.WithLogger(a.log)}
	if a.metrics != nil {
		opts = append(opts, core.WithMetricsRecorder(a.metrics))
	}
	if a.tracer != nil {
		opts = append(opts, core.WithTracer(a.tracer))
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			a.log.Warnw("close store", logger.FieldError, err)
		}
	}
	return core.NewService(store, families, opts...), closeStore, nil
}

func (a *app) writer(cmd *cobra.Command) *report.Writer {
	return report.New(cmd.OutOrStdout(), a.table)
}

// familyFlags registers --key and --taxon overrides on cmd.
func familyFlags(cmd *cobra.Command, fam *core.FamilyConfig) {
	cmd.Flags().StringVar(&fam.Key, "key", "", "family file key in the blob store (default families.key)")
	cmd.Flags().StringVar(&fam.Taxon, "taxon", "", "other-species NCBI taxon id (default families.taxon)")
}

func (a *app) families(override core.FamilyConfig) core.FamilyConfig {
	fam := a.cfg.Families
	if override.Key != "" {
		fam.Key = override.Key
	}
	if override.Taxon != "" {
		fam.Taxon = override.Taxon
	}
	return fam
}
