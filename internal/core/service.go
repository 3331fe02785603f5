// Package core runs the TCRD reports: it reads targets and activities from a
// domain.Store, family files from a blob.Store, and observes every operation
// through the configured logger, metrics recorder and tracer.
package core

import (
	"context"
	"sort"

	"tcrdcore/internal/blob"
	"tcrdcore/internal/errors"
	"tcrdcore/internal/group"
	"tcrdcore/internal/logger"
	"tcrdcore/internal/xref"
	"tcrdcore/pkg/domain"
)

// Family file defaults: the Ensembl release 91 zebrafish export.
const (
	DefaultFamilyKey = "ProteinFamilies_Zebrafish.txt"
	ZebrafishTaxon   = "7955"
)

// FamilyConfig locates the cross-species family file.
type FamilyConfig struct {
	Key   string `mapstructure:"key"`
	Taxon string `mapstructure:"taxon"`
}

func (c FamilyConfig) withDefaults() FamilyConfig {
	if c.Key == "" {
		c.Key = DefaultFamilyKey
	}
	if c.Taxon == "" {
		c.Taxon = ZebrafishTaxon
	}
	return c
}

// Service runs reports against a target store and a family file source.
type Service struct {
	store    domain.Store
	families blob.Store
	opts     serviceOptions
}

// NewService constructs a service. families may be nil for callers that
// never run the cross-species reports.
func NewService(store domain.Store, families blob.Store, opts ...ServiceOption) *Service {
	o := defaultServiceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Service{store: store, families: families, opts: o}
}

// Store returns the underlying target store.
func (s *Service) Store() domain.Store { return s.store }

// Families returns the family file source.
func (s *Service) Families() blob.Store { return s.families }

// observe runs fn inside a span and records its duration and outcome.
func (s *Service) observe(ctx context.Context, op string, fn func(context.Context) error) error {
	start := s.opts.clock.Now()
	spanCtx, span := s.opts.tracer.Start(ctx, op)
	err := fn(spanCtx)
	span.End(err)
	elapsed := s.opts.clock.Now().Sub(start)
	s.opts.metrics.Observe(ctx, op, err == nil, elapsed)
	if err != nil {
		s.opts.logger.Errorw("operation failed", logger.FieldOperation, op, logger.FieldDurationMS, elapsed.Milliseconds(), logger.FieldError, err)
		return err
	}
	s.opts.logger.Debugw("operation complete", logger.FieldOperation, op, logger.FieldDurationMS, elapsed.Milliseconds())
	return nil
}

func (s *Service) requireFamilies() error {
	if s.families == nil {
		return errors.WithHint(errors.New("no family file source configured"), "set blob.driver")
	}
	return nil
}

// CrossReference loads the family file and returns the other-to-human table
// and its human-to-other inverse.
func (s *Service) CrossReference(ctx context.Context, fam FamilyConfig) (toHuman, fromHuman xref.Table, err error) {
	fam = fam.withDefaults()
	err = s.observe(ctx, "cross_reference", func(ctx context.Context) error {
		if err := s.requireFamilies(); err != nil {
			return err
		}
		var err error
		toHuman, err = xref.Load(ctx, s.families, fam.Key, fam.Taxon)
		if err != nil {
			return err
		}
		fromHuman = xref.Invert(toHuman)
		s.opts.logger.Infow("loaded cross reference",
			logger.FieldKey, fam.Key, logger.FieldTaxon, fam.Taxon,
			logger.FieldCount, len(toHuman))
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return toHuman, fromHuman, nil
}

// IonChannelReport lists every ion-channel target with the orthologs of its
// human accession in fam.Taxon, then groups the channels by development
// level.
func (s *Service) IonChannelReport(ctx context.Context, fam FamilyConfig) (ChannelReport, error) {
	fam = fam.withDefaults()
	var report ChannelReport
	err := s.observe(ctx, "ion_channel_report", func(ctx context.Context) error {
		if err := s.requireFamilies(); err != nil {
			return err
		}
		humanTo, err := xref.LoadHumanTo(ctx, s.families, fam.Key, fam.Taxon)
		if err != nil {
			return err
		}
		targets, err := s.store.ListTargets(ctx)
		if err != nil {
			return errors.Wrap(err, "list targets")
		}
		report = ChannelReport{Taxon: fam.Taxon, MappedHumans: len(humanTo), TotalTargets: len(targets)}

		var channels []*domain.Target
		for _, t := range targets {
			if t.InFamily(domain.FamilyIC) {
				channels = append(channels, t)
			}
		}
		for _, c := range channels {
			row := ChannelRow{Target: c}
			if c.Protein == nil {
				s.opts.logger.Warnw("ion channel without protein", "target_id", c.ID)
			} else if set, ok := humanTo.Get(c.Protein.UniProt); ok {
				row.Orthologs = set.Sorted()
			}
			report.Rows = append(report.Rows, row)
		}

		report.Levels = group.By(channels, func(t *domain.Target) *string { return t.TargetDevLevel })
		report.Dark, report.DarkFound = report.Levels.Get(domain.LowestConfidence)
		sort.Slice(report.Dark, func(i, j int) bool {
			if report.Dark[i].Name != report.Dark[j].Name {
				return report.Dark[i].Name < report.Dark[j].Name
			}
			return report.Dark[i].ID < report.Dark[j].ID
		})
		return nil
	})
	return report, err
}

// ProteinActivityReport looks up the single protein whose gene symbol is
// gene and lists its target's ChEMBL and drug activities with binding
// estimates. No match or several matches fail with a cardinality error.
func (s *Service) ProteinActivityReport(ctx context.Context, gene string) (ActivityReport, error) {
	var report ActivityReport
	err := s.observe(ctx, "protein_activity_report", func(ctx context.Context) error {
		p, err := s.store.FindProteinBy(ctx, "sym", gene)
		if err != nil {
			return err
		}
		if p.Target == nil {
			return errors.NoResultf("target for protein %s", gene)
		}
		report = ActivityReport{Gene: gene, Protein: p, Target: p.Target}

		chembl := append([]*domain.ChEMBLActivity(nil), p.Target.ChEMBLActivities...)
		sort.Slice(chembl, func(i, j int) bool { return chembl[i].ID < chembl[j].ID })
		for _, a := range chembl {
			report.ChEMBL = append(report.ChEMBL, ActivityRow{
				Name:         a.CompoundNameInRef,
				ActivityType: a.ActivityType,
				Value:        a.ActivityValue,
				Binding:      a.Binding(),
			})
		}
		drug := append([]*domain.DrugActivity(nil), p.Target.DrugActivities...)
		sort.Slice(drug, func(i, j int) bool { return drug[i].ID < drug[j].ID })
		for _, a := range drug {
			report.Drug = append(report.Drug, ActivityRow{
				Name:         a.Drug,
				ActionType:   a.ActionType,
				ActivityType: a.ActivityType,
				Value:        a.ActivityValue,
				Binding:      a.Binding(),
			})
		}
		s.opts.logger.Infow("loaded activities", logger.FieldGene, gene,
			logger.FieldCount, len(report.ChEMBL)+len(report.Drug))
		return nil
	})
	return report, err
}

// LoadSummary counts every table and samples one record per navigation:
// a protein with its target, a target with ChEMBL activities and one of
// them, and a target with drug activities and one of them. Samples are nil
// when no record qualifies.
func (s *Service) LoadSummary(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.observe(ctx, "load_summary", func(ctx context.Context) error {
		proteins, err := s.store.ListProteins(ctx)
		if err != nil {
			return errors.Wrap(err, "list proteins")
		}
		targets, err := s.store.ListTargets(ctx)
		if err != nil {
			return errors.Wrap(err, "list targets")
		}
		chembl, err := s.store.ListChEMBLActivities(ctx)
		if err != nil {
			return errors.Wrap(err, "list chembl activities")
		}
		drug, err := s.store.ListDrugActivities(ctx)
		if err != nil {
			return errors.Wrap(err, "list drug activities")
		}
		sum = Summary{
			Proteins:         len(proteins),
			Targets:          len(targets),
			ChEMBLActivities: len(chembl),
			DrugActivities:   len(drug),
		}
		for _, p := range proteins {
			if p.Target != nil {
				sum.SampleProtein = p
				break
			}
		}
		for _, t := range targets {
			if sum.SampleChEMBLOwner == nil && len(t.ChEMBLActivities) > 0 {
				sum.SampleChEMBLOwner, sum.SampleChEMBL = t, t.ChEMBLActivities[0]
			}
			if sum.SampleDrugOwner == nil && len(t.DrugActivities) > 0 {
				sum.SampleDrugOwner, sum.SampleDrug = t, t.DrugActivities[0]
			}
		}
		return nil
	})
	return sum, err
}
