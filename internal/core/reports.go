package core

import (
	"strings"

	"tcrdcore/internal/group"
	"tcrdcore/pkg/domain"
)

// NA marks a missing value in report rows.
const NA = "NA"

// ChannelRow is one ion-channel target with its cross-species orthologs.
type ChannelRow struct {
	Target    *domain.Target
	Orthologs []string // sorted; nil when the human accession is unmapped
}

// Mapped reports whether the row's human accession has an entry in the
// human-to-other table.
func (r ChannelRow) Mapped() bool { return r.Orthologs != nil }

// OrthologList joins the orthologs with commas, or NA when unmapped.
func (r ChannelRow) OrthologList() string {
	if !r.Mapped() {
		return NA
	}
	return strings.Join(r.Orthologs, ",")
}

// ChannelReport lists ion-channel targets and groups them by development level.
type ChannelReport struct {
	Taxon        string
	MappedHumans int // keys of the human-to-other table
	TotalTargets int
	Rows         []ChannelRow
	Levels       group.Groups[*domain.Target]
	// Dark holds the lowest-confidence channels sorted by name. DarkFound is
	// false when no channel carries that level at all.
	Dark      []*domain.Target
	DarkFound bool
}

// ActivityRow is one bioactivity with its linear binding estimate.
type ActivityRow struct {
	Name         string // compound name for ChEMBL, drug name for drug activities
	ActionType   string
	ActivityType string
	Value        *float64
	Binding      *float64
}

// ActivityReport lists the bioactivities attached to one gene's target.
type ActivityReport struct {
	Gene    string
	Protein *domain.Protein
	Target  *domain.Target
	ChEMBL  []ActivityRow
	Drug    []ActivityRow
}

// Summary counts every table and samples each navigation once.
type Summary struct {
	Proteins         int
	Targets          int
	ChEMBLActivities int
	DrugActivities   int

	SampleProtein     *domain.Protein
	SampleChEMBLOwner *domain.Target
	SampleChEMBL      *domain.ChEMBLActivity
	SampleDrugOwner   *domain.Target
	SampleDrug        *domain.DrugActivity
}
