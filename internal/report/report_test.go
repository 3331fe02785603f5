package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcrdcore/internal/core"
	"tcrdcore/internal/group"
	"tcrdcore/internal/xref"
	"tcrdcore/pkg/domain"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func channelReport() core.ChannelReport {
	scn := &domain.Target{ID: 20, Name: "SCN5A", TargetDevLevel: strPtr(domain.TDLClin), Protein: &domain.Protein{UniProt: "Q14524", Sym: "SCN5A"}}
	kcn := &domain.Target{ID: 30, Name: "KCNK18", TargetDevLevel: strPtr(domain.TDLDark), Protein: &domain.Protein{UniProt: "Q7Z418", Sym: "KCNK18"}}
	bare := &domain.Target{ID: 40, Name: "Orphan channel"}
	channels := []*domain.Target{scn, kcn, bare}
	levels := group.By(channels, func(t *domain.Target) *string { return t.TargetDevLevel })
	dark, ok := levels.Get(domain.LowestConfidence)
	return core.ChannelReport{
		Taxon:        "7955",
		MappedHumans: 1,
		TotalTargets: 5,
		Rows: []core.ChannelRow{
			{Target: scn, Orthologs: []string{"F1QXA1", "F1QXA2"}},
			{Target: kcn},
			{Target: bare},
		},
		Levels:    levels,
		Dark:      dark,
		DarkFound: ok,
	}
}

func TestChannelsTSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Channels(New(&buf, false), channelReport()))
	out := buf.String()
	assert.Contains(t, out, "Size of human to 7955: 1\n")
	assert.Contains(t, out, "Total channels: 3\n")
	assert.Contains(t, out, "Protein\tUniProt\tGene\tTargetLevel\tMappedTo7955\n")
	assert.Contains(t, out, "SCN5A\tQ14524\tSCN5A\tTclin\tF1QXA1,F1QXA2\n")
	assert.Contains(t, out, "KCNK18\tQ7Z418\tKCNK18\tTdark\tNA\n")
	assert.Contains(t, out, "Orphan channel\tNA\tNA\tnull\tNA\n")
	assert.Contains(t, out, "Tclin\t1\nTdark\t1\n")
	assert.Contains(t, out, "Dark channels: 1\nKCNK18\tKCNK18\n")
}

func TestChannelsWithoutDarkGroup(t *testing.T) {
	r := channelReport()
	r.Dark, r.DarkFound = nil, false
	var buf bytes.Buffer
	require.NoError(t, Channels(New(&buf, false), r))
	assert.Contains(t, buf.String(), "Dark channels: none (no Tdark group)")
}

func TestChannelsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Channels(New(&buf, true), channelReport()))
	out := buf.String()
	assert.Contains(t, out, "F1QXA1,F1QXA2")
	assert.NotContains(t, out, "SCN5A\tQ14524")
}

func TestActivities(t *testing.T) {
	target := &domain.Target{Name: "Chk2", TargetDevLevel: strPtr(domain.TDLChem)}
	r := core.ActivityReport{
		Gene:    "CHEK2",
		Protein: &domain.Protein{UniProt: "O96017"},
		Target:  target,
		ChEMBL: []core.ActivityRow{
			{Name: "cmpd-a", ActivityType: "IC50", Value: floatPtr(5), Binding: floatPtr(1e-5)},
			{Name: "cmpd-b", ActivityType: "Ki"},
		},
		Drug: []core.ActivityRow{
			{Name: "prexasertib", ActionType: "INHIBITOR", ActivityType: "IC50", Value: floatPtr(8), Binding: floatPtr(1e-8)},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, Activities(New(&buf, false), r))
	out := buf.String()
	assert.Contains(t, out, "Gene: CHEK2 (O96017), target: Chk2, Tchem\n")
	assert.Contains(t, out, "cmpd-a\tIC50\t5\t1e-05\n")
	assert.Contains(t, out, "cmpd-b\tKi\tnull\tnull\n")
	assert.Contains(t, out, "prexasertib\tINHIBITOR\tIC50\t8\t1e-08\n")
}

func TestSummary(t *testing.T) {
	protein := &domain.Protein{UniProt: "O96017", Sym: "CHEK2"}
	target := &domain.Target{Name: "Chk2", TargetDevLevel: strPtr(domain.TDLChem), Protein: protein}
	protein.Target = target
	chembl := &domain.ChEMBLActivity{CompoundChEMBLID: "CHEMBL1", ActivityType: "IC50", ActivityValue: floatPtr(5)}
	drug := &domain.DrugActivity{Drug: "prexasertib", ActionType: "INHIBITOR"}
	target.ChEMBLActivities = []*domain.ChEMBLActivity{chembl}
	target.DrugActivities = []*domain.DrugActivity{drug}

	var buf bytes.Buffer
	err := Summary(New(&buf, false), core.Summary{
		Proteins: 1, Targets: 1, ChEMBLActivities: 1, DrugActivities: 1,
		SampleProtein: protein, SampleChEMBLOwner: target, SampleChEMBL: chembl,
		SampleDrugOwner: target, SampleDrug: drug,
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "protein\t1\n")
	assert.Contains(t, out, "Protein's target: Chk2, Tchem\n")
	assert.Contains(t, out, "Target's protein: O96017, CHEK2\n")
	assert.Contains(t, out, "One of these activities: CHEMBL1, IC50, 5\n")
	assert.Contains(t, out, "One of drug activities: prexasertib, INHIBITOR, null\n")
}

func TestCrossReference(t *testing.T) {
	toHuman := xref.Table{"F1QXA1": xref.NewSet("Q14524"), "A0A0R4I9Y1": xref.NewSet()}
	fromHuman := xref.Invert(toHuman)
	var buf bytes.Buffer
	require.NoError(t, CrossReference(New(&buf, false), "7955", toHuman, fromHuman))
	out := buf.String()
	assert.Contains(t, out, "Size of 7955 to human: 2\n")
	assert.Contains(t, out, "Size of human to 7955: 1\n")
	assert.Contains(t, out, "Q14524\tF1QXA1\n")
}

type failingWriter struct{ n int }

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.n == 0 {
		return 0, errors.New("disk full")
	}
	f.n--
	return len(p), nil
}

func TestWriterKeepsFirstError(t *testing.T) {
	fw := &failingWriter{n: 1}
	w := New(fw, false)
	w.Linef("first")
	w.Linef("second")
	w.Linef("third")
	require.Error(t, w.Err())
	assert.True(t, strings.Contains(w.Err().Error(), "disk full"))
	assert.Equal(t, 0, fw.n)
}
