package report

import (
	"strconv"
	"strings"

	"tcrdcore/internal/core"
	"tcrdcore/internal/xref"
	"tcrdcore/pkg/domain"
)

// Channels prints the ion-channel report.
func Channels(w *Writer, r core.ChannelReport) error {
	w.Linef("Size of human to %s: %d", r.Taxon, r.MappedHumans)
	w.Linef("Total targets: %d", r.TotalTargets)
	w.Linef("Total channels: %d", len(r.Rows))

	rows := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		uniprot, sym := core.NA, core.NA
		if p := row.Target.Protein; p != nil {
			uniprot, sym = p.UniProt, p.Sym
		}
		rows = append(rows, []string{row.Target.Name, uniprot, sym, Str(row.Target.TargetDevLevel), row.OrthologList()})
	}
	w.Section([]string{"Protein", "UniProt", "Gene", "TargetLevel", "MappedTo" + r.Taxon}, rows)

	w.Blank()
	w.Linef("Target levels:")
	levels := make([][]string, 0, len(r.Levels))
	for _, label := range r.Levels.Labels() {
		n, _ := r.Levels.Size(label)
		levels = append(levels, []string{label, strconv.Itoa(n)})
	}
	w.Section(nil, levels)

	if !r.DarkFound {
		w.Linef("Dark channels: none (no %s group)", domain.LowestConfidence)
		return w.Err()
	}
	w.Linef("Dark channels: %d", len(r.Dark))
	dark := make([][]string, 0, len(r.Dark))
	for _, t := range r.Dark {
		sym := core.NA
		if t.Protein != nil {
			sym = t.Protein.Sym
		}
		dark = append(dark, []string{t.Name, sym})
	}
	w.Section(nil, dark)
	return w.Err()
}

// Activities prints the ChEMBL and drug activities of one gene.
func Activities(w *Writer, r core.ActivityReport) error {
	w.Linef("Gene: %s (%s), target: %s, %s", r.Gene, r.Protein.UniProt, r.Target.Name, Str(r.Target.TargetDevLevel))
	w.Blank()
	w.Linef("ChEMBL:")
	w.Section([]string{"Compound", "ActivityType", "Activity", "Binding"}, activityRows(r.ChEMBL, false))
	w.Blank()
	w.Linef("Drug:")
	w.Section([]string{"Drug", "ActionType", "ActivityType", "Activity", "Binding"}, activityRows(r.Drug, true))
	return w.Err()
}

func activityRows(in []core.ActivityRow, withAction bool) [][]string {
	rows := make([][]string, 0, len(in))
	for _, a := range in {
		row := []string{a.Name}
		if withAction {
			row = append(row, a.ActionType)
		}
		row = append(row, a.ActivityType, Float(a.Value), Float(a.Binding))
		rows = append(rows, row)
	}
	return rows
}

// Summary prints table counts and one sample per navigation.
func Summary(w *Writer, s core.Summary) error {
	w.Section([]string{"Table", "Rows"}, [][]string{
		{"protein", strconv.Itoa(s.Proteins)},
		{"target", strconv.Itoa(s.Targets)},
		{"chembl_activity", strconv.Itoa(s.ChEMBLActivities)},
		{"drug_activity", strconv.Itoa(s.DrugActivities)},
	})
	w.Blank()
	if p := s.SampleProtein; p != nil {
		w.Linef("Protein: %s, %s", p.UniProt, p.Sym)
		w.Linef("Protein's target: %s, %s", p.Target.Name, Str(p.Target.TargetDevLevel))
	}
	if t := s.SampleChEMBLOwner; t != nil {
		w.Linef("Target: %s, %s", t.Name, Str(t.TargetDevLevel))
		if t.Protein != nil {
			w.Linef("Target's protein: %s, %s", t.Protein.UniProt, t.Protein.Sym)
		}
		w.Linef("Total ChEMBL activities: %d", len(t.ChEMBLActivities))
		a := s.SampleChEMBL
		w.Linef("One of these activities: %s, %s, %s", a.CompoundChEMBLID, a.ActivityType, Float(a.ActivityValue))
	}
	if t := s.SampleDrugOwner; t != nil {
		w.Linef("Another target: %s, %s", t.Name, Str(t.TargetDevLevel))
		w.Linef("Total drug activities: %d", len(t.DrugActivities))
		a := s.SampleDrug
		w.Linef("One of drug activities: %s, %s, %s", a.Drug, a.ActionType, Float(a.ActivityValue))
	}
	return w.Err()
}

// CrossReference prints both directions of the accession mapping.
func CrossReference(w *Writer, taxon string, toHuman, fromHuman xref.Table) error {
	w.Linef("Size of %s to human: %d", taxon, len(toHuman))
	w.Linef("Size of human to %s: %d", taxon, len(fromHuman))
	w.Section([]string{"Human", taxon}, tableRows(fromHuman))
	return w.Err()
}

func tableRows(t xref.Table) [][]string {
	keys := t.Keys()
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		set, _ := t.Get(k)
		members := set.Sorted()
		joined := core.NA
		if len(members) > 0 {
			joined = strings.Join(members, ",")
		}
		rows = append(rows, []string{k, joined})
	}
	return rows
}
