package domain

import "testing"

func str(s string) *string { return &s }

func sampleSnapshot() Snapshot {
	return Snapshot{
		Proteins: []*Protein{
			{ID: 1, Name: "CHK2_HUMAN", UniProt: "O96017", Sym: "CHEK2"},
			{ID: 2, Name: "KCNA1_HUMAN", UniProt: "Q09470", Sym: "KCNA1"},
		},
		Targets: []*Target{
			{ID: 10, Name: "Serine/threonine-protein kinase Chk2", TargetDevLevel: str(TDLChem), Family: str("Kinase"), ProteinID: 1},
			{ID: 20, Name: "Potassium voltage-gated channel subfamily A member 1", TargetDevLevel: str(TDLDark), Family: str(FamilyIC), ProteinID: 2},
			{ID: 30, Name: "orphan", ProteinID: 99},
		},
		ChEMBLActivities: []*ChEMBLActivity{
			{ID: 100, TargetID: 10, CompoundChEMBLID: "CHEMBL1", ActivityType: "IC50"},
			{ID: 101, TargetID: 10, CompoundChEMBLID: "CHEMBL2", ActivityType: "Ki"},
			{ID: 102, TargetID: 404, CompoundChEMBLID: "CHEMBL3"},
		},
		DrugActivities: []*DrugActivity{
			{ID: 200, TargetID: 20, Drug: "dalfampridine", ActionType: "BLOCKER"},
		},
	}
}

func TestSnapshotLinkNavigations(t *testing.T) {
	snap := sampleSnapshot()
	snap.Link()

	chk2 := snap.Targets[0]
	if chk2.Protein == nil || chk2.Protein.Sym != "CHEK2" {
		t.Fatalf("expected CHEK2 protein on target, got %+v", chk2.Protein)
	}
	if snap.Proteins[0].Target != chk2 {
		t.Fatalf("expected protein back-reference to target")
	}
	if len(chk2.ChEMBLActivities) != 2 {
		t.Fatalf("expected 2 chembl activities, got %d", len(chk2.ChEMBLActivities))
	}
	if snap.ChEMBLActivities[2].Target != nil {
		t.Fatalf("dangling activity should have nil target")
	}
	if snap.Targets[2].Protein != nil {
		t.Fatalf("dangling protein reference should stay nil")
	}
	if got := len(snap.Targets[1].DrugActivities); got != 1 {
		t.Fatalf("expected 1 drug activity, got %d", got)
	}
}

func TestSnapshotLinkIsRepeatable(t *testing.T) {
	snap := sampleSnapshot()
	snap.Link()
	snap.Link()
	if got := len(snap.Targets[0].ChEMBLActivities); got != 2 {
		t.Fatalf("expected relink to keep 2 activities, got %d", got)
	}
}

func TestTargetTDLAndFamily(t *testing.T) {
	var nilTarget *Target
	if nilTarget.TDL() != "" || nilTarget.InFamily(FamilyIC) {
		t.Fatalf("nil target should have no tdl or family")
	}
	tg := &Target{TargetDevLevel: str(TDLBio), Family: str(FamilyIC)}
	if tg.TDL() != TDLBio {
		t.Fatalf("unexpected tdl %q", tg.TDL())
	}
	if !tg.InFamily(FamilyIC) || tg.InFamily("GPCR") {
		t.Fatalf("family match mismatch")
	}
	if (&Target{}).InFamily(FamilyIC) {
		t.Fatalf("target without family must not match")
	}
}
