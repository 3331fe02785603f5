// Package domain defines the read-only drug-target entities (proteins,
// targets, bioactivities) and the query capability tcrdcore reports over.
package domain

// EntityType identifies the type of record read from the target store.
type EntityType string

// Supported entity type identifiers used in lookups and error messages.
const (
	// EntityProtein identifies a protein record.
	EntityProtein EntityType = "protein"
	// EntityTarget identifies a target record.
	EntityTarget EntityType = "target"
	// EntityChEMBLActivity identifies a ChEMBL bioactivity measurement.
	EntityChEMBLActivity EntityType = "chembl_activity"
	// EntityDrugActivity identifies a drug bioactivity measurement.
	EntityDrugActivity EntityType = "drug_activity"
)

// Target development levels. Tdark is the least characterized.
const (
	TDLDark  = "Tdark"
	TDLBio   = "Tbio"
	TDLChem  = "Tchem"
	TDLClin  = "Tclin"
	FamilyIC = "IC" // ion channel
)

// LowestConfidence is the target development level reports single out.
const LowestConfidence = TDLDark

// Protein is a single UniProt entry.
type Protein struct {
	ID          int64   `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	UniProt     string  `json:"uniprot" yaml:"uniprot"`
	Sym         string  `json:"sym,omitempty" yaml:"sym,omitempty"`
	GeneID      *int64  `json:"geneid,omitempty" yaml:"geneid,omitempty"`
	Family      *string `json:"family,omitempty" yaml:"family,omitempty"`

	Target *Target `json:"-" yaml:"-"`
}

// Target is a drug target with its development level and family.
type Target struct {
	ID             int64   `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	Type           string  `json:"ttype,omitempty" yaml:"ttype,omitempty"`
	TargetDevLevel *string `json:"tdl,omitempty" yaml:"tdl,omitempty"`
	Family         *string `json:"fam,omitempty" yaml:"fam,omitempty"`
	ProteinID      int64   `json:"protein_id" yaml:"protein_id"`

	Protein          *Protein          `json:"-" yaml:"-"`
	ChEMBLActivities []*ChEMBLActivity `json:"-" yaml:"-"`
	DrugActivities   []*DrugActivity   `json:"-" yaml:"-"`
}

// ChEMBLActivity is a compound bioactivity sourced from ChEMBL.
// ActivityValue is on a negative log scale (pChEMBL style).
type ChEMBLActivity struct {
	ID                int64    `json:"id" yaml:"id"`
	TargetID          int64    `json:"target_id" yaml:"target_id"`
	CompoundChEMBLID  string   `json:"cmpd_chemblid" yaml:"cmpd_chemblid"`
	CompoundNameInRef string   `json:"cmpd_name_in_ref,omitempty" yaml:"cmpd_name_in_ref,omitempty"`
	ActivityType      string   `json:"act_type" yaml:"act_type"`
	ActivityValue     *float64 `json:"act_value,omitempty" yaml:"act_value,omitempty"`
	Reference         string   `json:"reference,omitempty" yaml:"reference,omitempty"`

	Target *Target `json:"-" yaml:"-"`
}

// Binding converts the stored activity value to a linear binding estimate.
func (a *ChEMBLActivity) Binding() *float64 { return Binding(a.ActivityValue) }

// DrugActivity is a curated drug-target interaction.
type DrugActivity struct {
	ID            int64    `json:"id" yaml:"id"`
	TargetID      int64    `json:"target_id" yaml:"target_id"`
	Drug          string   `json:"drug" yaml:"drug"`
	ActionType    string   `json:"action_type,omitempty" yaml:"action_type,omitempty"`
	ActivityType  string   `json:"act_type,omitempty" yaml:"act_type,omitempty"`
	ActivityValue *float64 `json:"act_value,omitempty" yaml:"act_value,omitempty"`
	HasMOA        bool     `json:"has_moa" yaml:"has_moa"`
	Source        string   `json:"source,omitempty" yaml:"source,omitempty"`
	NLMDrugInfo   string   `json:"nlm_drug_info,omitempty" yaml:"nlm_drug_info,omitempty"`

	Target *Target `json:"-" yaml:"-"`
}

// Binding converts the stored activity value to a linear binding estimate.
func (a *DrugActivity) Binding() *float64 { return Binding(a.ActivityValue) }

// Snapshot is the full content of a target store, used for fixtures, the
// in-memory store and seeding SQL backends.
type Snapshot struct {
	Proteins         []*Protein        `json:"proteins" yaml:"proteins"`
	Targets          []*Target         `json:"targets" yaml:"targets"`
	ChEMBLActivities []*ChEMBLActivity `json:"chembl_activities" yaml:"chembl_activities"`
	DrugActivities   []*DrugActivity   `json:"drug_activities" yaml:"drug_activities"`
}

// Link populates the navigation pointers between records of the snapshot
// using their foreign keys. Dangling references are left nil. Link resets
// activity slices first so it can be called more than once.
func (s *Snapshot) Link() {
	proteins := make(map[int64]*Protein, len(s.Proteins))
	for _, p := range s.Proteins {
		p.Target = nil
		proteins[p.ID] = p
	}
	targets := make(map[int64]*Target, len(s.Targets))
	for _, t := range s.Targets {
		t.ChEMBLActivities = nil
		t.DrugActivities = nil
		t.Protein = proteins[t.ProteinID]
		if t.Protein != nil {
			t.Protein.Target = t
		}
		targets[t.ID] = t
	}
	for _, a := range s.ChEMBLActivities {
		a.Target = targets[a.TargetID]
		if a.Target != nil {
			a.Target.ChEMBLActivities = append(a.Target.ChEMBLActivities, a)
		}
	}
	for _, a := range s.DrugActivities {
		a.Target = targets[a.TargetID]
		if a.Target != nil {
			a.Target.DrugActivities = append(a.Target.DrugActivities, a)
		}
	}
}

// TDL returns the target development level, or "" when unset.
func (t *Target) TDL() string {
	if t == nil || t.TargetDevLevel == nil {
		return ""
	}
	return *t.TargetDevLevel
}

// InFamily reports whether the target's family equals fam. Targets without a
// family never match.
func (t *Target) InFamily(fam string) bool {
	return t != nil && t.Family != nil && *t.Family == fam
}
