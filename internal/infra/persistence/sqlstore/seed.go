package sqlstore

import (
	"context"

	"tcrdcore/internal/errors"
	"tcrdcore/pkg/domain"
)

// Seed inserts every record of snapshot in a single transaction. Existing
// rows are left alone; conflicting ids fail the whole seed.
func (s *Store) Seed(ctx context.Context, snapshot domain.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for _, p := range snapshot.Proteins {
		if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO protein(id,name,description,uniprot,sym,geneid,family) VALUES(?,?,?,?,?,?,?)`),
			p.ID, p.Name, emptyNil(p.Description), p.UniProt, emptyNil(p.Sym), p.GeneID, p.Family); err != nil {
			return errors.Wrapf(err, "insert protein %d", p.ID)
		}
	}
	for _, t := range snapshot.Targets {
		ttype := t.Type
		if ttype == "" {
			ttype = "Single Protein"
		}
		if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO target(id,name,ttype,tdl,fam) VALUES(?,?,?,?,?)`),
			t.ID, t.Name, ttype, t.TargetDevLevel, t.Family); err != nil {
			return errors.Wrapf(err, "insert target %d", t.ID)
		}
		if t.ProteinID == 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO t2tc(target_id,protein_id) VALUES(?,?)`), t.ID, t.ProteinID); err != nil {
			return errors.Wrapf(err, "insert t2tc %d", t.ID)
		}
	}
	for _, a := range snapshot.ChEMBLActivities {
		if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO chembl_activity(id,target_id,cmpd_chemblid,cmpd_name_in_ref,act_value,act_type,reference) VALUES(?,?,?,?,?,?,?)`),
			a.ID, a.TargetID, a.CompoundChEMBLID, emptyNil(a.CompoundNameInRef), a.ActivityValue, a.ActivityType, emptyNil(a.Reference)); err != nil {
			return errors.Wrapf(err, "insert chembl_activity %d", a.ID)
		}
	}
	for _, a := range snapshot.DrugActivities {
		if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO drug_activity(id,target_id,drug,act_value,act_type,action_type,has_moa,source,nlm_drug_info) VALUES(?,?,?,?,?,?,?,?,?)`),
			a.ID, a.TargetID, a.Drug, a.ActivityValue, emptyNil(a.ActivityType), emptyNil(a.ActionType), a.HasMOA, emptyNil(a.Source), emptyNil(a.NLMDrugInfo)); err != nil {
			return errors.Wrapf(err, "insert drug_activity %d", a.ID)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	committed = true
	return nil
}

func emptyNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
