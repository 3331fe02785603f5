// Package sqlstore implements domain.Store over database/sql. The sqlite and
// postgres packages wrap it with driver-specific connection handling.
package sqlstore

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"tcrdcore/internal/errors"
	"tcrdcore/pkg/domain"
)

// Dialect selects the placeholder syntax of the target database.
type Dialect int

const (
	// DialectSQLite uses '?' placeholders.
	DialectSQLite Dialect = iota
	// DialectPostgres uses '$n' placeholders.
	DialectPostgres
)

// Compile-time contract assertions.
var (
	_ domain.Store  = (*Store)(nil)
	_ domain.Seeder = (*Store)(nil)
)

const (
	proteinQuery = `SELECT p.id, p.name, p.description, p.uniprot, p.sym, p.geneid, p.family FROM protein p`
	// A target maps to its lowest protein id when t2tc holds several rows.
	targetQuery = `SELECT t.id, t.name, t.ttype, t.tdl, t.fam, COALESCE(x.protein_id, 0) FROM target t ` +
		`LEFT JOIN (SELECT target_id, MIN(protein_id) AS protein_id FROM t2tc GROUP BY target_id) x ON x.target_id = t.id`
	chemblQuery = `SELECT a.id, a.target_id, a.cmpd_chemblid, a.cmpd_name_in_ref, a.act_value, a.act_type, a.reference FROM chembl_activity a`
	drugQuery   = `SELECT a.id, a.target_id, a.drug, a.act_value, a.act_type, a.action_type, a.has_moa, a.source, a.nlm_drug_info FROM drug_activity a`
)

// Store reads TCRD tables through a *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New wraps db. The caller keeps ownership of schema setup.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Execer is the subset of *sql.DB / *sql.Tx used to apply DDL.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ApplyDDL executes each statement of a split DDL bundle in order.
func ApplyDDL(ctx context.Context, db Execer, stmts []string) error {
	for _, stmt := range stmts {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "execute ddl")
		}
	}
	return nil
}

// rebind rewrites '?' placeholders for the store dialect.
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) ListProteins(ctx context.Context) ([]*domain.Protein, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Proteins, nil
}

func (s *Store) ListTargets(ctx context.Context) ([]*domain.Target, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Targets, nil
}

func (s *Store) ListChEMBLActivities(ctx context.Context) ([]*domain.ChEMBLActivity, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.ChEMBLActivities, nil
}

func (s *Store) ListDrugActivities(ctx context.Context) ([]*domain.DrugActivity, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.DrugActivities, nil
}

// snapshot loads every table and links the navigations.
func (s *Store) snapshot(ctx context.Context) (domain.Snapshot, error) {
	var (
		snap domain.Snapshot
		err  error
	)
	if snap.Proteins, err = s.queryProteins(ctx, proteinQuery); err != nil {
		return domain.Snapshot{}, err
	}
	if snap.Targets, err = s.queryTargets(ctx, targetQuery); err != nil {
		return domain.Snapshot{}, err
	}
	if snap.ChEMBLActivities, err = s.queryChEMBL(ctx, chemblQuery); err != nil {
		return domain.Snapshot{}, err
	}
	if snap.DrugActivities, err = s.queryDrug(ctx, drugQuery); err != nil {
		return domain.Snapshot{}, err
	}
	snap.Link()
	return snap, nil
}

// FindProteinBy returns the single protein whose field equals value, with
// its target and the target's activities attached.
func (s *Store) FindProteinBy(ctx context.Context, field string, value any) (*domain.Protein, error) {
	col, ok := domain.ProteinFields[field]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidField, "%s.%s", domain.EntityProtein, field)
	}
	rows, err := s.queryProteins(ctx, proteinQuery+" WHERE p."+col+" = ? LIMIT 2", value)
	if err != nil {
		return nil, err
	}
	p, err := single(rows, domain.EntityProtein, field, value)
	if err != nil {
		return nil, err
	}
	targets, err := s.queryTargets(ctx, targetQuery+" WHERE t.id IN (SELECT target_id FROM t2tc WHERE protein_id = ?)", p.ID)
	if err != nil {
		return nil, err
	}
	snap := domain.Snapshot{Proteins: []*domain.Protein{p}}
	for _, t := range targets {
		// t2tc may list this protein second; keep the navigation pointing here.
		t.ProteinID = p.ID
		if err := s.attach(ctx, &snap, t); err != nil {
			return nil, err
		}
	}
	snap.Link()
	return p, nil
}

// FindTargetBy returns the single target whose field equals value, with its
// protein and activities attached.
func (s *Store) FindTargetBy(ctx context.Context, field string, value any) (*domain.Target, error) {
	col, ok := domain.TargetFields[field]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidField, "%s.%s", domain.EntityTarget, field)
	}
	qualified := "t." + col
	if col == "protein_id" {
		qualified = "x.protein_id"
	}
	rows, err := s.queryTargets(ctx, targetQuery+" WHERE "+qualified+" = ? LIMIT 2", value)
	if err != nil {
		return nil, err
	}
	t, err := single(rows, domain.EntityTarget, field, value)
	if err != nil {
		return nil, err
	}
	snap := domain.Snapshot{}
	if t.ProteinID != 0 {
		proteins, err := s.queryProteins(ctx, proteinQuery+" WHERE p.id = ?", t.ProteinID)
		if err != nil {
			return nil, err
		}
		snap.Proteins = proteins
	}
	if err := s.attach(ctx, &snap, t); err != nil {
		return nil, err
	}
	snap.Link()
	return t, nil
}

func (s *Store) attach(ctx context.Context, snap *domain.Snapshot, t *domain.Target) error {
	chembl, err := s.queryChEMBL(ctx, chemblQuery+" WHERE a.target_id = ?", t.ID)
	if err != nil {
		return err
	}
	drug, err := s.queryDrug(ctx, drugQuery+" WHERE a.target_id = ?", t.ID)
	if err != nil {
		return err
	}
	snap.Targets = append(snap.Targets, t)
	snap.ChEMBLActivities = append(snap.ChEMBLActivities, chembl...)
	snap.DrugActivities = append(snap.DrugActivities, drug...)
	return nil
}

func single[T any](rows []*T, entity domain.EntityType, field string, value any) (*T, error) {
	switch len(rows) {
	case 0:
		return nil, errors.NoResultf("%s %s=%v", entity, field, value)
	case 1:
		return rows[0], nil
	default:
		return nil, errors.NonUniquef("%s %s=%v", entity, field, value)
	}
}

func (s *Store) queryProteins(ctx context.Context, query string, args ...any) ([]*domain.Protein, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, errors.Wrap(err, "select protein")
	}
	defer func() { _ = rows.Close() }()
	var out []*domain.Protein
	for rows.Next() {
		var p domain.Protein
		var desc, sym, family sql.NullString
		var geneID sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Name, &desc, &p.UniProt, &sym, &geneID, &family); err != nil {
			return nil, errors.Wrap(err, "scan protein")
		}
		p.Description, p.Sym = desc.String, sym.String
		p.GeneID = nullInt(geneID)
		p.Family = nullString(family)
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate protein")
	}
	return out, nil
}

func (s *Store) queryTargets(ctx context.Context, query string, args ...any) ([]*domain.Target, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, errors.Wrap(err, "select target")
	}
	defer func() { _ = rows.Close() }()
	var out []*domain.Target
	for rows.Next() {
		var t domain.Target
		var ttype, tdl, fam sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &ttype, &tdl, &fam, &t.ProteinID); err != nil {
			return nil, errors.Wrap(err, "scan target")
		}
		t.Type = ttype.String
		t.TargetDevLevel = nullString(tdl)
		t.Family = nullString(fam)
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate target")
	}
	return out, nil
}

func (s *Store) queryChEMBL(ctx context.Context, query string, args ...any) ([]*domain.ChEMBLActivity, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, errors.Wrap(err, "select chembl_activity")
	}
	defer func() { _ = rows.Close() }()
	var out []*domain.ChEMBLActivity
	for rows.Next() {
		var a domain.ChEMBLActivity
		var name, ref sql.NullString
		var value sql.NullFloat64
		if err := rows.Scan(&a.ID, &a.TargetID, &a.CompoundChEMBLID, &name, &value, &a.ActivityType, &ref); err != nil {
			return nil, errors.Wrap(err, "scan chembl_activity")
		}
		a.CompoundNameInRef, a.Reference = name.String, ref.String
		a.ActivityValue = nullFloat(value)
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate chembl_activity")
	}
	return out, nil
}

func (s *Store) queryDrug(ctx context.Context, query string, args ...any) ([]*domain.DrugActivity, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, errors.Wrap(err, "select drug_activity")
	}
	defer func() { _ = rows.Close() }()
	var out []*domain.DrugActivity
	for rows.Next() {
		var a domain.DrugActivity
		var actType, action, source, info sql.NullString
		var value sql.NullFloat64
		if err := rows.Scan(&a.ID, &a.TargetID, &a.Drug, &value, &actType, &action, &a.HasMOA, &source, &info); err != nil {
			return nil, errors.Wrap(err, "scan drug_activity")
		}
		a.ActivityType, a.ActionType = actType.String, action.String
		a.Source, a.NLMDrugInfo = source.String, info.String
		a.ActivityValue = nullFloat(value)
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate drug_activity")
	}
	return out, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	i := v.Int64
	return &i
}
