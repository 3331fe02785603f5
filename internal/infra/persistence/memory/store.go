// Package memory provides an in-memory implementation of the target store
// used for tests and fixture-driven runs.
package memory

import (
	"context"
	"io"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"tcrdcore/internal/errors"
	"tcrdcore/pkg/domain"
)

// Compile-time contract assertions ensuring memory.Store adheres to the domain persistence interfaces.
var (
	_ domain.Store  = (*Store)(nil)
	_ domain.Seeder = (*Store)(nil)
)

type memoryState struct {
	proteins map[int64]domain.Protein
	targets  map[int64]domain.Target
	chembl   map[int64]domain.ChEMBLActivity
	drug     map[int64]domain.DrugActivity
}

func newMemoryState() memoryState {
	return memoryState{
		proteins: make(map[int64]domain.Protein),
		targets:  make(map[int64]domain.Target),
		chembl:   make(map[int64]domain.ChEMBLActivity),
		drug:     make(map[int64]domain.DrugActivity),
	}
}

// Store keeps records by value and hands out freshly linked copies, so
// callers may mutate what they receive without affecting the store.
type Store struct {
	mu    sync.RWMutex
	state memoryState
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{state: newMemoryState()}
}

// NewStoreFromSnapshot returns a store preloaded with snapshot.
func NewStoreFromSnapshot(snapshot domain.Snapshot) (*Store, error) {
	s := NewStore()
	if err := s.Seed(context.Background(), snapshot); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFixture decodes a YAML snapshot. Unknown keys are rejected.
func LoadFixture(r io.Reader) (domain.Snapshot, error) {
	var snap domain.Snapshot
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&snap); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Snapshot{}, nil
		}
		return domain.Snapshot{}, errors.MarkIO(err, "decode fixture")
	}
	return snap, nil
}

// Seed adds every record of snapshot. A record whose id is already present
// fails the whole seed and leaves the store untouched.
func (s *Store) Seed(_ context.Context, snapshot domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cloneState()
	for _, p := range snapshot.Proteins {
		if _, ok := next.proteins[p.ID]; ok {
			return errors.Newf("protein %d already exists", p.ID)
		}
		rec := *p
		rec.Target = nil
		next.proteins[p.ID] = rec
	}
	for _, t := range snapshot.Targets {
		if _, ok := next.targets[t.ID]; ok {
			return errors.Newf("target %d already exists", t.ID)
		}
		rec := *t
		rec.Protein, rec.ChEMBLActivities, rec.DrugActivities = nil, nil, nil
		next.targets[t.ID] = rec
	}
	for _, a := range snapshot.ChEMBLActivities {
		if _, ok := next.chembl[a.ID]; ok {
			return errors.Newf("chembl_activity %d already exists", a.ID)
		}
		rec := *a
		rec.Target = nil
		next.chembl[a.ID] = rec
	}
	for _, a := range snapshot.DrugActivities {
		if _, ok := next.drug[a.ID]; ok {
			return errors.Newf("drug_activity %d already exists", a.ID)
		}
		rec := *a
		rec.Target = nil
		next.drug[a.ID] = rec
	}
	s.state = next
	return nil
}

func (s *Store) cloneState() memoryState {
	next := newMemoryState()
	for k, v := range s.state.proteins {
		next.proteins[k] = v
	}
	for k, v := range s.state.targets {
		next.targets[k] = v
	}
	for k, v := range s.state.chembl {
		next.chembl[k] = v
	}
	for k, v := range s.state.drug {
		next.drug[k] = v
	}
	return next
}

// snapshot materializes a linked copy of the whole store ordered by id.
func (s *Store) snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var snap domain.Snapshot
	for _, id := range sortedKeys(s.state.proteins) {
		p := s.state.proteins[id]
		snap.Proteins = append(snap.Proteins, &p)
	}
	for _, id := range sortedKeys(s.state.targets) {
		t := s.state.targets[id]
		snap.Targets = append(snap.Targets, &t)
	}
	for _, id := range sortedKeys(s.state.chembl) {
		a := s.state.chembl[id]
		snap.ChEMBLActivities = append(snap.ChEMBLActivities, &a)
	}
	for _, id := range sortedKeys(s.state.drug) {
		a := s.state.drug[id]
		snap.DrugActivities = append(snap.DrugActivities, &a)
	}
	snap.Link()
	return snap
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (s *Store) ListProteins(context.Context) ([]*domain.Protein, error) {
	return s.snapshot().Proteins, nil
}

func (s *Store) ListTargets(context.Context) ([]*domain.Target, error) {
	return s.snapshot().Targets, nil
}

func (s *Store) ListChEMBLActivities(context.Context) ([]*domain.ChEMBLActivity, error) {
	return s.snapshot().ChEMBLActivities, nil
}

func (s *Store) ListDrugActivities(context.Context) ([]*domain.DrugActivity, error) {
	return s.snapshot().DrugActivities, nil
}

func (s *Store) FindProteinBy(_ context.Context, field string, value any) (*domain.Protein, error) {
	if _, ok := domain.ProteinFields[field]; !ok {
		return nil, errors.Wrapf(errors.ErrInvalidField, "%s.%s", domain.EntityProtein, field)
	}
	var matches []*domain.Protein
	for _, p := range s.snapshot().Proteins {
		if matchField(proteinField(p, field), value) {
			matches = append(matches, p)
		}
	}
	return single(matches, domain.EntityProtein, field, value)
}

func (s *Store) FindTargetBy(_ context.Context, field string, value any) (*domain.Target, error) {
	if _, ok := domain.TargetFields[field]; !ok {
		return nil, errors.Wrapf(errors.ErrInvalidField, "%s.%s", domain.EntityTarget, field)
	}
	var matches []*domain.Target
	for _, t := range s.snapshot().Targets {
		if matchField(targetField(t, field), value) {
			matches = append(matches, t)
		}
	}
	return single(matches, domain.EntityTarget, field, value)
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

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

func proteinField(p *domain.Protein, field string) any {
	switch field {
	case "id":
		return p.ID
	case "name":
		return p.Name
	case "uniprot":
		return p.UniProt
	case "sym":
		if p.Sym == "" {
			return nil
		}
		return p.Sym
	}
	return nil
}

func targetField(t *domain.Target, field string) any {
	switch field {
	case "id":
		return t.ID
	case "name":
		return t.Name
	case "tdl":
		if t.TargetDevLevel == nil {
			return nil
		}
		return *t.TargetDevLevel
	case "fam":
		if t.Family == nil {
			return nil
		}
		return *t.Family
	case "protein_id":
		return t.ProteinID
	}
	return nil
}

// matchField compares with SQL equality: null never matches and integer
// kinds compare by value.
func matchField(have, want any) bool {
	if have == nil || want == nil {
		return false
	}
	if h, ok := have.(int64); ok {
		w, ok := asInt64(want)
		return ok && h == w
	}
	return have == want
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint32:
		return int64(n), true
	}
	return 0, false
}
