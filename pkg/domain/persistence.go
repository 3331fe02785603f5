package domain

import "context"

// Store is the query capability reports depend on. It mirrors the two access
// shapes of the target database: fetch every record of a type, and fetch
// exactly one record matching an equality predicate on a named field.
//
// Find* methods return an error wrapping errors.ErrNoResult when nothing
// matches and errors.ErrNonUniqueResult when more than one row matches; they
// never return a nil record with a nil error. Unknown fields yield
// errors.ErrInvalidField.
//
// Records returned by List* and Find* have their navigation pointers
// populated (target <-> protein, target -> activities, activity -> target).
type Store interface {
	ListProteins(ctx context.Context) ([]*Protein, error)
	ListTargets(ctx context.Context) ([]*Target, error)
	ListChEMBLActivities(ctx context.Context) ([]*ChEMBLActivity, error)
	ListDrugActivities(ctx context.Context) ([]*DrugActivity, error)
	FindProteinBy(ctx context.Context, field string, value any) (*Protein, error)
	FindTargetBy(ctx context.Context, field string, value any) (*Target, error)
	Close() error
}

// Seeder is implemented by stores that can be loaded from a snapshot. Used by
// the seed command and tests; reports never write.
type Seeder interface {
	Seed(ctx context.Context, snapshot Snapshot) error
}

// Queryable fields per entity, keyed by predicate name with the backing
// column as value. Backends must reject anything else.
var (
	ProteinFields = map[string]string{
		"id":      "id",
		"name":    "name",
		"uniprot": "uniprot",
		"sym":     "sym",
	}
	TargetFields = map[string]string{
		"id":         "id",
		"name":       "name",
		"tdl":        "tdl",
		"fam":        "fam",
		"protein_id": "protein_id",
	}
)
