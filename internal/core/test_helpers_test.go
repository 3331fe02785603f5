package core

import (
	"bytes"
	"context"
	"testing"
	"time"

	"tcrdcore/internal/blob"
	"tcrdcore/internal/infra/persistence/memory"
	"tcrdcore/pkg/domain"
)

const familyFile = `# family	records
FAM1	9606:Q14524	7955:F1QXA1	7955:F1QXA2
FAM2	9606:Q7Z418	7955:E7F4K9
FAM3	9606:O96017
FAM4	7955:A0A0R4I9Y1	10090:P00000
`

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func testSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Proteins: []*domain.Protein{
			{ID: 1, Name: "CHK2_HUMAN", UniProt: "O96017", Sym: "CHEK2"},
			{ID: 2, Name: "SCN5A_HUMAN", UniProt: "Q14524", Sym: "SCN5A"},
			{ID: 3, Name: "KCNK18_HUMAN", UniProt: "Q7Z418", Sym: "KCNK18"},
			{ID: 4, Name: "KCNT2_HUMAN", UniProt: "Q6UVM3", Sym: "KCNT2"},
			{ID: 5, Name: "GPR1_HUMAN", UniProt: "P46091", Sym: "GPR1"},
		},
		Targets: []*domain.Target{
			{ID: 10, Name: "Chk2", TargetDevLevel: strPtr(domain.TDLChem), Family: strPtr("Kinase"), ProteinID: 1},
			{ID: 20, Name: "SCN5A", TargetDevLevel: strPtr(domain.TDLClin), Family: strPtr(domain.FamilyIC), ProteinID: 2},
			{ID: 30, Name: "KCNK18", TargetDevLevel: strPtr(domain.TDLDark), Family: strPtr(domain.FamilyIC), ProteinID: 3},
			{ID: 40, Name: "KCNT2", TargetDevLevel: strPtr(domain.TDLDark), Family: strPtr(domain.FamilyIC), ProteinID: 4},
			{ID: 50, Name: "GPR1", Family: strPtr("GPCR"), ProteinID: 5},
		},
		ChEMBLActivities: []*domain.ChEMBLActivity{
			{ID: 101, TargetID: 10, CompoundChEMBLID: "CHEMBL2", CompoundNameInRef: "cmpd-b", ActivityType: "Ki"},
			{ID: 100, TargetID: 10, CompoundChEMBLID: "CHEMBL1", CompoundNameInRef: "cmpd-a", ActivityType: "IC50", ActivityValue: floatPtr(5)},
		},
		DrugActivities: []*domain.DrugActivity{
			{ID: 200, TargetID: 10, Drug: "prexasertib", ActionType: "INHIBITOR", ActivityType: "IC50", ActivityValue: floatPtr(8), HasMOA: true},
		},
	}
}

func newTestService(t *testing.T, opts ...ServiceOption) *Service {
	t.Helper()
	store, err := memory.NewStoreFromSnapshot(testSnapshot())
	if err != nil {
		t.Fatalf("seed memory store: %v", err)
	}
	families := blob.NewMemory()
	if _, err := families.Put(context.Background(), DefaultFamilyKey, bytes.NewBufferString(familyFile), blob.PutOptions{ContentType: "text/plain"}); err != nil {
		t.Fatalf("put family file: %v", err)
	}
	return NewService(store, families, opts...)
}

type metricsCall struct {
	op       string
	success  bool
	duration time.Duration
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, duration time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success, duration: duration})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type spanRecord struct {
	op  string
	err error
}

type captureTracer struct {
	ended []spanRecord
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	return ctx, &captureSpan{tracer: c, op: op}
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
}
