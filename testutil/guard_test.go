package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestInternalImportForbiddenPredicate(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"tcrdcore/internal/xref", true},
		{"tcrdcore/pkg/domain", false},
	}
	for _, c := range cases {
		if got := InternalImportForbidden(c.in); got != c.want {
			t.Fatalf("InternalImportForbidden(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestInfraAndThirdPartyPredicates(t *testing.T) {
	if !InfraImportForbidden("tcrdcore/internal/infra/persistence/sqlite") {
		t.Fatalf("expected sqlite backend to match")
	}
	if InfraImportForbidden("tcrdcore/internal/blob") {
		t.Fatalf("blob facade must not match")
	}
	if !ThirdPartyImportForbidden("github.com/jackc/pgx/v5/stdlib") || !ThirdPartyImportForbidden("gopkg.in/yaml.v3") {
		t.Fatalf("expected third-party paths to match")
	}
	if ThirdPartyImportForbidden("database/sql") || ThirdPartyImportForbidden("tcrdcore/pkg/domain") {
		t.Fatalf("stdlib and module paths must not match")
	}
	combined := AnyOf(InternalImportForbidden, ThirdPartyImportForbidden)
	if !combined("go.uber.org/zap") || combined("math") {
		t.Fatalf("unexpected AnyOf result")
	}
}

type recordingFatal struct{ msg string }

func (r *recordingFatal) Fatalf(format string, args ...any) { r.msg = fmt.Sprintf(format, args...) }

func TestDirectImportViolations(t *testing.T) {
	dir := t.TempDir()
	src := "package x\n\nimport (\n\t\"fmt\"\n\t\"tcrdcore/internal/infra/blob/s3\"\n)\n\nvar _ = fmt.Sprint\nvar _ = s3.New\n"
	if err := os.WriteFile(filepath.Join(dir, "x.go"), []byte(src), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "x_test.go"), []byte("package x\n\nimport \"tcrdcore/internal/infra/persistence/memory\"\n"), 0o600); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	viols, err := directImportViolations(dir, InfraImportForbidden)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 1 || viols[0] != "tcrdcore/internal/infra/blob/s3 (in x.go)" {
		t.Fatalf("unexpected violations %v", viols)
	}

	rec := &recordingFatal{}
	failIfDirectViolations(rec, "backends stay behind facades", viols)
	if rec.msg == "" {
		t.Fatalf("expected failure message")
	}
	rec = &recordingFatal{}
	failIfDirectViolations(rec, "none", nil)
	if rec.msg != "" {
		t.Fatalf("unexpected failure %q", rec.msg)
	}
}

func TestDirectImportViolationsMissingDir(t *testing.T) {
	if _, err := directImportViolations(filepath.Join(t.TempDir(), "absent"), InfraImportForbidden); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
