package sqlbundle

import (
	"strings"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	stmts := SplitStatements(SQLite())
	if len(stmts) != 9 {
		t.Fatalf("expected 9 sqlite statements, got %d", len(stmts))
	}
	for _, stmt := range stmts {
		if strings.HasPrefix(strings.TrimSpace(stmt), "--") {
			t.Fatalf("statement unexpectedly starts with comment: %q", stmt)
		}
		if !strings.HasSuffix(strings.TrimSpace(stmt), ";") {
			t.Fatalf("statement missing semicolon terminator: %q", stmt)
		}
	}
}

func TestPostgresBundle(t *testing.T) {
	pg := Postgres()
	for _, table := range []string{"protein", "target", "t2tc", "chembl_activity", "drug_activity"} {
		if !strings.Contains(pg, "CREATE TABLE IF NOT EXISTS "+table+" ") {
			t.Fatalf("expected postgres DDL to create %s", table)
		}
	}
	if strings.Contains(pg, " REAL") {
		t.Fatal("postgres DDL should use DOUBLE PRECISION")
	}
	if got, want := len(SplitStatements(pg)), len(SplitStatements(SQLite())); got != want {
		t.Fatalf("dialects diverge: %d vs %d statements", got, want)
	}
}

func TestSplitStatementsKeepsUnterminatedTail(t *testing.T) {
	stmts := SplitStatements("-- c\nCREATE TABLE a (x INT);\n\nSELECT 1")
	if len(stmts) != 2 || stmts[1] != "SELECT 1" {
		t.Fatalf("unexpected split %q", stmts)
	}
}
