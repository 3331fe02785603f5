package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcrdcore/internal/errors"
)

const fixture = `proteins:
  - {id: 1, name: CHK2_HUMAN, uniprot: O96017, sym: CHEK2}
  - {id: 2, name: SCN5A_HUMAN, uniprot: Q14524, sym: SCN5A}
  - {id: 3, name: KCNK18_HUMAN, uniprot: Q7Z418, sym: KCNK18}
targets:
  - {id: 10, name: Chk2, tdl: Tchem, fam: Kinase, protein_id: 1}
  - {id: 20, name: SCN5A channel, tdl: Tclin, fam: IC, protein_id: 2}
  - {id: 30, name: KCNK18 channel, tdl: Tdark, fam: IC, protein_id: 3}
chembl_activities:
  - {id: 100, target_id: 10, cmpd_chemblid: CHEMBL1, cmpd_name_in_ref: cmpd-a, act_type: IC50, act_value: 5}
drug_activities:
  - {id: 200, target_id: 10, drug: prexasertib, action_type: INHIBITOR, act_type: IC50, act_value: 8, has_moa: true}
`

const families = "FAM1\t9606:Q14524\t7955:F1QXA1\nFAM2\t9606:O96017\n"

// env points every run at files under a fresh temp dir.
func env(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	fixturePath := filepath.Join(dir, "fixture.yaml")
	require.NoError(t, os.WriteFile(fixturePath, []byte(fixture), 0o600))
	blobRoot := filepath.Join(dir, "blobs")
	require.NoError(t, os.MkdirAll(blobRoot, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(blobRoot, "ProteinFamilies_Zebrafish.txt"), []byte(families), 0o600))

	t.Setenv("TCRD_STORAGE_DRIVER", "memory")
	t.Setenv("TCRD_STORAGE_FIXTURE", fixturePath)
	t.Setenv("TCRD_BLOB_DRIVER", "fs")
	t.Setenv("TCRD_BLOB_FS_ROOT", blobRoot)
	t.Setenv("TCRD_LOG_LEVEL", "error")
	return dir
}

func runArgs(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestChannelsCommand(t *testing.T) {
	env(t)
	out, _, err := runArgs(t, "channels")
	require.NoError(t, err)
	assert.Contains(t, out, "Total channels: 2\n")
	assert.Contains(t, out, "SCN5A channel\tQ14524\tSCN5A\tTclin\tF1QXA1\n")
	assert.Contains(t, out, "KCNK18 channel\tQ7Z418\tKCNK18\tTdark\tNA\n")
	assert.Contains(t, out, "Dark channels: 1\n")
}

func TestChannelsMissingFamilyFile(t *testing.T) {
	env(t)
	_, _, err := runArgs(t, "channels", "--key", "absent.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrIO))
}

func TestProteinCommand(t *testing.T) {
	env(t)
	out, _, err := runArgs(t, "protein", "CHEK2")
	require.NoError(t, err)
	assert.Contains(t, out, "cmpd-a\tIC50\t5\t1e-05\n")
	assert.Contains(t, out, "prexasertib\tINHIBITOR\tIC50\t8\t1e-08\n")

	_, _, err = runArgs(t, "protein", "TP53")
	assert.True(t, errors.Is(err, errors.ErrNoResult))

	_, _, err = runArgs(t, "protein")
	assert.Error(t, err)
}

func TestSummaryCommandTable(t *testing.T) {
	env(t)
	out, _, err := runArgs(t, "summary", "--table")
	require.NoError(t, err)
	assert.Contains(t, out, "chembl_activity")
	assert.Contains(t, out, "One of drug activities: prexasertib, INHIBITOR, 8\n")
}

func TestXrefCommand(t *testing.T) {
	env(t)
	out, _, err := runArgs(t, "xref", "--taxon", "7955")
	require.NoError(t, err)
	assert.Contains(t, out, "Size of 7955 to human: 1\n")
	assert.Contains(t, out, "Q14524\tF1QXA1\n")
}

func TestSeedIntoSQLite(t *testing.T) {
	dir := env(t)
	t.Setenv("TCRD_STORAGE_DRIVER", "sqlite")
	t.Setenv("TCRD_STORAGE_SQLITE_PATH", filepath.Join(dir, "tcrd.db"))

	out, _, err := runArgs(t, "seed", filepath.Join(dir, "fixture.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 3 proteins, 3 targets, 1 ChEMBL activities, 1 drug activities")

	out, _, err = runArgs(t, "protein", "SCN5A")
	require.NoError(t, err)
	assert.Contains(t, out, "Gene: SCN5A (Q14524), target: SCN5A channel, Tclin")
}

func TestFamiliesPutAndList(t *testing.T) {
	dir := env(t)
	src := filepath.Join(dir, "mouse.txt")
	require.NoError(t, os.WriteFile(src, []byte("FAM1\t9606:Q14524\t10090:Q9JJV9\n"), 0o600))

	out, _, err := runArgs(t, "families", "put", src, "--key", "mouse/families.txt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "mouse/families.txt\t"))

	out, _, err = runArgs(t, "families", "ls", "mouse/")
	require.NoError(t, err)
	assert.Contains(t, out, "Key\tSize\tModified\n")
	assert.Contains(t, out, "mouse/families.txt\t")
	assert.NotContains(t, out, "ProteinFamilies_Zebrafish.txt")

	out, _, err = runArgs(t, "xref", "--key", "mouse/families.txt", "--taxon", "10090")
	require.NoError(t, err)
	assert.Contains(t, out, "Q14524\tQ9JJV9\n")

	_, _, err = runArgs(t, "families", "put", src, "--key", "mouse/families.txt")
	assert.Error(t, err)
}

func TestMetricsAndTraceOutput(t *testing.T) {
	dir := env(t)
	textfile := filepath.Join(dir, "tcrd.prom")
	traceFile := filepath.Join(dir, "trace.jsonl")
	t.Setenv("TCRD_METRICS_DRIVER", "prometheus")
	t.Setenv("TCRD_METRICS_TEXTFILE", textfile)
	t.Setenv("TCRD_TRACE_FILE", traceFile)

	_, _, err := runArgs(t, "protein", "TP53")
	require.Error(t, err)

	body, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(body), `tcrd_report_runs_total{operation="protein_activity_report",status="error"} 1`)

	trace, err := os.ReadFile(traceFile)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(trace), &entry))
	assert.Equal(t, "protein_activity_report", entry["operation"])
	assert.Equal(t, "error", entry["status"])
}

func TestUnknownDrivers(t *testing.T) {
	env(t)
	t.Setenv("TCRD_METRICS_DRIVER", "statsd")
	_, _, err := runArgs(t, "summary")
	assert.True(t, errors.Is(err, errors.ErrUnknownDriver))

	t.Setenv("TCRD_METRICS_DRIVER", "none")
	t.Setenv("TCRD_STORAGE_DRIVER", "mongo")
	_, _, err = runArgs(t, "summary")
	assert.True(t, errors.Is(err, errors.ErrUnknownDriver))
}

func TestLogLevelFlag(t *testing.T) {
	env(t)
	_, stderr, err := runArgs(t, "summary", "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, "operation complete")

	_, _, err = runArgs(t, "summary", "--log-level", "chatty")
	assert.Error(t, err)
}
