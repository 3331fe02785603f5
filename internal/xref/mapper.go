// Package xref builds cross-species accession tables from protein family
// files. Family members are identifier records of the form
// "<taxonID>:<accession>".
package xref

import (
	"bufio"
	"context"
	"io"
	"strings"

	"tcrdcore/internal/blob"
	"tcrdcore/internal/errors"
)

// HumanTaxon is the NCBI taxonomy id of Homo sapiens.
const HumanTaxon = "9606"

// Families maps a family name to its identifier records.
type Families map[string]Set

// ParseFamilies reads a family file. Each non-blank line holds a family name
// followed by one or more identifier records separated by tabs or spaces.
// Lines starting with '#' are comments. A family spread over several lines
// accumulates all of its records.
func ParseFamilies(r io.Reader) (Families, error) {
	families := make(Families)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		set, ok := families[fields[0]]
		if !ok {
			set = make(Set)
			families[fields[0]] = set
		}
		set.Add(fields[1:]...)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.MarkIO(err, "read family file")
	}
	return families, nil
}

// Split partitions identifier records into human accessions and accessions
// of the given taxon, with prefixes stripped. Records with any other prefix
// are dropped.
func Split(records Set, taxon string) (human, other Set) {
	human, other = make(Set), make(Set)
	humanPrefix := HumanTaxon + ":"
	otherPrefix := taxon + ":"
	for rec := range records {
		switch {
		case strings.HasPrefix(rec, humanPrefix):
			human.Add(rec[len(humanPrefix):])
		case strings.HasPrefix(rec, otherPrefix):
			other.Add(rec[len(otherPrefix):])
		}
	}
	return human, other
}

// Build maps every accession of taxon to the human accessions it shares a
// family with. An accession whose families hold no human member still gets
// a key with an empty set.
func Build(families Families, taxon string) Table {
	table := make(Table)
	for _, records := range families {
		human, other := Split(records, taxon)
		for acc := range other {
			table.upsert(acc).AddAll(human)
		}
	}
	return table
}

// Load reads the family file stored under key, then builds the taxon to
// human table. A read failure aborts the load with an error marked
// errors.ErrIO; no partial table is returned.
func Load(ctx context.Context, source blob.Store, key, taxon string) (Table, error) {
	if strings.TrimSpace(taxon) == "" {
		return nil, errors.WithHint(errors.New("taxon id required"), "set families.taxon, e.g. 7955 for zebrafish")
	}
	_, rc, err := source.Get(ctx, key)
	if err != nil {
		return nil, errors.MarkIO(err, "open family file %s", key)
	}
	defer func() { _ = rc.Close() }()
	families, err := ParseFamilies(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "parse family file %s", key)
	}
	return Build(families, taxon), nil
}

// LoadHumanTo loads the family file and returns the human to taxon table.
func LoadHumanTo(ctx context.Context, source blob.Store, key, taxon string) (Table, error) {
	toHuman, err := Load(ctx, source, key, taxon)
	if err != nil {
		return nil, err
	}
	return Invert(toHuman), nil
}
