// Package errors re-exports github.com/cockroachdb/errors and declares the
// failure kinds surfaced by tcrdcore.
//
// Callers classify failures with Is:
//
//	if errors.Is(err, errors.ErrNoResult) {
//	    // single-row lookup matched nothing
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	WithDetailf  = crdb.WithDetailf
	Mark         = crdb.Mark
	Is           = crdb.Is
	IsAny        = crdb.IsAny
	As           = crdb.As
	UnwrapAll    = crdb.UnwrapAll
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

var (
	// ErrIO marks failures reading an input (family file, blob object).
	ErrIO = New("io failure")

	// ErrNoResult is returned when a single-row query matched no rows.
	ErrNoResult = New("no result")

	// ErrNonUniqueResult is returned when a single-row query matched more than one row.
	ErrNonUniqueResult = New("non-unique result")

	// ErrInvalidField indicates a predicate on a field the entity does not expose.
	ErrInvalidField = New("invalid field")

	// ErrUnknownDriver indicates a configured backend name nothing implements.
	ErrUnknownDriver = New("unknown driver")
)

// MarkIO tags err as an I/O failure while keeping its message and cause chain.
func MarkIO(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Mark(Wrapf(err, format, args...), ErrIO)
}

// NoResultf builds an ErrNoResult with a formatted description of the lookup.
func NoResultf(format string, args ...interface{}) error {
	return Wrapf(ErrNoResult, format, args...)
}

// NonUniquef builds an ErrNonUniqueResult with a formatted description of the lookup.
func NonUniquef(format string, args ...interface{}) error {
	return Wrapf(ErrNonUniqueResult, format, args...)
}

// IsCardinality reports whether err is a single-result cardinality failure.
func IsCardinality(err error) bool {
	return err != nil && IsAny(err, ErrNoResult, ErrNonUniqueResult)
}
