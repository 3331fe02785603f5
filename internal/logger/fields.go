package logger

// Standard field names for structured log lines.
const (
	FieldOperation  = "operation"
	FieldDurationMS = "duration_ms"
	FieldCount      = "count"
	FieldDriver     = "driver"
	FieldKey        = "key"
	FieldTaxon      = "taxon"
	FieldGene       = "gene"
	FieldError      = "error"
)
