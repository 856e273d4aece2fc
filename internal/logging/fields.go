package logging

// Standardized structured logging keys for logdoc's own diagnostics.
const (
	// FieldComponent names the package or subsystem that logged.
	FieldComponent = "component"
	// FieldEventType classifies a record for filtering ("index_complete").
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to try next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	FieldRunID  = "run_id"
	FieldPath   = "path"
	// FieldFunction and FieldDesc mirror the enrichment keys so console
	// output highlights them.
	FieldFunction = "functionName"
	FieldDesc     = "desc"
)
