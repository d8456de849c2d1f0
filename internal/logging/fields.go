package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType is a stable machine-readable event name.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to try next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldRunID identifies every record emitted by one bootstrap run.
	FieldRunID = "run_id"
	// FieldTool names the tool an installer record refers to.
	FieldTool = "tool"
	// FieldStrategy names the installation strategy being attempted.
	FieldStrategy = "strategy"
	// FieldCheck names the environment check a record refers to.
	FieldCheck = "check"
)
