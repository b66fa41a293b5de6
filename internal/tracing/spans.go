package tracing

// Span names.
const (
	SpanAction    = "roster.action"
	SpanRequest   = "roster.request"
	SpanReconcile = "roster.reconcile"
	SpanLoad      = "roster.load"
)

// Span attribute keys.
const (
	AttrActionID   = "action.id"
	AttrActionKind = "action.kind"
	AttrActivity   = "roster.activity"
	AttrStrategy   = "reconcile.strategy"
	AttrActivities = "snapshot.activities"
	AttrStage      = "sync.stage"
)
