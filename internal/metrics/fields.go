package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod     = "method"
	AttrPath       = "path"
	AttrStatus     = "status"
	AttrSource     = "source"
	AttrTopic      = "topic"
	AttrTransition = "transition"
	AttrOutcome    = "outcome"
)

// Outcome values for poll cycles.
const (
	OutcomePublished    = "published"
	OutcomeFetchFailed  = "fetch_failed"
	OutcomeEncodeFailed = "encode_failed"
	OutcomeSkipped      = "skipped"
)
