package upstream

import "time"

const (
	defaultHTTPTimeout = 3 * time.Second
	maxErrorBody       = 512
	sourceName         = "upstream"
)
