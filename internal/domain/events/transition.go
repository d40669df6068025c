package events

// Transition is the outcome of applying a live flag to the registry.
type Transition int

const (
	// NoChange means the stored flag already matched.
	NoChange Transition = iota
	// WentLive means the event moved from absent or not-live to live.
	WentLive
	// WentDark means the event moved from live to not-live.
	WentDark
	// FirstSeenDark means the event was unknown and recorded as not-live.
	FirstSeenDark
)

func (t Transition) String() string {
	switch t {
	case NoChange:
		return "no_change"
	case WentLive:
		return "went_live"
	case WentDark:
		return "went_dark"
	case FirstSeenDark:
		return "first_seen_dark"
	default:
		return "unknown"
	}
}

// Changed reports whether the transition altered the live flag.
func (t Transition) Changed() bool {
	return t == WentLive || t == WentDark
}
